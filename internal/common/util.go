package common

// WipeByteArray overwrites b with zeros. Used to drop passwords read from
// the terminal once they have been sent. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
