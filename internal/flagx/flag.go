// Package flagx parses a subset of os.Args so that independent loaders
// (JSON config path, runtime flags) can each own their flags without the
// standard flag package rejecting the others.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognised. A token that
// starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ParseSubset filters args down to the flags named in allowed, registers
// them on a fresh FlagSet via define and parses. Parse errors are returned.
func ParseSubset(name string, args []string, allowed []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(discard{})
	define(fs)
	return fs.Parse(FilterArgs(args, allowed))
}

// JsonConfigFlags returns the config file path given via -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	var config string
	_ = ParseSubset("json", os.Args[1:], []string{"-c", "-config"}, func(fs *flag.FlagSet) {
		fs.StringVar(&config, "config", "", "Path to config file")
		fs.StringVar(&config, "c", "", "Path to config file (short)")
	})
	return config
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
