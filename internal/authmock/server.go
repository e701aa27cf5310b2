package authmock

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/models"
)

type account struct {
	user         models.User
	passwordHash []byte
	phone        string
}

// Server is a mock authentication backend.
type Server struct {
	*httptest.Server

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration

	secret []byte
	now    func() time.Time

	mu        sync.Mutex
	accounts  map[string]*account
	nextID    int64
	calls     map[string]int
	headers   map[string]http.Header
	bodies    map[string][]byte
	overrides map[string]http.HandlerFunc
}

// New starts a mock backend on a loopback listener. Callers must Close it.
func New() *Server {
	s := NewBackend()
	s.Server = httptest.NewServer(s.Handler())
	return s
}

// NewBackend returns a backend that is not listening anywhere; serve its
// Handler with an http.Server. The embedded httptest.Server stays nil.
func NewBackend() *Server {
	return &Server{
		TokenTTL:  time.Hour,
		secret:    []byte("authmock-secret"),
		now:       time.Now,
		accounts:  map[string]*account{},
		calls:     map[string]int{},
		headers:   map[string]http.Header{},
		bodies:    map[string][]byte{},
		overrides: map[string]http.HandlerFunc{},
	}
}

// Handler returns the HTTP surface of the backend.
func (s *Server) Handler() http.Handler {
	return s.recorder(s.routes())
}

// SetSecret replaces the HS256 signing key.
func (s *Server) SetSecret(secret []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = append([]byte(nil), secret...)
}

// SetClock overrides the clock used to issue and check tokens.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddUser registers an account directly and returns its record. It panics
// when the password cannot be hashed (longer than 72 bytes).
func (s *Server) AddUser(reg models.Registration) models.User {
	hash, err := hashPassword(reg.Password)
	if err != nil {
		panic(fmt.Sprintf("authmock: add user %q: %v", reg.Username, err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(reg, hash)
}

func (s *Server) addLocked(reg models.Registration, passwordHash []byte) models.User {
	s.nextID++
	ts := s.now().UTC().Format("2006-01-02T15:04:05")
	u := models.User{
		ID:        s.nextID,
		Username:  reg.Username,
		Email:     reg.Email,
		FullName:  reg.FullName,
		Status:    models.UserStatusActive,
		Roles:     []string{"USER"},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.accounts[reg.Username] = &account{user: u, passwordHash: passwordHash, phone: reg.Phone}
	return u
}

// recorder keeps the last header and body per path and a call count, then
// dispatches to an override for the path when one is installed.
func (s *Server) recorder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			b, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "read body", http.StatusBadRequest)
				return
			}
			body = b
			r.Body = io.NopCloser(bytes.NewReader(b))
		}

		path := r.URL.Path
		s.mu.Lock()
		s.calls[path]++
		s.headers[path] = r.Header.Clone()
		s.bodies[path] = body
		override := s.overrides[path]
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Override replaces the handler for path. A nil handler restores the
// default route.
func (s *Server) Override(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		delete(s.overrides, path)
		return
	}
	s.overrides[path] = h
}

// Calls reports how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastHeader returns the headers of the latest request to path, or nil.
func (s *Server) LastHeader(path string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[path].Clone()
}

// LastBody returns the body of the latest request to path, or nil.
func (s *Server) LastBody(path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.bodies[path]...)
}
