package authmock

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/authclient/internal/client/models"
)

type envelope struct {
	Code           int     `json:"code"`
	Message        string  `json:"message"`
	Data           any     `json:"data"`
	Token          *string `json:"token,omitempty"`
	TokenExpiresAt *int64  `json:"tokenExpiresAt,omitempty"`
	Timestamp      int64   `json:"timestamp"`
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", s.me).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/validate", s.validate).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/refresh", s.refresh).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/check-username/{username}", s.checkUsername).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/check-phone/{phone}", s.checkPhone).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/check-email/{email}", s.checkEmail).Methods(http.MethodGet)

	return r
}

// WriteEnvelope writes a JSON envelope. Overrides use it to script replies.
func (s *Server) WriteEnvelope(w http.ResponseWriter, status, code int, message string, data any, token *string, expiresAt *int64) {
	s.mu.Lock()
	ts := s.now().UnixMilli()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Code:           code,
		Message:        message,
		Data:           data,
		Token:          token,
		TokenExpiresAt: expiresAt,
		Timestamp:      ts,
	})
}

func (s *Server) fail(w http.ResponseWriter, code int, message string) {
	s.WriteEnvelope(w, code, code, message, nil, nil, nil)
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	s.WriteEnvelope(w, http.StatusOK, http.StatusOK, "ok", data, nil, nil)
}

func (s *Server) withToken(w http.ResponseWriter, user models.User) {
	token, exp, err := s.IssueToken(user.Username, s.TokenTTL)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.WriteEnvelope(w, http.StatusOK, http.StatusOK, "ok", user, &token, &exp)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.fail(w, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[creds.Username]
	s.mu.Unlock()
	if !ok || !checkPassword(acc.passwordHash, creds.Password) {
		s.fail(w, http.StatusBadRequest, "invalid username or password")
		return
	}
	s.withToken(w, acc.user)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		s.fail(w, http.StatusBadRequest, "malformed request")
		return
	}

	if err := registration(reg).Validate(); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := hashPassword(reg.Password)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	if _, taken := s.accounts[reg.Username]; taken {
		s.mu.Unlock()
		s.fail(w, http.StatusBadRequest, "username already exists")
		return
	}
	if s.phoneTakenLocked(reg.Phone) {
		s.mu.Unlock()
		s.fail(w, http.StatusBadRequest, "phone already exists")
		return
	}
	user := s.addLocked(reg, hash)
	s.mu.Unlock()

	s.withToken(w, user)
}

// bearer authenticates the request; it writes a 401 envelope and returns
// false on failure.
func (s *Server) bearer(w http.ResponseWriter, r *http.Request, allowExpired bool) (string, bool) {
	raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || raw == "" {
		s.fail(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}
	claims, err := s.parseToken(raw, allowExpired)
	if err != nil {
		s.fail(w, http.StatusUnauthorized, "invalid token")
		return "", false
	}
	return claims.Subject, true
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	username, ok := s.bearer(w, r, false)
	if !ok {
		return
	}
	s.mu.Lock()
	acc, found := s.accounts[username]
	s.mu.Unlock()
	if !found {
		s.fail(w, http.StatusNotFound, "user not found")
		return
	}
	s.ok(w, acc.user)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	raw, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	claims, err := s.parseToken(raw, false)
	if err != nil {
		s.ok(w, models.TokenValidation{Valid: false})
		return
	}
	exp := claims.ExpiresAt.Time.UnixMilli()
	s.ok(w, models.TokenValidation{Valid: true, Username: claims.Subject, ExpiresAt: &exp})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	username, ok := s.bearer(w, r, true)
	if !ok {
		return
	}
	token, exp, err := s.IssueToken(username, s.TokenTTL)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(w, models.TokenRefresh{Token: token, ExpiresAt: exp})
}

func (s *Server) checkUsername(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	s.mu.Lock()
	_, taken := s.accounts[username]
	s.mu.Unlock()
	s.ok(w, availability("username", username, !taken))
}

func (s *Server) checkPhone(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]
	s.mu.Lock()
	taken := s.phoneTakenLocked(phone)
	s.mu.Unlock()
	s.ok(w, availability("phone", phone, !taken))
}

func (s *Server) checkEmail(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	s.mu.Lock()
	taken := false
	for _, acc := range s.accounts {
		if acc.user.Email == email {
			taken = true
			break
		}
	}
	s.mu.Unlock()
	s.ok(w, availability("email", email, !taken))
}

func (s *Server) phoneTakenLocked(phone string) bool {
	if phone == "" {
		return false
	}
	for _, acc := range s.accounts {
		if acc.phone == phone {
			return true
		}
	}
	return false
}

func availability(field, value string, available bool) map[string]any {
	msg := field + " is available"
	if !available {
		msg = field + " already exists"
	}
	return map[string]any{field: value, "available": available, "message": msg}
}
