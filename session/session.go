// Package session issues the anonymous signed cookie that scopes builder
// drafts and hand-off records to one browser.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const (
	CookieName = "studio_session"
	idCtxKey   = ctxKey("sessionID")
)

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewManager returns a manager signing with secret. maxAge bounds the cookie
// lifetime; zero makes it a browser-session cookie.
func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	if secret == "" {
		secret = "devsessionsecret"
	}
	return &Manager{secret: []byte(secret), maxAge: maxAge, secure: secure, now: time.Now}
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Issue mints a fresh session id and sets its cookie.
func (m *Manager) Issue(w http.ResponseWriter) string {
	id := uuid.NewString()
	c := &http.Cookie{
		Name:     CookieName,
		Value:    id + "." + m.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.maxAge > 0 {
		c.Expires = m.now().Add(m.maxAge)
		c.MaxAge = int(m.maxAge / time.Second)
	}
	http.SetCookie(w, c)
	return id
}

// Clear deletes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// Parse validates the cookie and returns the session id.
func (m *Manager) Parse(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// WithID stores the session id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idCtxKey, id)
}

// IDFromContext extracts the session id.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idCtxKey).(string)
	return id, ok && id != ""
}

// Middleware attaches the session id to the request context, issuing a new
// cookie when the request has none or carries a forged one.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.Parse(r)
		if !ok {
			id = m.Issue(w)
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
