package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ResolveUserFunc maps a verified external subject onto an internal
// user, creating one on first sight.
type ResolveUserFunc func(ctx context.Context, identity Identity) (User, error)

type DenyEvent struct {
	Time       time.Time
	Status     int
	Reason     string
	Error      string
	RequestID  string
	Method     string
	Path       string
	Subject    string
	RemoteAddr string
	UserAgent  string
}

type AuditFunc func(ctx context.Context, event DenyEvent) error

// Middleware is the auth gate. It verifies a presented credential and
// attaches the resolved internal user to the request context. A request
// without any credential passes through anonymously; whether anonymity
// is acceptable is decided per operation, not here.
type Middleware struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	ResolveUser   ResolveUserFunc
	Audit         AuditFunc
	SkipPrefixes  []string
}

func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range m.SkipPrefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		identity, err := m.Authenticator.Authenticate(r.Context(), r)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				next.ServeHTTP(w, r)
				return
			}
			m.logDeny(r, http.StatusUnauthorized, "invalid_token", err)
			m.auditDeny(r, "", http.StatusUnauthorized, "invalid_token", err)
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message":    "invalid token",
				"error":      "invalid_token",
				"request_id": r.Header.Get("X-Request-Id"),
			})
			return
		}

		if strings.TrimSpace(identity.Subject) == "" {
			err := errors.New("token carries no subject")
			m.logDeny(r, http.StatusUnauthorized, "invalid_token", err)
			m.auditDeny(r, "", http.StatusUnauthorized, "invalid_token", err)
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message":    "invalid token",
				"error":      "invalid_token",
				"request_id": r.Header.Get("X-Request-Id"),
			})
			return
		}

		user, err := m.ResolveUser(r.Context(), identity)
		if err != nil {
			m.logDeny(r, http.StatusInternalServerError, "identity_resolution_failed", err, "subject", identity.Subject)
			m.auditDeny(r, identity.Subject, http.StatusInternalServerError, "identity_resolution_failed", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"message":    "internal server error",
				"error":      "identity_resolution_failed",
				"request_id": r.Header.Get("X-Request-Id"),
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func (m Middleware) auditDeny(r *http.Request, subject string, status int, reason string, err error) {
	if m.Audit == nil {
		return
	}
	auditErr := m.Audit(r.Context(), DenyEvent{
		Time:       time.Now().UTC(),
		Status:     status,
		Reason:     reason,
		Error:      err.Error(),
		RequestID:  r.Header.Get("X-Request-Id"),
		Method:     r.Method,
		Path:       r.URL.Path,
		Subject:    subject,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})
	if auditErr == nil || m.Logger == nil {
		return
	}
	m.Logger.Warn("audit deny failed", "request_id", r.Header.Get("X-Request-Id"), "error", auditErr.Error())
}

func (m Middleware) logDeny(r *http.Request, status int, reason string, err error, extra ...any) {
	if m.Logger == nil {
		return
	}
	fields := []any{
		"reason", reason,
		"status", status,
		"request_id", r.Header.Get("X-Request-Id"),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	}
	fields = append(fields, extra...)
	if status >= 500 {
		m.Logger.Error("auth deny", fields...)
		return
	}
	m.Logger.Warn("auth deny", fields...)
}
