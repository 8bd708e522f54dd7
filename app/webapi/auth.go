package webapi

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/didip/tollbooth/v8"
	"github.com/go-pkgz/rest"
)

// CallerKind defines how the caller was identified
type CallerKind int

// enum of caller kinds
const (
	Guest CallerKind = iota
	Authenticated
)

func (k CallerKind) String() string {
	if k == Authenticated {
		return "authenticated"
	}
	return "guest"
}

// Caller is the identity of the request sender. ID is empty for guests.
type Caller struct {
	Kind CallerKind
	ID   string
}

type callerCtxKey struct{}

// CallerFromContext returns the caller set by the server, guest if none
func CallerFromContext(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerCtxKey{}).(Caller); ok {
		return c
	}
	return Caller{Kind: Guest}
}

// identify resolves the caller from basic auth. No credentials make a guest,
// ok is false for wrong credentials.
func (s *Server) identify(r *http.Request) (caller Caller, ok bool) {
	user, passwd, hasAuth := r.BasicAuth()
	if !hasAuth {
		return Caller{Kind: Guest}, true
	}
	expected, found := s.Users[user]
	if !found || expected == "" || subtle.ConstantTimeCompare([]byte(passwd), []byte(expected)) != 1 {
		return Caller{}, false
	}
	return Caller{Kind: Authenticated, ID: user}, true
}

// callerMiddleware puts the caller to the request context, rejects wrong credentials with 403
func (s *Server) callerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.identify(r)
		if !ok {
			log.Printf("[WARN] wrong credentials from %s", r.RemoteAddr)
			w.WriteHeader(http.StatusForbidden)
			rest.RenderJSON(w, rest.JSON{"error": "wrong credentials"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerCtxKey{}, caller)))
	})
}

// guestLimitMiddleware limits daily checks of guests per ip, authenticated callers are not limited
func (s *Server) guestLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFromContext(r.Context()).Kind == Authenticated {
			next.ServeHTTP(w, r)
			return
		}
		if s.guestLimit == nil {
			s.unauthorized(w, "guest access is disabled")
			return
		}
		if httpErr := tollbooth.LimitByRequest(s.guestLimit, w, r); httpErr != nil {
			w.Header().Set("Content-Type", s.guestLimit.GetMessageContentType())
			w.WriteHeader(httpErr.StatusCode)
			_, _ = w.Write([]byte(httpErr.Message))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authRequiredMiddleware allows authenticated callers only
func (s *Server) authRequiredMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFromContext(r.Context()).Kind != Authenticated {
			s.unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminMiddleware allows the admin user only
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return s.authRequiredMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFromContext(r.Context()).ID != AdminUser {
			w.WriteHeader(http.StatusForbidden)
			rest.RenderJSON(w, rest.JSON{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (s *Server) unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="spam-check"`)
	w.WriteHeader(http.StatusUnauthorized)
	rest.RenderJSON(w, rest.JSON{"error": msg})
}
