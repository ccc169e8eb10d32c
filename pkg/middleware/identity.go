// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bloomcart/bloomcart/pkg/auth"
	"github.com/bloomcart/bloomcart/pkg/crypt"
	"github.com/bloomcart/bloomcart/pkg/response"
	"github.com/bloomcart/bloomcart/pkg/session"
)

// RememberCookie is the long-lived "remember me" cookie name.
const RememberCookie = "bloomcart_remember"

type identityKey struct{}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID uint
	Role   string
}

// rememberPayload is the encrypted remember-me cookie body.
type rememberPayload struct {
	UserID uint `json:"user_id"`
}

// LookupRole resolves a user's current role by ID. Supplied by the kernel
// so this package stays decoupled from the persistence layer.
type LookupRole func(userID uint) (role string, ok bool)

// ResolveIdentity returns middleware that establishes the caller's
// identity, trying in order: the cookie session, a bearer token, and the
// remember-me cookie. Requests without any of the three pass through
// anonymous; gating is done by RequireAuth and rbac.HasRole.
func ResolveIdentity(lookup LookupRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := fromSession(r); ok {
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			if id, ok := fromBearer(r); ok {
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			if id, ok := fromRememberCookie(r, lookup); ok {
				// Re-establish the short-lived session so later requests
				// skip the cookie decrypt.
				sess := session.FromCtx(r)
				sess.Set("user_id", id.UserID)
				sess.Set("role", id.Role)
				sess.Save(w) //nolint:errcheck
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func fromSession(r *http.Request) (Identity, bool) {
	sess := session.FromCtx(r)
	userID, ok := sess.GetUint("user_id")
	if !ok || userID == 0 {
		return Identity{}, false
	}
	role, _ := sess.GetString("role")
	if role == "" {
		role = "user"
	}
	return Identity{UserID: userID, Role: role}, true
}

func fromBearer(r *http.Request) (Identity, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, false
	}
	claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, true
}

func fromRememberCookie(r *http.Request, lookup LookupRole) (Identity, bool) {
	cookie, err := r.Cookie(RememberCookie)
	if err != nil || lookup == nil {
		return Identity{}, false
	}

	var payload rememberPayload
	if err := crypt.DecryptJSON(cookie.Value, &payload); err != nil || payload.UserID == 0 {
		return Identity{}, false
	}

	// The role is looked up fresh rather than trusted from the cookie.
	role, ok := lookup(payload.UserID)
	if !ok {
		return Identity{}, false
	}
	return Identity{UserID: payload.UserID, Role: role}, true
}

// SetRememberCookie issues the encrypted long-lived remember-me cookie.
func SetRememberCookie(w http.ResponseWriter, userID uint, ttl time.Duration) error {
	value, err := crypt.EncryptJSON(rememberPayload{UserID: userID})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearRememberCookie expires the remember-me cookie.
func ClearRememberCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the authenticated identity, if any.
func IdentityFromCtx(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey{}).(Identity)
	return id, ok
}

// UserIDFromCtx returns the authenticated user's ID, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := IdentityFromCtx(r)
	return id.UserID, ok
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r)
	return id.Role, ok
}

// RequireAuth blocks anonymous callers before they reach catalog-write or
// order operations. Browser clients are redirected to the login page with
// a next parameter; API clients receive a 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromCtx(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if response.WantsJSON(r) {
			response.Unauthorized(w)
			return
		}

		http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
	})
}
