package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomcart/bloomcart/config"
	"github.com/bloomcart/bloomcart/pkg/auth"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/session"
)

// identityEcho records the identity the middleware resolved.
func identityEcho(got *middleware.Identity, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = middleware.IdentityFromCtx(r)
	})
}

func TestResolveIdentityAnonymous(t *testing.T) {
	var got middleware.Identity
	var ok bool

	h := session.Middleware(session.DefaultOptions())(
		middleware.ResolveIdentity(nil)(identityEcho(&got, &ok)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestResolveIdentityFromBearerToken(t *testing.T) {
	config.Set("APP_KEY", "test-key")

	token, err := auth.GenerateToken(7, "admin")
	require.NoError(t, err)

	var got middleware.Identity
	var ok bool
	h := session.Middleware(session.DefaultOptions())(
		middleware.ResolveIdentity(nil)(identityEcho(&got, &ok)))

	r := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.True(t, ok)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "admin", got.Role)
}

func TestResolveIdentityRejectsGarbageToken(t *testing.T) {
	config.Set("APP_KEY", "test-key")

	var got middleware.Identity
	var ok bool
	h := session.Middleware(session.DefaultOptions())(
		middleware.ResolveIdentity(nil)(identityEcho(&got, &ok)))

	r := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.False(t, ok)
}

func TestResolveIdentityFromRememberCookie(t *testing.T) {
	config.Set("APP_KEY", "test-key")

	rec := httptest.NewRecorder()
	require.NoError(t, middleware.SetRememberCookie(rec, 7, 0))
	cookie := rec.Result().Cookies()[0]

	lookup := func(userID uint) (string, bool) {
		if userID == 7 {
			return "user", true
		}
		return "", false
	}

	var got middleware.Identity
	var ok bool
	h := session.Middleware(session.DefaultOptions())(
		middleware.ResolveIdentity(lookup)(identityEcho(&got, &ok)))

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.True(t, ok)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "user", got.Role)
}

func TestRequireAuthRedirectsBrowsers(t *testing.T) {
	h := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("anonymous request must not reach the handler")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile?tab=orders", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fprofile%3Ftab%3Dorders", rec.Header().Get("Location"))
}

func TestRequireAuthReturns401ForJSONClients(t *testing.T) {
	h := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("anonymous request must not reach the handler")
	}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.Header.Set("Accept", "application/json")
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
