package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/app/views"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/session"
)

// rememberTTL is the lifetime of the remember-me cookie.
const rememberTTL = 30 * 24 * time.Hour

// AuthController serves registration, login, and logout.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{auth: services.NewAuthService()}
}

type loginPage struct {
	Email string
	Next  string
}

type registerPage struct {
	Username string
	Email    string
}

// ShowLogin renders the login form. The route guard redirects
// authenticated users back to the catalog.
func (c *AuthController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	p := page(w, r, "Log in")
	p.Data = loginPage{Next: r.URL.Query().Get("next")}
	views.Render(w, "login", p)
}

// Login checks credentials and establishes the session. A failed attempt
// re-renders the form with a single generic notice.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, err := c.auth.Authenticate(email, password)
	if err != nil {
		p := page(w, r, "Log in")
		p.Flash = &views.Flash{Level: "danger", Message: "Login failed. Please check your email and password."}
		p.Data = loginPage{Email: email, Next: r.URL.Query().Get("next")}
		views.RenderStatus(w, http.StatusUnauthorized, "login", p)
		return
	}

	sess := session.FromCtx(r)
	sess.Set("user_id", user.ID)
	sess.Set("role", user.Role)
	sess.Set("username", user.Username)
	if err := sess.Save(w); err != nil {
		http.Error(w, "could not establish session", http.StatusInternalServerError)
		return
	}

	if r.PostFormValue("remember") != "" {
		middleware.SetRememberCookie(w, user.ID, rememberTTL) //nolint:errcheck
	}

	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// ShowRegister renders the registration form.
func (c *AuthController) ShowRegister(w http.ResponseWriter, r *http.Request) {
	p := page(w, r, "Register")
	p.Data = registerPage{}
	views.Render(w, "register", p)
}

// Register creates an account and sends the new user to the login page.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	in := services.RegisterInput{
		Username:             strings.TrimSpace(r.PostFormValue("username")),
		Email:                strings.TrimSpace(r.PostFormValue("email")),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
	}

	if _, err := c.auth.Register(in); err != nil {
		p := page(w, r, "Register")
		p.Data = registerPage{Username: in.Username, Email: in.Email}

		switch {
		case errors.Is(err, services.ErrEmailTaken):
			p.Flash = &views.Flash{Level: "danger", Message: "Email already registered. Please use a different email."}
		case errors.Is(err, services.ErrUsernameTaken):
			p.Flash = &views.Flash{Level: "danger", Message: "Username already taken. Please choose a different username."}
		default:
			if ve, ok := services.AsValidation(err); ok {
				p.Errors = ve.Fields
			} else {
				http.Error(w, "could not create account", http.StatusInternalServerError)
				return
			}
		}

		views.RenderStatus(w, http.StatusUnprocessableEntity, "register", p)
		return
	}

	flash(w, r, "success", "Your account has been created! You can now log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout destroys the session and the remember-me cookie.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	sess.Save(w) //nolint:errcheck
	middleware.ClearRememberCookie(w)

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeNext restricts post-login redirects to local paths so the next
// parameter cannot bounce users to another site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
