// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call the service layer, and map domain errors onto
// responses; no business rules live here.
package controllers

import (
	"net/http"

	"github.com/bloomcart/bloomcart/app/views"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/session"
)

// page assembles the common template envelope: identity for the nav bar
// and any pending flash notice. Consuming the flash mutates the session,
// so it is saved here, before the body is written.
func page(w http.ResponseWriter, r *http.Request, title string) views.Page {
	p := views.Page{Title: title}

	if id, ok := middleware.IdentityFromCtx(r); ok {
		p.UserID = id.UserID
	}

	sess := session.FromCtx(r)
	if name, ok := sess.GetString("username"); ok {
		p.Username = name
	}
	if v, ok := sess.GetFlash("notice"); ok {
		if m, ok := v.(map[string]interface{}); ok {
			level, _ := m["level"].(string)
			message, _ := m["message"].(string)
			p.Flash = &views.Flash{Level: level, Message: message}
		}
		sess.Save(w) //nolint:errcheck
	}

	return p
}

// flash queues a one-shot notice for the next rendered page.
func flash(w http.ResponseWriter, r *http.Request, level, message string) {
	sess := session.FromCtx(r)
	sess.Flash("notice", map[string]interface{}{"level": level, "message": message})
	sess.Save(w) //nolint:errcheck
}
