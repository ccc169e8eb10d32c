package controllers

import (
	"errors"
	"net/http"

	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/pkg/bind"
	"github.com/bloomcart/bloomcart/pkg/response"
)

// TokenController issues bearer tokens for programmatic API access,
// mainly admin GraphQL clients.
type TokenController struct {
	auth *services.AuthService
}

func NewTokenController() *TokenController {
	return &TokenController{auth: services.NewAuthService()}
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Issue exchanges valid credentials for a signed bearer token.
func (c *TokenController) Issue(w http.ResponseWriter, r *http.Request) {
	var in tokenRequest
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.auth.Token(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	response.Success(w, map[string]string{"token": token})
}
