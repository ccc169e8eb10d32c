package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/repositories"
	"github.com/bloomcart/bloomcart/pkg/auth"
	"github.com/bloomcart/bloomcart/pkg/validate"
)

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username             string `json:"username" validate:"required,min=2,max=20"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// AuthService owns registration and credential checks. Passwords exist in
// plain text only inside the call boundary; storage sees bcrypt hashes.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a new account. Uniqueness of email and username is
// checked before the insert; duplicates abort with no row written.
func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	errs := validate.Struct(&in)
	if in.Password != in.PasswordConfirmation {
		errs["password"] = "The password confirmation does not match."
	}
	if validate.HasErrors(errs) {
		return models.User{}, NewValidationError(errs)
	}

	if taken, err := s.users.ExistsByEmail(in.Email); err != nil {
		return models.User{}, fmt.Errorf("auth: check email: %w", err)
	} else if taken {
		return models.User{}, ErrEmailTaken
	}

	if taken, err := s.users.ExistsByUsername(in.Username); err != nil {
		return models.User{}, fmt.Errorf("auth: check username: %w", err)
	} else if taken {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("auth: create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password
// both return ErrInvalidCredentials.
func (s *AuthService) Authenticate(email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("auth: lookup: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Token issues a signed bearer token for programmatic API access.
func (s *AuthService) Token(email, password string) (string, error) {
	user, err := s.Authenticate(email, password)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(user.ID, user.Role)
}

// LookupRole resolves a user's current role, for the identity middleware.
func (s *AuthService) LookupRole(userID uint) (string, bool) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return "", false
	}
	return user.Role, true
}

// CreateAdmin provisions an administrator account. Used by the
// create-admin CLI command; no HTTP route exposes role assignment.
func (s *AuthService) CreateAdmin(username, email, password string) (models.User, error) {
	user, err := s.Register(RegisterInput{
		Username:             username,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	})
	if err != nil {
		return models.User{}, err
	}

	user.Role = models.RoleAdmin
	if err := s.users.Update(&user); err != nil {
		return models.User{}, fmt.Errorf("auth: promote: %w", err)
	}
	return user, nil
}
