package models

import "gorm.io/gorm"

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an identity record. Username and email are globally unique;
// the password column holds a bcrypt hash and is never serialised.
type User struct {
	gorm.Model
	Username string  `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email    string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string  `gorm:"size:255;not null" json:"-"`
	Role     string  `gorm:"size:50;default:user" json:"role"`
	Orders   []Order `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
