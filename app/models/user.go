package models

import "time"

// Roles assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account in the store. Password holds a bcrypt hash; OTPCode
// holds the encrypted one-time passcode while email verification is
// pending.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string `gorm:"uniqueIndex;size:255" json:"email"`
	Password  string `gorm:"size:255" json:"-"`
	Role      string `gorm:"size:20;default:user" json:"role"`
	Verified  bool   `gorm:"default:false" json:"verified"`

	OTPCode      string     `gorm:"size:255" json:"-"`
	OTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
