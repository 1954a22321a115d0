package user

import (
	"time"

	coreuser "github.com/dchesque/app-loja/internal/core/user"
)

// User is a row of the users table. The password hash never leaves the
// process in JSON.
type User struct {
	ID           string        `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Email        string        `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"column:password;not null" json:"-"`
	Name         string        `gorm:"column:name;not null" json:"name"`
	Role         coreuser.Role `gorm:"column:role;not null" json:"role"`
	Active       bool          `gorm:"column:active;not null" json:"active"`
	LastLogin    *time.Time    `gorm:"column:last_login" json:"last_login"`
	CreatedAt    time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time    `gorm:"column:updated_at" json:"updated_at"`
	CreatedBy    *string       `gorm:"column:created_by;type:uuid" json:"created_by"`
	UpdatedBy    *string       `gorm:"column:updated_by;type:uuid" json:"updated_by"`
}

func (User) TableName() string {
	return "users"
}
