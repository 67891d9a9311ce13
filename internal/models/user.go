package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"-"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Image     string    `json:"image"`
	Role      Role      `gorm:"size:20;default:'MEMBER';not null" json:"role"`
	IsActive  bool      `gorm:"default:true;not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Account is the JSON view of a user for the user themself and for admins.
// User alone never serialises the email address.
type Account struct {
	User
	Email string `json:"email"`
}

func (u User) Account() Account {
	return Account{User: u, Email: u.Email}
}

func Accounts(users []User) []Account {
	out := make([]Account, len(users))
	for i := range users {
		out[i] = users[i].Account()
	}
	return out
}
