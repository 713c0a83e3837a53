package identity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the persisted role entity. Name is globally unique.
type Role struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:50;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

// User is the persisted account entity. Login is globally unique and the
// password is stored only in hashed form. Deleting a role leaves users in
// place; the foreign key is restricted so a role with members cannot vanish
// silently.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Login        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:50"`
	LastName     string `gorm:"size:50"`
	RoleID       string `gorm:"size:36;not null"`
	Role         Role   `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	CreatedAt    time.Time
}

// LoginHistory is one login attempt record: pure bookkeeping, written
// asynchronously from audit events.
type LoginHistory struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:36;index"`
	Login       string    `gorm:"size:255"`
	LoginTime   time.Time `gorm:"not null"`
	IPAddress   string    `gorm:"size:45"`
	UserAgent   string    `gorm:"size:512"`
	DeviceType  string    `gorm:"size:50"`
	LoginStatus string    `gorm:"size:20;not null"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (h *LoginHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
