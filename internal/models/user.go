package models

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	BaseModel
	FirstName      string     `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName       string     `json:"lastName" gorm:"type:varchar(100);not null"`
	Email          string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash   string     `json:"-" gorm:"type:text;not null"`
	Role           UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	LastConnection *time.Time `json:"lastConnection,omitempty"`
	Pets           []Pet      `json:"pets,omitempty" gorm:"foreignKey:OwnerID"`
	Documents      []Document `json:"documents,omitempty" gorm:"foreignKey:UserID"`
	Adoptions      []Adoption `json:"-" gorm:"foreignKey:OwnerID"`
}
