package models

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	BaseModel
	Name      string     `json:"name" gorm:"type:varchar(150);not null"`
	Species   string     `json:"species" gorm:"type:varchar(100);not null"`
	Breed     *string    `json:"breed,omitempty" gorm:"type:varchar(150)"`
	BirthDate time.Time  `json:"birthDate" gorm:"not null"`
	Adopted   bool       `json:"adopted" gorm:"not null;default:false;index"`
	OwnerID   *uuid.UUID `json:"ownerID,omitempty" gorm:"type:uuid;index"`
	Owner     *User      `json:"-" gorm:"foreignKey:OwnerID"`
	ImagePath *string    `json:"imagePath,omitempty" gorm:"type:text"`
}
