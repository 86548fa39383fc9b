package models

import "github.com/google/uuid"

// Document is a file attached to a user profile (id papers, vaccination
// certificates and the like). The bytes live in object storage; this row
// keeps the name and storage reference.
type Document struct {
	BaseModel
	UserID      uuid.UUID `json:"userID" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	StoragePath string    `json:"storagePath" gorm:"type:text;not null"`
	MimeType    string    `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size        int64     `json:"size" gorm:"not null;default:0"`
}
