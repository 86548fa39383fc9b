package models

import "github.com/google/uuid"

// Adoption is the durable record of a user adopting a pet. It is created
// exactly once per successful adoption; deleting it does not revert the
// pet's adopted state.
type Adoption struct {
	BaseModel
	OwnerID uuid.UUID `json:"ownerID" gorm:"type:uuid;not null;index"`
	PetID   uuid.UUID `json:"petID" gorm:"type:uuid;not null;index"`
	Owner   User      `json:"-" gorm:"foreignKey:OwnerID"`
	Pet     Pet       `json:"-" gorm:"foreignKey:PetID"`
}
