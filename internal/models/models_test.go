package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestBaseModel_BeforeCreate(t *testing.T) {
	t.Run("generates UUID if not set", func(t *testing.T) {
		model := &BaseModel{}
		err := model.BeforeCreate(nil)
		if err != nil {
			t.Fatalf("BeforeCreate returned error: %v", err)
		}
		if model.ID == uuid.Nil {
			t.Error("expected ID to be generated, got nil UUID")
		}
	})

	t.Run("preserves existing UUID", func(t *testing.T) {
		existingID := uuid.New()
		model := &BaseModel{ID: existingID}
		err := model.BeforeCreate(nil)
		if err != nil {
			t.Fatalf("BeforeCreate returned error: %v", err)
		}
		if model.ID != existingID {
			t.Errorf("expected ID to remain %s, got %s", existingID, model.ID)
		}
	})
}

func TestPet_AdoptionDefaults(t *testing.T) {
	pet := Pet{Name: "Firulais", Species: "Dog"}
	if pet.Adopted {
		t.Error("expected new pet to start unadopted")
	}
	if pet.OwnerID != nil {
		t.Error("expected new pet to have no owner")
	}
}
