package services

import (
	"context"
	"errors"

	"github.com/adoptme/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPetNotFound       = errors.New("pet not found")
	ErrPetAlreadyAdopted = errors.New("pet already adopted")
	ErrAdoptionNotFound  = errors.New("adoption not found")
)

// AdoptionService owns the adoption use case: the cross-entity transition
// that marks a pet as adopted, assigns it to a user and records the event.
type AdoptionService struct {
	DB *gorm.DB
}

func NewAdoptionService(db *gorm.DB) *AdoptionService {
	return &AdoptionService{DB: db}
}

// Create adopts the pet identified by petID on behalf of userID.
//
// Preconditions are checked in order: the user must exist, the pet must
// exist, and the pet must still be available. The adopted-flag transition is
// a single conditional UPDATE guarded on adopted = false, so two concurrent
// calls for the same pet cannot both commit; the loser observes zero
// affected rows and gets ErrPetAlreadyAdopted. All writes run inside one
// transaction, so a failure leaves no partial state behind.
//
// There is no reverse transition: once adopted, a pet stays adopted even if
// the adoption record is later deleted.
func (s *AdoptionService) Create(ctx context.Context, userID, petID uuid.UUID) (*models.Adoption, error) {
	var adoption models.Adoption

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		result := tx.Model(&models.Pet{}).
			Where("id = ? AND adopted = ?", petID, false).
			Updates(map[string]interface{}{"adopted": true, "owner_id": userID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either the pet does not exist or someone else got there first.
			var pet models.Pet
			if err := tx.First(&pet, "id = ?", petID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPetNotFound
				}
				return err
			}
			return ErrPetAlreadyAdopted
		}

		adoption = models.Adoption{OwnerID: user.ID, PetID: petID}
		return tx.Create(&adoption).Error
	})
	if err != nil {
		return nil, err
	}

	return &adoption, nil
}

func (s *AdoptionService) List(ctx context.Context) ([]models.Adoption, error) {
	var adoptions []models.Adoption
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&adoptions).Error; err != nil {
		return nil, err
	}
	return adoptions, nil
}

func (s *AdoptionService) Get(ctx context.Context, id uuid.UUID) (*models.Adoption, error) {
	var adoption models.Adoption
	if err := s.DB.WithContext(ctx).First(&adoption, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdoptionNotFound
		}
		return nil, err
	}
	return &adoption, nil
}

// AdoptionPatch reassigns the references of an existing adoption record.
// Nil fields are left untouched.
type AdoptionPatch struct {
	OwnerID *uuid.UUID
	PetID   *uuid.UUID
}

// Update applies an unconstrained merge to the record. It does not verify
// that the new owner or pet exist, nor does it touch the pets table; this is
// an administrative escape hatch, not the adoption flow.
func (s *AdoptionService) Update(ctx context.Context, id uuid.UUID, patch AdoptionPatch) (*models.Adoption, error) {
	updates := map[string]interface{}{}
	if patch.OwnerID != nil {
		updates["owner_id"] = *patch.OwnerID
	}
	if patch.PetID != nil {
		updates["pet_id"] = *patch.PetID
	}

	if len(updates) > 0 {
		result := s.DB.WithContext(ctx).Model(&models.Adoption{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrAdoptionNotFound
		}
	}

	return s.Get(ctx, id)
}

// Delete removes the historical record only. The pet keeps its adopted flag
// and owner; the caller decides whether that matters.
func (s *AdoptionService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.DB.WithContext(ctx).Delete(&models.Adoption{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdoptionNotFound
	}
	return nil
}
