// Package seed builds fake users and pets for demos and load testing. Not
// meant for production data.
package seed

import (
	"fmt"
	"time"

	"github.com/adoptme/backend/internal/models"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Every mock user shares this password so generated accounts stay usable
// in manual testing.
const mockPassword = "coder123"

var mockPasswordHash string

func init() {
	hash, err := utils.HashPassword(mockPassword)
	if err != nil {
		panic(fmt.Sprintf("failed hashing mock password: %v", err))
	}
	mockPasswordHash = hash
}

func MockUsers(count int) []models.User {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		role := models.UserRoleUser
		if gofakeit.Bool() {
			role = models.UserRoleAdmin
		}
		users = append(users, models.User{
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			Email:        gofakeit.Email(),
			PasswordHash: mockPasswordHash,
			Role:         role,
		})
	}
	return users
}

func MockPets(count int) []models.Pet {
	now := time.Now()
	pets := make([]models.Pet, 0, count)
	for i := 0; i < count; i++ {
		species := gofakeit.RandomString([]string{"Dog", "Cat"})

		var breed string
		if species == "Dog" {
			breed = gofakeit.Dog()
		} else {
			breed = gofakeit.Cat()
		}

		image := fmt.Sprintf("https://picsum.photos/seed/%s/400/300", gofakeit.UUID())

		pets = append(pets, models.Pet{
			Name:      gofakeit.PetName(),
			Species:   species,
			Breed:     &breed,
			BirthDate: gofakeit.DateRange(now.AddDate(-15, 0, 0), now),
			Adopted:   false,
			ImagePath: &image,
		})
	}
	return pets
}

// Insert persists generated rows in batches and reports how many of each
// were created.
func Insert(db *gorm.DB, users []models.User, pets []models.Pet) (int, int, error) {
	if len(users) > 0 {
		if err := db.CreateInBatches(users, 100).Error; err != nil {
			return 0, 0, err
		}
	}
	if len(pets) > 0 {
		if err := db.CreateInBatches(pets, 100).Error; err != nil {
			return len(users), 0, err
		}
	}
	return len(users), len(pets), nil
}
