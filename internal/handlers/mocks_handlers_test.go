package handlers

import (
	"net/http"
	"testing"

	"github.com/adoptme/backend/internal/models"
)

func TestMockingUsersEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/mocks/mockingusers", nil, nil)
	body := decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusOK)

	payload, _ := body["payload"].([]any)
	if len(payload) != 50 {
		t.Fatalf("expected 50 mock users, got %d", len(payload))
	}

	first, _ := payload[0].(map[string]any)
	if email, _ := first["email"].(string); email == "" {
		t.Fatalf("mock user missing email: %+v", first)
	}
	if name, _ := first["firstName"].(string); name == "" {
		t.Fatalf("mock user missing first name: %+v", first)
	}
	if _, leaked := first["passwordHash"]; leaked {
		t.Fatal("mock users must not expose password hashes")
	}

	var persisted int64
	if err := env.db.Model(&models.User{}).Count(&persisted).Error; err != nil {
		t.Fatalf("failed counting users: %v", err)
	}
	if persisted != 0 {
		t.Fatal("mockingusers must not persist anything")
	}
}

func TestMockingPetsEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/mocks/mockingpets", nil, nil)
	body := decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusOK)

	payload, _ := body["payload"].([]any)
	if len(payload) != 100 {
		t.Fatalf("expected 100 mock pets, got %d", len(payload))
	}

	for _, entry := range payload {
		pet, _ := entry.(map[string]any)
		if adopted, _ := pet["adopted"].(bool); adopted {
			t.Fatal("generated pets must start unadopted")
		}
		species, _ := pet["species"].(string)
		if species != "Dog" && species != "Cat" {
			t.Fatalf("unexpected species %q", species)
		}
	}

	var persisted int64
	if err := env.db.Model(&models.Pet{}).Count(&persisted).Error; err != nil {
		t.Fatalf("failed counting pets: %v", err)
	}
	if persisted != 0 {
		t.Fatal("mockingpets must not persist anything")
	}
}

func TestGenerateDataEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("POST /api/mocks/generateData inserts the requested counts", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/mocks/generateData?users=3&pets=4", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		payload, _ := body["payload"].(map[string]any)
		inserted, _ := payload["inserted"].(map[string]any)
		if users, _ := inserted["users"].(float64); users != 3 {
			t.Fatalf("expected 3 inserted users, got %v", inserted["users"])
		}
		if pets, _ := inserted["pets"].(float64); pets != 4 {
			t.Fatalf("expected 4 inserted pets, got %v", inserted["pets"])
		}

		var userCount, petCount int64
		if err := env.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
			t.Fatalf("failed counting users: %v", err)
		}
		if err := env.db.Model(&models.Pet{}).Count(&petCount).Error; err != nil {
			t.Fatalf("failed counting pets: %v", err)
		}
		if userCount != 3 || petCount != 4 {
			t.Fatalf("expected 3 users and 4 pets persisted, got %d and %d", userCount, petCount)
		}
	})

	t.Run("POST /api/mocks/generateData rejects negative counts", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/mocks/generateData?users=-1&pets=2", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "counts must be non-negative")
	})
}

func TestGenerateDataPreviewEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/mocks/generateData/test", nil, nil)
	body := decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusOK)

	payload, _ := body["payload"].(map[string]any)
	users, _ := payload["users"].([]any)
	pets, _ := payload["pets"].([]any)
	if len(users) != 5 || len(pets) != 5 {
		t.Fatalf("expected 5 users and 5 pets in preview, got %d and %d", len(users), len(pets))
	}

	var userCount int64
	if err := env.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("failed counting users: %v", err)
	}
	if userCount != 0 {
		t.Fatal("preview must not persist anything")
	}
}
