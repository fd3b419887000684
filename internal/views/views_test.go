package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

func TestRenderUserHidesSecrets(t *testing.T) {
	token := "abc"
	u := models.User{
		ID:                 7,
		Name:               "Ana",
		Email:              "ana@example.com",
		Password:           "$2a$10$hash",
		PasswordResetToken: &token,
		CreatedAt:          time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	raw, err := json.Marshal(RenderUser(u))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Ana","email":"ana@example.com","created_at":"2024-01-02T03:04:05Z"}`, string(raw))
}

func TestRenderOrphanage(t *testing.T) {
	o := models.Orphanage{
		ID:             3,
		Name:           "Casa Feliz",
		Latitude:       -23.5,
		Longitude:      -46.6,
		About:          "about",
		Instructions:   "instructions",
		OpeningHours:   "8h-18h",
		OpenOnWeekends: true,
		Images: []models.Image{
			{ID: 1, Name: "a.png", Size: 10, Key: "k-a.png", URL: "http://localhost:3333/files/k-a.png", OrphanageID: 3},
		},
	}

	v := RenderOrphanage(o)
	assert.Equal(t, "opening_hours", jsonKey(t, v, "8h-18h"))
	require.Len(t, v.Images, 1)
	assert.Equal(t, "http://localhost:3333/files/k-a.png", v.Images[0].URL)
	assert.False(t, v.Accept)
}

func TestRenderManyNeverNull(t *testing.T) {
	raw, err := json.Marshal(RenderOrphanages(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = json.Marshal(RenderOrphanage(models.Orphanage{}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"images":[]`)

	assert.Empty(t, RenderUsers(nil))
	assert.NotNil(t, RenderUsers(nil))
}

// jsonKey returns the key under which value appears in v's encoding.
func jsonKey(t *testing.T, v any, value string) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for k, got := range fields {
		if got == value {
			return k
		}
	}
	return ""
}
