package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database/testdb"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

func newOrphanage(name string, accept bool) *models.Orphanage {
	return &models.Orphanage{
		Name:         name,
		Latitude:     -23.5,
		Longitude:    -46.6,
		About:        "about",
		Instructions: "come by",
		OpeningHours: "8-18",
		Accept:       accept,
	}
}

func TestOrphanageRepository_CreateWithImages(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	repo := NewOrphanageRepository(db)

	o := newOrphanage("Casa Feliz", false)
	o.Images = []models.Image{
		{Name: "a.jpg", Size: 10, Key: "k1-a.jpg", URL: "http://x/files/k1-a.jpg"},
		{Name: "b.jpg", Size: 20, Key: "k2-b.jpg", URL: "http://x/files/k2-b.jpg"},
	}
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casa Feliz", got.Name)
	assert.False(t, got.Accept)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "k1-a.jpg", got.Images[0].Key)
	assert.Equal(t, o.ID, got.Images[1].OrphanageID)

	exists, err := repo.ExistsByName(ctx, "Casa Feliz")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Outra Casa")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrOrphanageNotFound)
}

func TestOrphanageRepository_ListByAccept(t *testing.T) {
	ctx := context.Background()
	repo := NewOrphanageRepository(testdb.Open(t))

	pending := newOrphanage("Pending", false)
	accepted := newOrphanage("Accepted", true)
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, accepted))

	list, err := repo.ListByAccept(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Accepted", list[0].Name)

	list, err = repo.ListByAccept(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pending", list[0].Name)

	require.NoError(t, repo.SetAccept(ctx, pending.ID, true))
	list, err = repo.ListByAccept(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, repo.SetAccept(ctx, 999, true), ErrOrphanageNotFound)
}

func TestOrphanageRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrphanageRepository(testdb.Open(t))

	o := newOrphanage("Lar", true)
	o.OpenOnWeekends = true
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.Update(ctx, o.ID, map[string]any{
		"name":             "Lar Novo",
		"open_on_weekends": false,
		"accept":           false,
	}))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lar Novo", got.Name)
	assert.False(t, got.OpenOnWeekends)
	assert.False(t, got.Accept)
	assert.Equal(t, "about", got.About)

	require.NoError(t, repo.Delete(ctx, o.ID))
	assert.ErrorIs(t, repo.Delete(ctx, o.ID), ErrOrphanageNotFound)
}
