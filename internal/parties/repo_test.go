package parties

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
)

func setupPartiesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS parties (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  gstin TEXT,
  city TEXT,
  phone TEXT,
  email TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  owner TEXT NOT NULL,
  volume_tier_id TEXT,
  relationship_tier_id TEXT,
  hybrid_auto_tier_id TEXT,
  hybrid_manual_override INTEGER NOT NULL DEFAULT 0,
  hybrid_override_tier_id TEXT,
  monthly_order_count INTEGER NOT NULL DEFAULT 0,
  tier_last_updated DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedParty(t *testing.T, db *gorm.DB, active bool) *models.Party {
	t.Helper()
	party := &models.Party{
		ID:      uuid.New(),
		Name:    "Kanchi Textiles",
		Active:  active,
		OwnerID: uuid.New(),
	}
	require.NoError(t, db.Create(party).Error)
	return party
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupPartiesTestDB(t)
	repo := NewRepository(db)
	party := seedParty(t, db, true)

	found, err := repo.FindByID(context.Background(), party.ID)
	require.NoError(t, err)
	assert.Equal(t, party.ID, found.ID)
	assert.Equal(t, "Kanchi Textiles", found.Name)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActiveIDs(t *testing.T) {
	db := setupPartiesTestDB(t)
	repo := NewRepository(db)

	active := seedParty(t, db, true)
	seedParty(t, db, false)

	ids, err := repo.ListActiveIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, active.ID, ids[0])
}

func TestRepositoryUpdateTierState(t *testing.T) {
	db := setupPartiesTestDB(t)
	repo := NewRepository(db)
	party := seedParty(t, db, true)

	now := time.Now().UTC().Truncate(time.Second)
	err := repo.UpdateTierState(context.Background(), party.ID, tiers.TierState{
		VolumeTierID:      "silver",
		HybridAutoTierID:  "silver",
		MonthlyOrderCount: 30,
		UpdatedAt:         now,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), party.ID)
	require.NoError(t, err)
	require.NotNil(t, found.VolumeTierID)
	assert.Equal(t, "silver", *found.VolumeTierID)
	require.NotNil(t, found.HybridAutoTierID)
	assert.Equal(t, "silver", *found.HybridAutoTierID)
	assert.Equal(t, 30, found.MonthlyOrderCount)
	require.NotNil(t, found.TierLastUpdated)
}

func TestRepositoryUpdateTierStateClearsAssignment(t *testing.T) {
	db := setupPartiesTestDB(t)
	repo := NewRepository(db)
	party := seedParty(t, db, true)

	require.NoError(t, repo.UpdateTierState(context.Background(), party.ID, tiers.TierState{
		VolumeTierID:      "silver",
		HybridAutoTierID:  "silver",
		MonthlyOrderCount: 30,
		UpdatedAt:         time.Now(),
	}))
	require.NoError(t, repo.UpdateTierState(context.Background(), party.ID, tiers.TierState{
		MonthlyOrderCount: 2,
		UpdatedAt:         time.Now(),
	}))

	found, err := repo.FindByID(context.Background(), party.ID)
	require.NoError(t, err)
	assert.Nil(t, found.VolumeTierID)
	assert.Nil(t, found.HybridAutoTierID)
	assert.Equal(t, 2, found.MonthlyOrderCount)
}

func TestRepositoryUpdateTierStateMissingParty(t *testing.T) {
	db := setupPartiesTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateTierState(context.Background(), uuid.New(), tiers.TierState{
		VolumeTierID:     "copper",
		HybridAutoTierID: "copper",
		UpdatedAt:        time.Now(),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
