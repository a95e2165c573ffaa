package wishlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
)

type stubWishlistRepo struct {
	items  []models.WishlistItem
	err    error
	added  []uuid.UUID
	remove []uuid.UUID
}

func (s *stubWishlistRepo) Add(ctx context.Context, partyID, designID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.added = append(s.added, designID)
	return nil
}

func (s *stubWishlistRepo) Remove(ctx context.Context, partyID, designID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.remove = append(s.remove, designID)
	return nil
}

func (s *stubWishlistRepo) List(ctx context.Context, partyID uuid.UUID) ([]models.WishlistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubDesignChecker struct {
	err error
}

func (s *stubDesignChecker) FindByID(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Design{ID: id, Active: true}, nil
}

func TestWishlistAdd(t *testing.T) {
	repo := &stubWishlistRepo{}
	svc, err := NewService(repo, &stubDesignChecker{})
	require.NoError(t, err)

	designID := uuid.New()
	require.NoError(t, svc.Add(context.Background(), uuid.New(), designID))
	assert.Equal(t, []uuid.UUID{designID}, repo.added)
}

func TestWishlistAddUnknownDesign(t *testing.T) {
	svc, err := NewService(&stubWishlistRepo{}, &stubDesignChecker{err: gorm.ErrRecordNotFound})
	require.NoError(t, err)

	err = svc.Add(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestWishlistAddValidation(t *testing.T) {
	svc, err := NewService(&stubWishlistRepo{}, &stubDesignChecker{})
	require.NoError(t, err)

	err = svc.Add(context.Background(), uuid.Nil, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestWishlistRemove(t *testing.T) {
	repo := &stubWishlistRepo{}
	svc, err := NewService(repo, &stubDesignChecker{})
	require.NoError(t, err)

	designID := uuid.New()
	require.NoError(t, svc.Remove(context.Background(), uuid.New(), designID))
	assert.Equal(t, []uuid.UUID{designID}, repo.remove)
}

func TestWishlistList(t *testing.T) {
	designID := uuid.New()
	repo := &stubWishlistRepo{items: []models.WishlistItem{
		{PartyID: uuid.New(), DesignID: designID, CreatedAt: time.Now()},
	}}
	svc, err := NewService(repo, &stubDesignChecker{})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, designID, items[0].DesignID)
}

func TestWishlistListDependencyError(t *testing.T) {
	svc, err := NewService(&stubWishlistRepo{err: errors.New("boom")}, &stubDesignChecker{})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
