package designs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/cache"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

type stubDesignRepo struct {
	design    *models.Design
	rows      []models.Design
	next      string
	findErr   error
	listErr   error
	listCalls int
}

func (s *stubDesignRepo) Create(ctx context.Context, dto CreateDesignDTO) (*models.Design, error) {
	design := dto.ToModel()
	design.ID = uuid.New()
	return design, nil
}

func (s *stubDesignRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.design, nil
}

func (s *stubDesignRepo) Update(ctx context.Context, design *models.Design) error {
	return nil
}

func (s *stubDesignRepo) ListActive(ctx context.Context, params pagination.Params) ([]models.Design, string, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, "", s.listErr
	}
	return s.rows, s.next, nil
}

func strPtr(s string) *string {
	return &s
}

func sampleDesign() *models.Design {
	return &models.Design{
		ID:       uuid.New(),
		SKU:      "LMY-0042",
		Name:     "Paisley Block Print",
		Category: "prints",
		Price:    decimal.NewFromInt(100),
		Active:   true,
	}
}

func newCachedService(t *testing.T, repo *stubDesignRepo) Service {
	t.Helper()
	c, err := cache.New(cache.NewMemoryStore())
	require.NoError(t, err)
	svc, err := NewService(repo, c, time.Minute)
	require.NoError(t, err)
	return svc
}

func TestServiceCreateValidation(t *testing.T) {
	svc, err := NewService(&stubDesignRepo{}, nil, 0)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateDesignInput{SKU: " ", Name: "x"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), CreateDesignInput{
		SKU: "LMY-1", Name: "x", Price: decimal.NewFromInt(-5),
	})
	require.Error(t, err)
}

func TestServiceCreate(t *testing.T) {
	svc, err := NewService(&stubDesignRepo{}, nil, 0)
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), CreateDesignInput{
		SKU:   " LMY-0042 ",
		Name:  "Paisley Block Print",
		Price: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "LMY-0042", dto.SKU)
	assert.True(t, dto.Active)
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubDesignRepo{findErr: gorm.ErrRecordNotFound}, nil, 0)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceUpdate(t *testing.T) {
	repo := &stubDesignRepo{design: sampleDesign()}
	svc, err := NewService(repo, nil, 0)
	require.NoError(t, err)

	price := decimal.NewFromInt(120)
	dto, err := svc.Update(context.Background(), repo.design.ID, UpdateDesignInput{
		Name:  strPtr("Paisley Block Print v2"),
		Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Paisley Block Print v2", dto.Name)
	assert.Equal(t, "120", dto.Price)
}

func TestServiceListCachesFirstPage(t *testing.T) {
	repo := &stubDesignRepo{rows: []models.Design{*sampleDesign()}}
	svc := newCachedService(t, repo)

	first, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	require.Len(t, first.Designs, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	require.Len(t, second.Designs, 1)
	assert.Equal(t, 1, repo.listCalls, "second first-page list should hit the cache")
}

func TestServiceListCursorBypassesCache(t *testing.T) {
	repo := &stubDesignRepo{rows: []models.Design{*sampleDesign()}}
	svc := newCachedService(t, repo)

	cursor := pagination.NextCursor(true, time.Now(), uuid.New())
	_, err := svc.List(context.Background(), pagination.Params{Cursor: cursor})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), pagination.Params{Cursor: cursor})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestServiceCreateInvalidatesListCache(t *testing.T) {
	repo := &stubDesignRepo{rows: []models.Design{*sampleDesign()}}
	svc := newCachedService(t, repo)

	_, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(context.Background(), CreateDesignInput{
		SKU: "LMY-0043", Name: "Ikat Panel", Price: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "create should invalidate the cached page")
}

func TestServiceListDependencyError(t *testing.T) {
	svc, err := NewService(&stubDesignRepo{listErr: errors.New("boom")}, nil, 0)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), pagination.Params{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
