package designs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/cache"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

const listCacheKey = "designs:list:first-page"

type designRepository interface {
	Create(ctx context.Context, dto CreateDesignDTO) (*models.Design, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Design, error)
	Update(ctx context.Context, design *models.Design) error
	ListActive(ctx context.Context, params pagination.Params) ([]models.Design, string, error)
}

// Service exposes the designs catalogue.
type Service interface {
	Create(ctx context.Context, input CreateDesignInput) (*DesignDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DesignDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDesignInput) (*DesignDTO, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
}

type service struct {
	repo    designRepository
	cache   *cache.Cache
	listTTL time.Duration
}

// NewService builds a design service. The cache is optional; without it
// every list goes to the database.
func NewService(repo designRepository, listCache *cache.Cache, listTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("design repository required")
	}
	if listTTL <= 0 {
		listTTL = time.Minute
	}
	return &service{repo: repo, cache: listCache, listTTL: listTTL}, nil
}

// CreateDesignInput captures the data required to add a catalogue entry.
type CreateDesignInput struct {
	SKU         string
	Name        string
	Category    string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
}

// UpdateDesignInput captures the mutable design fields. Nil pointers are
// unchanged.
type UpdateDesignInput struct {
	Name        *string
	Category    *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	Active      *bool
}

// ListResult is one page of the catalogue.
type ListResult struct {
	Designs    []DesignDTO `json:"designs"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func (s *service) Create(ctx context.Context, input CreateDesignInput) (*DesignDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	design, err := s.repo.Create(ctx, CreateDesignDTO{
		SKU:         sku,
		Name:        name,
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create design")
	}

	s.invalidateList(ctx)
	return FromModel(design), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*DesignDTO, error) {
	design, err := s.loadDesign(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(design), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDesignInput) (*DesignDTO, error) {
	design, err := s.loadDesign(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		design.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		design.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		design.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		design.Price = *input.Price
	}
	if input.ImageURL != nil {
		design.ImageURL = input.ImageURL
	}
	if input.Active != nil {
		design.Active = *input.Active
	}

	if err := s.repo.Update(ctx, design); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update design")
	}

	s.invalidateList(ctx)
	return FromModel(design), nil
}

// List returns one catalogue page. The uncursored first page is the hot
// path and is served from cache when available.
func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	cacheable := s.cache != nil && params.Cursor == "" && params.Limit <= 0

	if cacheable {
		var result ListResult
		err := s.cache.GetOrSet(ctx, listCacheKey, s.listTTL, &result, func(ctx context.Context) (any, error) {
			return s.listFromRepo(ctx, params)
		})
		if err != nil {
			return nil, err
		}
		return &result, nil
	}
	return s.listFromRepo(ctx, params)
}

func (s *service) listFromRepo(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.ListActive(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list designs")
	}

	result := &ListResult{NextCursor: next, Designs: make([]DesignDTO, 0, len(rows))}
	for i := range rows {
		result.Designs = append(result.Designs, *FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) loadDesign(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design id is required")
	}
	design, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design")
	}
	return design, nil
}

// invalidateList drops the cached first page. Best effort.
func (s *service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, listCacheKey)
}
