package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
)

type wishlistRepository interface {
	Add(ctx context.Context, partyID, designID uuid.UUID) error
	Remove(ctx context.Context, partyID, designID uuid.UUID) error
	List(ctx context.Context, partyID uuid.UUID) ([]models.WishlistItem, error)
}

type designChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Design, error)
}

// Service exposes wishlist operations scoped to the acting party.
type Service interface {
	Add(ctx context.Context, partyID, designID uuid.UUID) error
	Remove(ctx context.Context, partyID, designID uuid.UUID) error
	List(ctx context.Context, partyID uuid.UUID) ([]ItemDTO, error)
}

// ItemDTO is one wishlist entry.
type ItemDTO struct {
	DesignID uuid.UUID `json:"design_id"`
	AddedAt  time.Time `json:"added_at"`
}

type service struct {
	repo    wishlistRepository
	designs designChecker
}

// NewService builds a wishlist service.
func NewService(repo wishlistRepository, designs designChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if designs == nil {
		return nil, fmt.Errorf("design repository required")
	}
	return &service{repo: repo, designs: designs}, nil
}

func (s *service) Add(ctx context.Context, partyID, designID uuid.UUID) error {
	if partyID == uuid.Nil || designID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "party id and design id are required")
	}

	if _, err := s.designs.FindByID(ctx, designID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design")
	}

	if err := s.repo.Add(ctx, partyID, designID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, partyID, designID uuid.UUID) error {
	if partyID == uuid.Nil || designID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "party id and design id are required")
	}
	if err := s.repo.Remove(ctx, partyID, designID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

func (s *service) List(ctx context.Context, partyID uuid.UUID) ([]ItemDTO, error) {
	if partyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}

	items, err := s.repo.List(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemDTO{DesignID: item.DesignID, AddedAt: item.CreatedAt})
	}
	return dtos, nil
}
