package parties

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
)

type partyRepository interface {
	Create(ctx context.Context, dto CreatePartyDTO) (*models.Party, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
	Update(ctx context.Context, party *models.Party) error
}

// Service exposes party profile and tier assignment operations.
type Service interface {
	Create(ctx context.Context, input CreatePartyInput) (*PartyDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PartyDTO, error)
	GetDiscount(ctx context.Context, partyID uuid.UUID, model enums.PricingModel) (*DiscountDTO, error)
	UpdateTierAssignments(ctx context.Context, partyID uuid.UUID, input TierAssignmentInput) (*PartyDTO, error)
}

type service struct {
	repo     partyRepository
	resolver *tiers.Resolver
}

// NewService builds a party service with the provided repository.
func NewService(repo partyRepository, resolver *tiers.Resolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("party repository required")
	}
	if resolver == nil {
		resolver = tiers.NewResolver(nil)
	}
	return &service{repo: repo, resolver: resolver}, nil
}

// CreatePartyInput captures the data required to register a party.
type CreatePartyInput struct {
	Name    string
	GSTIN   *string
	City    *string
	Phone   *string
	Email   *string
	OwnerID uuid.UUID
}

// TierAssignmentInput captures the manually managed tier fields. Pointer
// fields left nil are unchanged; an empty string clears the assignment.
type TierAssignmentInput struct {
	RelationshipTierID   *string
	HybridManualOverride *bool
	HybridOverrideTierID *string
	Active               *bool
}

// DiscountDTO is the resolved discount for a party under one pricing
// model, alongside the stored tier fields it was derived from.
type DiscountDTO struct {
	PartyID            uuid.UUID          `json:"party_id"`
	PricingModel       enums.PricingModel `json:"pricing_model"`
	DiscountPercentage string             `json:"discount_percentage"`
	TierID             *string            `json:"tier_id,omitempty"`
	TierName           *string            `json:"tier_name,omitempty"`
	Overridden         bool               `json:"overridden"`

	VolumeTierID         *string    `json:"volume_tier_id,omitempty"`
	RelationshipTierID   *string    `json:"relationship_tier_id,omitempty"`
	HybridAutoTierID     *string    `json:"hybrid_auto_tier_id,omitempty"`
	HybridManualOverride bool       `json:"hybrid_manual_override"`
	HybridOverrideTierID *string    `json:"hybrid_override_tier_id,omitempty"`
	MonthlyOrderCount    int        `json:"monthly_order_count"`
	TierLastUpdated      *time.Time `json:"tier_last_updated,omitempty"`
}

func (s *service) Create(ctx context.Context, input CreatePartyInput) (*PartyDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party name is required")
	}
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}

	party, err := s.repo.Create(ctx, CreatePartyDTO{
		Name:    name,
		GSTIN:   input.GSTIN,
		City:    input.City,
		Phone:   input.Phone,
		Email:   input.Email,
		OwnerID: input.OwnerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create party")
	}
	return FromModel(party), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PartyDTO, error) {
	party, err := s.loadParty(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(party), nil
}

func (s *service) GetDiscount(ctx context.Context, partyID uuid.UUID, model enums.PricingModel) (*DiscountDTO, error) {
	party, err := s.loadParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	resolved := s.resolver.Resolve(party, model)
	dto := &DiscountDTO{
		PartyID:            party.ID,
		PricingModel:       model,
		DiscountPercentage: resolved.Percentage.String(),
		Overridden:         resolved.Overridden,

		VolumeTierID:         party.VolumeTierID,
		RelationshipTierID:   party.RelationshipTierID,
		HybridAutoTierID:     party.HybridAutoTierID,
		HybridManualOverride: party.HybridManualOverride,
		HybridOverrideTierID: party.HybridOverrideTierID,
		MonthlyOrderCount:    party.MonthlyOrderCount,
		TierLastUpdated:      party.TierLastUpdated,
	}
	if resolved.TierID != "" {
		tierID := resolved.TierID
		tierName := resolved.TierName
		dto.TierID = &tierID
		dto.TierName = &tierName
	}
	return dto, nil
}

func (s *service) UpdateTierAssignments(ctx context.Context, partyID uuid.UUID, input TierAssignmentInput) (*PartyDTO, error) {
	party, err := s.loadParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	catalog := s.resolver.Catalog()
	if input.RelationshipTierID != nil {
		id := strings.TrimSpace(*input.RelationshipTierID)
		if id == "" {
			party.RelationshipTierID = nil
		} else {
			if _, ok := catalog.RelationshipTierByID(id); !ok {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown relationship tier %q", id))
			}
			party.RelationshipTierID = &id
		}
	}
	if input.HybridOverrideTierID != nil {
		id := strings.TrimSpace(*input.HybridOverrideTierID)
		if id == "" {
			party.HybridOverrideTierID = nil
		} else {
			if _, ok := catalog.VolumeTierByID(id); !ok {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown volume tier %q", id))
			}
			party.HybridOverrideTierID = &id
		}
	}
	if input.HybridManualOverride != nil {
		party.HybridManualOverride = *input.HybridManualOverride
	}
	if party.HybridManualOverride && party.HybridOverrideTierID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manual override requires an override tier")
	}
	if input.Active != nil {
		party.Active = *input.Active
	}

	if err := s.repo.Update(ctx, party); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update party")
	}
	return FromModel(party), nil
}

func (s *service) loadParty(ctx context.Context, id uuid.UUID) (*models.Party, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "party not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load party")
	}
	return party, nil
}
