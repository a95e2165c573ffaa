package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the order and its line items in one transaction.
func (r *Repository) Create(ctx context.Context, order *models.Order, items []models.OrderLineItem) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	if len(items) == 0 {
		return fmt.Errorf("order requires at least one line item")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
}

// FindByID loads an order and its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, []models.OrderLineItem, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, nil, err
	}

	var items []models.OrderLineItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

// ListByParty returns the party's orders newest first, cursor paginated.
func (r *Repository) ListByParty(ctx context.Context, partyID uuid.UUID, params pagination.Params) ([]models.Order, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	var next string
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		next = pagination.NextCursor(hasMore, last.CreatedAt, last.ID)
	}
	return rows, next, nil
}

// CountForPartyBetween counts the party's non-canceled orders placed in
// the half-open window [from, to).
func (r *Repository) CountForPartyBetween(ctx context.Context, partyID uuid.UUID, from time.Time, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("party_id = ?", partyID).
		Where("status <> ?", enums.OrderStatusCanceled).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
