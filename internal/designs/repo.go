package designs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

// Repository handles design persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to design operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new design row.
func (r *Repository) Create(ctx context.Context, dto CreateDesignDTO) (*models.Design, error) {
	design := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(design).Error; err != nil {
		return nil, err
	}
	return design, nil
}

// FindByID loads a design by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	var design models.Design
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&design).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

// FindByIDs loads the designs for the provided ids. Missing ids are
// simply absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Design, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var designs []models.Design
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&designs).Error; err != nil {
		return nil, err
	}
	return designs, nil
}

// Update saves the provided design.
func (r *Repository) Update(ctx context.Context, design *models.Design) error {
	if design == nil {
		return fmt.Errorf("design is required")
	}
	return r.db.WithContext(ctx).Save(design).Error
}

// ListActive returns active designs newest first, cursor paginated.
func (r *Repository) ListActive(ctx context.Context, params pagination.Params) ([]models.Design, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Design
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
