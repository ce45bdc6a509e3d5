package calendars

import (
	"context"
	"time"

	"github.com/Aidin1998/calendars/common/dbutil"
	"github.com/Aidin1998/calendars/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage is the persistence contract the service depends on.
type Storage interface {
	List(ctx context.Context) ([]PartialCalendar, error)
	FindByID(ctx context.Context, id int32) (*Calendar, error)
	FindByName(ctx context.Context, name string) (*Calendar, error)
	Create(ctx context.Context, cal *Calendar) error
	Update(ctx context.Context, id int32, in Input, updatedAt time.Time) error
	Delete(ctx context.Context, id int32) (*DeletedCalendar, error)
}

// Repository stores calendars with gorm. Each method issues one statement.
type Repository struct {
	db *gorm.DB
}

var _ Storage = (*Repository)(nil)

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the calendars table when it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&Calendar{})
}

// List returns every calendar as a partial view, ordered by id.
func (r *Repository) List(ctx context.Context) ([]PartialCalendar, error) {
	calendars := make([]PartialCalendar, 0)
	err := r.db.WithContext(ctx).
		Model(&Calendar{}).
		Select("id", "name").
		Order("id").
		Find(&calendars).Error
	if err != nil {
		return nil, dbutil.WrapError(err)
	}
	return calendars, nil
}

func (r *Repository) FindByID(ctx context.Context, id int32) (*Calendar, error) {
	return dbutil.FindOne[Calendar](r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByName matches name exactly; with duplicates the lowest id wins.
func (r *Repository) FindByName(ctx context.Context, name string) (*Calendar, error) {
	return dbutil.FindOne[Calendar](r.db.WithContext(ctx).Where("name = ?", name).Order("id"))
}

// Create inserts cal as given and sets cal.ID to the generated key.
func (r *Repository) Create(ctx context.Context, cal *Calendar) error {
	if err := r.db.WithContext(ctx).Create(cal).Error; err != nil {
		return dbutil.WrapError(err)
	}
	return nil
}

// Update overwrites name and description and sets updated_at.
func (r *Repository) Update(ctx context.Context, id int32, in Input, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&Calendar{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        in.Name,
			"description": in.Description,
			"updated_at":  updatedAt,
		})
	if result.Error != nil {
		return dbutil.WrapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound.Explain("calendar not found")
	}
	return nil
}

// Delete removes the calendar and returns its former id, name and description.
// The row is read back with RETURNING, so of two concurrent deletes only the
// one that actually removed it succeeds.
func (r *Repository) Delete(ctx context.Context, id int32) (*DeletedCalendar, error) {
	var rows []Calendar
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "name"}, {Name: "description"}}}).
		Where("id = ?", id).
		Delete(&rows).Error
	if err != nil {
		return nil, dbutil.WrapError(err)
	}
	if len(rows) == 0 {
		return nil, errors.NotFound.Explain("calendar not found")
	}
	return &DeletedCalendar{ID: rows[0].ID, Name: rows[0].Name, Description: rows[0].Description}, nil
}
