package dbutil

import (
	"github.com/Aidin1998/calendars/pkg/errors"
	"gorm.io/gorm"
)

// FindOne runs db as a single-row query into a T.
// No matching row yields errors.NotFound.
func FindOne[T any](db *gorm.DB) (*T, error) {
	var item T
	result := db.Limit(1).Find(&item)
	if result.Error != nil {
		return nil, WrapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.NotFound.Explain("calendar not found")
	}
	return &item, nil
}
