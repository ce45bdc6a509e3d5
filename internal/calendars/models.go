package calendars

import (
	"time"

	"gorm.io/gorm"
)

// Calendar is the stored row and its complete view.
type Calendar struct {
	ID          int32     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:text;not null;index" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// TableName pins the table regardless of naming strategy.
func (Calendar) TableName() string { return "calendars" }

// AfterFind normalizes timestamps to UTC. Drivers may hand them back in the
// local zone, while cached copies were written in UTC.
func (c *Calendar) AfterFind(*gorm.DB) error {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return nil
}

// PartialCalendar is the listing projection.
type PartialCalendar struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// DeletedCalendar is what a delete returns about the removed row.
type DeletedCalendar struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Input carries the client-supplied fields for create and update.
// Any string is accepted, including the empty string.
type Input struct {
	Name        string
	Description string
}
