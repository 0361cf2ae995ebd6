package models

import (
	"time"

	"gorm.io/datatypes"
)

// NoteTemplate is a seeded catalog entry of predefined note texts the
// client offers when reporting defects (repairs, painting, misc).
type NoteTemplate struct {
	ID        int            `gorm:"type:int;primaryKey;autoIncrement" json:"id"`
	Category  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"category"`
	SortOrder int            `gorm:"not null;default:0" json:"sortOrder"`
	Items     datatypes.JSON `gorm:"not null" json:"items"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
