package models

import (
	"time"

	"github.com/google/uuid"
)

// CleaningTask is one completed cleaning event for one room on one date.
// Rows are append-only: the service never updates or deletes a task, a
// re-cleaning of the same room is recorded as a new row.
type CleaningTask struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	Date                    string    `gorm:"type:varchar(10);not null;index"       json:"date"`
	Time                    string    `gorm:"type:varchar(5);not null"              json:"time"`
	RoomNumber              string    `gorm:"type:varchar(8);not null;index"        json:"roomNumber"`
	VisualCleaning          bool      `gorm:"not null;default:false"                json:"visualCleaning"`
	MaintenanceCleaning     bool      `gorm:"not null;default:false"                json:"maintenanceCleaning"`
	BasicRoomCleaning       bool      `gorm:"not null;default:false"                json:"basicRoomCleaning"`
	BedCleaning             bool      `gorm:"not null;default:false"                json:"bedCleaning"`
	WindowsCurtainsCleaning bool      `gorm:"not null;default:false"                json:"windowsCurtainsCleaning"`
	Notes                   string    `gorm:"type:text"                             json:"notes"`
	StaffName               string    `gorm:"type:varchar(100);not null"            json:"staffName"`
	CreatedAt               time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
}

// HasCleaningKind reports whether at least one of the five cleaning-kind
// flags is set.
func (t *CleaningTask) HasCleaningKind() bool {
	return t.VisualCleaning ||
		t.MaintenanceCleaning ||
		t.BasicRoomCleaning ||
		t.BedCleaning ||
		t.WindowsCurtainsCleaning
}

// CleaningKinds returns the user-facing labels of the selected cleaning
// kinds, in form order.
func (t *CleaningTask) CleaningKinds() []string {
	kinds := make([]string, 0, 5)
	if t.VisualCleaning {
		kinds = append(kinds, "Sichtreinigung")
	}
	if t.MaintenanceCleaning {
		kinds = append(kinds, "Unterhaltsreinigung")
	}
	if t.BasicRoomCleaning {
		kinds = append(kinds, "Zimmer Grundreinigung")
	}
	if t.BedCleaning {
		kinds = append(kinds, "Bett Grundreinigung")
	}
	if t.WindowsCurtainsCleaning {
		kinds = append(kinds, "Fenster und Gardinen")
	}
	return kinds
}
