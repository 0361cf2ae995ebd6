package services

import (
	"sort"
	"strings"

	. "hauswart/internal/models"
)

// FloorCompletion is the derived, never-persisted view of which rooms on a
// floor have been serviced on a given date. It is recomputed from the raw
// task records on every change to the collection.
type FloorCompletion struct {
	FloorID        string   `json:"floorId"`
	FloorName      string   `json:"floorName"`
	Date           string   `json:"date"`
	CompletedRooms []string `json:"completedRooms"`
	TotalRooms     int      `json:"totalRooms"`
	Complete       bool     `json:"complete"`
}

// DeriveCompletion computes the completion view for one floor and date.
// A room counts as completed when at least one record exists for it with
// exactly the given date; duplicate records for the same room are harmless.
func DeriveCompletion(records []*CleaningTask, floor Floor, date string) FloorCompletion {
	view := FloorCompletion{
		FloorID:    floor.ID,
		FloorName:  floor.Name,
		Date:       date,
		TotalRooms: len(floor.Rooms),
	}

	prefix, ok := FloorPrefix(floor.ID)
	if !ok {
		// Unmapped floor ids derive an empty view rather than failing.
		return view
	}

	rooms := make(map[string]struct{}, len(floor.Rooms))
	for _, room := range floor.Rooms {
		rooms[room] = struct{}{}
	}

	completed := make(map[string]struct{})
	for _, record := range records {
		if record.Date != date {
			continue
		}
		if !strings.HasPrefix(record.RoomNumber, prefix) {
			continue
		}
		// Room numbers outside the floor catalog are excluded rather than
		// counted, which keeps upstream data problems visible.
		if _, known := rooms[record.RoomNumber]; !known {
			continue
		}
		completed[record.RoomNumber] = struct{}{}
	}

	view.CompletedRooms = make([]string, 0, len(completed))
	for room := range completed {
		view.CompletedRooms = append(view.CompletedRooms, room)
	}
	sort.Strings(view.CompletedRooms)

	view.Complete = len(floor.Rooms) > 0
	for _, room := range floor.Rooms {
		if _, done := completed[room]; !done {
			view.Complete = false
			break
		}
	}

	return view
}

// IsFloorComplete reports whether every room of the floor has at least one
// record for the given date.
func IsFloorComplete(records []*CleaningTask, floorID string, date string) bool {
	floor, ok := FloorByID(floorID)
	if !ok {
		return false
	}
	return DeriveCompletion(records, floor, date).Complete
}
