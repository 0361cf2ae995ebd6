package services

import (
	"fmt"
	"testing"

	. "hauswart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskFor(room, date string) *CleaningTask {
	return &CleaningTask{
		RoomNumber:     room,
		Date:           date,
		VisualCleaning: true,
		StaffName:      "Maria",
	}
}

func TestDeriveCompletion(t *testing.T) {
	eg, ok := FloorByID("eg")
	require.True(t, ok)

	testCases := []struct {
		name          string
		records       []*CleaningTask
		date          string
		wantCompleted []string
		wantComplete  bool
	}{
		{
			name:          "no records",
			records:       nil,
			date:          "2026-08-31",
			wantCompleted: []string{},
			wantComplete:  false,
		},
		{
			name: "single room completed",
			records: []*CleaningTask{
				taskFor("101", "2026-08-31"),
			},
			date:          "2026-08-31",
			wantCompleted: []string{"101"},
			wantComplete:  false,
		},
		{
			name: "duplicate records count once",
			records: []*CleaningTask{
				taskFor("101", "2026-08-31"),
				taskFor("101", "2026-08-31"),
				taskFor("102", "2026-08-31"),
			},
			date:          "2026-08-31",
			wantCompleted: []string{"101", "102"},
			wantComplete:  false,
		},
		{
			name: "other dates excluded",
			records: []*CleaningTask{
				taskFor("101", "2026-08-30"),
				taskFor("102", "2026-08-31"),
			},
			date:          "2026-08-31",
			wantCompleted: []string{"102"},
			wantComplete:  false,
		},
		{
			name: "other floors excluded",
			records: []*CleaningTask{
				taskFor("201", "2026-08-31"),
				taskFor("301", "2026-08-31"),
				taskFor("103", "2026-08-31"),
			},
			date:          "2026-08-31",
			wantCompleted: []string{"103"},
			wantComplete:  false,
		},
		{
			name: "rooms outside the catalog excluded",
			records: []*CleaningTask{
				taskFor("199", "2026-08-31"),
				taskFor("1XX", "2026-08-31"),
				taskFor("104", "2026-08-31"),
			},
			date:          "2026-08-31",
			wantCompleted: []string{"104"},
			wantComplete:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view := DeriveCompletion(tc.records, eg, tc.date)

			assert.Equal(t, "eg", view.FloorID)
			assert.Equal(t, tc.date, view.Date)
			assert.Equal(t, len(eg.Rooms), view.TotalRooms)
			assert.Equal(t, tc.wantCompleted, view.CompletedRooms)
			assert.Equal(t, tc.wantComplete, view.Complete)
		})
	}
}

func TestDeriveCompletion_FullFloor(t *testing.T) {
	eg, ok := FloorByID("eg")
	require.True(t, ok)
	require.Len(t, eg.Rooms, 31)

	records := make([]*CleaningTask, 0, len(eg.Rooms))
	for _, room := range eg.Rooms {
		records = append(records, taskFor(room, "2026-08-31"))
	}

	view := DeriveCompletion(records, eg, "2026-08-31")

	assert.True(t, view.Complete)
	assert.Len(t, view.CompletedRooms, 31)

	// Removing a single room breaks completeness again.
	view = DeriveCompletion(records[1:], eg, "2026-08-31")
	assert.False(t, view.Complete)
	assert.Len(t, view.CompletedRooms, 30)
}

func TestDeriveCompletion_UnmappedFloor(t *testing.T) {
	unknown := Floor{
		ID:    "keller",
		Name:  "Keller",
		Rooms: []string{"K01", "K02"},
	}

	view := DeriveCompletion([]*CleaningTask{taskFor("K01", "2026-08-31")}, unknown, "2026-08-31")

	assert.Empty(t, view.CompletedRooms)
	assert.False(t, view.Complete)
	assert.Equal(t, 2, view.TotalRooms)
}

func TestDeriveCompletion_SortedOutput(t *testing.T) {
	eg, ok := FloorByID("eg")
	require.True(t, ok)

	records := []*CleaningTask{}
	for i := 9; i >= 1; i-- {
		records = append(records, taskFor(fmt.Sprintf("10%d", i), "2026-08-31"))
	}

	view := DeriveCompletion(records, eg, "2026-08-31")

	assert.Equal(
		t,
		[]string{"101", "102", "103", "104", "105", "106", "107", "108", "109"},
		view.CompletedRooms,
	)
}

func TestIsFloorComplete(t *testing.T) {
	assert.False(t, IsFloorComplete(nil, "eg", "2026-08-31"))
	assert.False(t, IsFloorComplete(nil, "dachboden", "2026-08-31"))

	eg, _ := FloorByID("eg")
	records := make([]*CleaningTask, 0, len(eg.Rooms))
	for _, room := range eg.Rooms {
		records = append(records, taskFor(room, "2026-08-31"))
	}

	assert.True(t, IsFloorComplete(records, "eg", "2026-08-31"))
	assert.False(t, IsFloorComplete(records, "1og", "2026-08-31"))
}
