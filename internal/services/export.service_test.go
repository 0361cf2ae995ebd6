package services

import (
	"strings"
	"testing"

	. "hauswart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportTask(room, date, timeOfDay, staff, notes string) *CleaningTask {
	return &CleaningTask{
		RoomNumber:     room,
		Date:           date,
		Time:           timeOfDay,
		StaffName:      staff,
		VisualCleaning: true,
		Notes:          notes,
	}
}

func TestTasksCSV_StartsWithBOM(t *testing.T) {
	service := NewExportService()

	csv := string(service.TasksCSV(nil))
	assert.True(t, strings.HasPrefix(csv, "\ufeff"))
}

func TestTasksCSV_GroupsByMonthAndFloor(t *testing.T) {
	service := NewExportService()

	tasks := []*CleaningTask{
		exportTask("205", "2026-07-15", "09:30", "Maria", ""),
		exportTask("101", "2026-08-02", "08:15", "Josef", ""),
		exportTask("102", "2026-08-01", "10:00", "Maria", ""),
	}

	csv := string(service.TasksCSV(tasks))

	assert.Contains(t, csv, "August 2026")
	assert.Contains(t, csv, "Juli 2026")
	assert.Contains(t, csv, "EG Schlosspark")
	assert.Contains(t, csv, "1.OG Ebertpark")

	// Within one floor group the newer date comes first.
	first := strings.Index(csv, "2026-08-02;08:15;101")
	second := strings.Index(csv, "2026-08-01;10:00;102")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestTasksCSV_MarksAndHeaders(t *testing.T) {
	service := NewExportService()

	task := &CleaningTask{
		RoomNumber:          "101",
		Date:                "2026-08-31",
		Time:                "07:45",
		StaffName:           "Maria",
		VisualCleaning:      true,
		MaintenanceCleaning: false,
		BasicRoomCleaning:   true,
		BedCleaning:         false,
		Notes:               "",
	}

	csv := string(service.TasksCSV([]*CleaningTask{task}))

	assert.Contains(t, csv, "Datum;Uhrzeit;Zimmer;Mitarbeiter;Sichtreinigung;Unterhaltsreinigung;Zimmer Grundreinigung;Bett Grundreinigung;Fenster und Gardinen;Notizen")
	assert.Contains(t, csv, "2026-08-31;07:45;101;Maria;X;;X;;;")
}

func TestTasksCSV_EscapesQuotesInNotes(t *testing.T) {
	service := NewExportService()

	task := exportTask("101", "2026-08-31", "07:45", "Maria", `Schild "Bitte nicht stören" fehlt`)

	csv := string(service.TasksCSV([]*CleaningTask{task}))
	assert.Contains(t, csv, `Schild ""Bitte nicht stören"" fehlt`)
}

func TestTasksCSV_MalformedDateStaysVisible(t *testing.T) {
	service := NewExportService()

	task := exportTask("101", "31.08.2026", "07:45", "Maria", "")

	csv := string(service.TasksCSV([]*CleaningTask{task}))
	assert.Contains(t, csv, "\n31.08.2026\n", "raw date value becomes its own group label")
}

func TestMonthLabel(t *testing.T) {
	testCases := []struct {
		date string
		want string
	}{
		{"2026-01-05", "Januar 2026"},
		{"2026-03-31", "März 2026"},
		{"2025-12-01", "Dezember 2025"},
		{"garbage", "garbage"},
	}

	for _, tc := range testCases {
		t.Run(tc.date, func(t *testing.T) {
			assert.Equal(t, tc.want, monthLabel(tc.date))
		})
	}
}
