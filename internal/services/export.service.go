package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	. "hauswart/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

var exportHeaders = []string{
	"Datum",
	"Uhrzeit",
	"Zimmer",
	"Mitarbeiter",
	"Sichtreinigung",
	"Unterhaltsreinigung",
	"Zimmer Grundreinigung",
	"Bett Grundreinigung",
	"Fenster und Gardinen",
	"Notizen",
}

// ExportService renders the full task sequence into the downloadable
// report: semicolon-separated CSV, grouped by German month label and then
// by floor, rows sorted by floor prefix ascending and date descending.
type ExportService struct {
	log logger.Logger
}

func NewExportService() *ExportService {
	return &ExportService{
		log: logger.New("exportService"),
	}
}

// TasksCSV builds the report. The leading BOM keeps Excel happy with the
// UTF-8 umlauts.
func (s *ExportService) TasksCSV(tasks []*CleaningTask) []byte {
	sorted := make([]*CleaningTask, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		floorA := floorPrefixOf(sorted[i].RoomNumber)
		floorB := floorPrefixOf(sorted[j].RoomNumber)
		if floorA != floorB {
			return floorA < floorB
		}
		return sorted[i].Date > sorted[j].Date
	})

	type floorGroup struct {
		name  string
		tasks []*CleaningTask
	}
	type monthGroup struct {
		label  string
		order  []string
		floors map[string]*floorGroup
	}

	monthOrder := make([]string, 0)
	months := make(map[string]*monthGroup)

	for _, task := range sorted {
		label := monthLabel(task.Date)
		month, ok := months[label]
		if !ok {
			month = &monthGroup{label: label, floors: make(map[string]*floorGroup)}
			months[label] = month
			monthOrder = append(monthOrder, label)
		}

		floorName := FloorNameForPrefix(floorPrefixOf(task.RoomNumber))
		floor, ok := month.floors[floorName]
		if !ok {
			floor = &floorGroup{name: floorName}
			month.floors[floorName] = floor
			month.order = append(month.order, floorName)
		}

		floor.tasks = append(floor.tasks, task)
	}

	var b strings.Builder
	b.WriteString("\ufeff")

	for _, label := range monthOrder {
		month := months[label]
		b.WriteString("\n" + month.label + "\n")
		b.WriteString(strings.Join(exportHeaders, ";") + "\n")

		for _, floorName := range month.order {
			floor := month.floors[floorName]
			b.WriteString(floor.name + "\n")

			for _, task := range floor.tasks {
				row := []string{
					task.Date,
					task.Time,
					task.RoomNumber,
					task.StaffName,
					mark(task.VisualCleaning),
					mark(task.MaintenanceCleaning),
					mark(task.BasicRoomCleaning),
					mark(task.BedCleaning),
					mark(task.WindowsCurtainsCleaning),
					strings.ReplaceAll(task.Notes, `"`, `""`),
				}
				b.WriteString(strings.Join(row, ";") + "\n")
			}

			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

func mark(set bool) string {
	if set {
		return "X"
	}
	return ""
}

func floorPrefixOf(roomNumber string) string {
	if roomNumber == "" {
		return ""
	}
	return roomNumber[:1]
}

func monthLabel(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		// Malformed dates stay visible under their raw value.
		return date
	}
	return fmt.Sprintf("%s %d", germanMonths[parsed.Month()-1], parsed.Year())
}
