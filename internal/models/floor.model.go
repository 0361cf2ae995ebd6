package models

import "fmt"

// Floor is a static grouping of rooms identified by a numeric room-number
// prefix. The catalog never changes at runtime.
type Floor struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Prefix string   `json:"prefix"`
	Rooms  []string `json:"rooms"`
}

const roomsPerFloor = 27

// specialRoomSuffixes are the non-resident rooms present on every floor:
// guest WC, staff WC, accessible WC and the care bath. Special rooms only
// take visual and maintenance cleaning.
var specialRoomSuffixes = []string{"G1", "M1", "B1", "P1"}

// floorPrefixes is the exhaustive mapping from floor id to room-number
// prefix. Room numbers whose first character matches no entry belong to no
// floor and are excluded from all completion math.
var floorPrefixes = map[string]string{
	"eg":  "1",
	"1og": "2",
	"2og": "3",
	"3og": "4",
}

var floorNames = map[string]string{
	"eg":  "EG Schlosspark",
	"1og": "1.OG Ebertpark",
	"2og": "2.OG Rheinufer",
	"3og": "3.OG An den Seen",
}

var floors = buildFloors()

func buildFloors() []Floor {
	ids := []string{"eg", "1og", "2og", "3og"}

	built := make([]Floor, 0, len(ids))
	for _, id := range ids {
		prefix := floorPrefixes[id]
		rooms := make([]string, 0, roomsPerFloor+len(specialRoomSuffixes))
		for i := 1; i <= roomsPerFloor; i++ {
			rooms = append(rooms, fmt.Sprintf("%s%02d", prefix, i))
		}
		for _, suffix := range specialRoomSuffixes {
			rooms = append(rooms, prefix+suffix)
		}

		built = append(built, Floor{
			ID:     id,
			Name:   floorNames[id],
			Prefix: prefix,
			Rooms:  rooms,
		})
	}

	return built
}

// Floors returns the static floor catalog in building order.
func Floors() []Floor {
	return floors
}

// FloorByID looks up a floor by its identifier.
func FloorByID(id string) (Floor, bool) {
	for _, floor := range floors {
		if floor.ID == id {
			return floor, true
		}
	}
	return Floor{}, false
}

// FloorPrefix maps a floor id to its numeric room-number prefix.
func FloorPrefix(floorID string) (string, bool) {
	prefix, ok := floorPrefixes[floorID]
	return prefix, ok
}

// FloorNameForPrefix resolves the display name of the floor owning the
// given room-number prefix. Unknown prefixes fall through unchanged so
// malformed data stays visible in reports.
func FloorNameForPrefix(prefix string) string {
	for id, p := range floorPrefixes {
		if p == prefix {
			return floorNames[id]
		}
	}
	return prefix
}

// IsSpecialRoom reports whether a room number designates one of the shared
// special rooms (guest WC, staff WC, accessible WC, care bath).
func IsSpecialRoom(roomNumber string) bool {
	if len(roomNumber) < 3 {
		return false
	}
	suffix := roomNumber[len(roomNumber)-2:]
	for _, s := range specialRoomSuffixes {
		if suffix == s {
			return true
		}
	}
	return false
}
