package catalog

import (
	"encoding/json"
	"fmt"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
	"os"
	"strings"
)

// Catalog is the read-only room type lookup table. It is built once at
// startup; Lookup is a normalized-key map access, not a scan.
type Catalog struct {
	rooms  []*model.RoomType
	byName map[string]*model.RoomType
}

// Load builds the catalog from the JSON file at path, or from the built-in
// defaults when path is empty.
func Load(path string) (*Catalog, error) {
	rooms := defaultRooms()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read room catalog %s: %w", path, err)
		}
		rooms = nil
		if err := json.Unmarshal(data, &rooms); err != nil {
			return nil, fmt.Errorf("failed to parse room catalog %s: %w", path, err)
		}
	}

	if len(rooms) == 0 {
		return nil, fmt.Errorf("room catalog is empty")
	}

	byName := make(map[string]*model.RoomType, len(rooms))
	for _, room := range rooms {
		if room.Type == "" || room.Capacity < 1 {
			return nil, fmt.Errorf("invalid room catalog entry: %+v", room)
		}
		room.Amenities = sanitizer.NormalizeStringSlice(room.Amenities)
		key := NormalizeType(room.Type)
		if _, exists := byName[key]; exists {
			return nil, fmt.Errorf("duplicate room type in catalog: %s", room.Type)
		}
		byName[key] = room
	}

	return &Catalog{rooms: rooms, byName: byName}, nil
}

// NormalizeType is the canonical key for case-insensitive room type matching.
func NormalizeType(roomType string) string {
	return strings.ToLower(strings.TrimSpace(roomType))
}

// Lookup resolves a room type identifier case-insensitively.
func (c *Catalog) Lookup(roomType string) (*model.RoomType, bool) {
	room, ok := c.byName[NormalizeType(roomType)]
	return room, ok
}

// ListAll returns the catalog in its configured order.
func (c *Catalog) ListAll() []*model.RoomType {
	return c.rooms
}

func defaultRooms() []*model.RoomType {
	return []*model.RoomType{
		{
			Type:      "Deluxe",
			Price:     180,
			Beds:      1,
			Capacity:  2,
			Amenities: []string{"King Bed", "City View", "Breakfast", "Wi-Fi"},
			Images: []string{
				"https://images.unsplash.com/photo-1542314831-068cd1dbfeeb?q=80&w=1600&auto=format&fit=crop",
			},
		},
		{
			Type:      "Executive",
			Price:     260,
			Beds:      2,
			Capacity:  3,
			Amenities: []string{"King Bed", "Lounge Access", "Workspace", "Wi-Fi"},
			Images: []string{
				"https://images.unsplash.com/photo-1528909514045-2fa4ac7a08ba?q=80&w=1600&auto=format&fit=crop",
			},
		},
		{
			Type:      "Royal Suite",
			Price:     480,
			Beds:      2,
			Capacity:  4,
			Amenities: []string{"2 Bedrooms", "Panoramic View", "Butler Service", "Jacuzzi"},
			Images: []string{
				"https://images.unsplash.com/photo-1505691723518-36a5ac3b2d52?q=80&w=1600&auto=format&fit=crop",
			},
		},
	}
}
