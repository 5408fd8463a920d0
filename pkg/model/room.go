package model

// RoomType is a catalog entry. The catalog is immutable configuration,
// loaded once at startup; bookings reference entries by Type.
type RoomType struct {
	Type      string   `json:"type"`
	Price     float64  `json:"price"`
	Beds      int      `json:"beds"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
	Images    []string `json:"images"`
}
