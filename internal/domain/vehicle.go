package domain

import "strings"

type VehicleClass string

const (
	ClassSeater      VehicleClass = "seater"
	ClassSleeper     VehicleClass = "sleeper"
	ClassSemiSleeper VehicleClass = "semi-sleeper"
)

// ParseVehicleClass normalizes a caller-supplied tag. It does not apply the
// seater fallback; that lives in the layout table.
func ParseVehicleClass(s string) VehicleClass {
	return VehicleClass(strings.ToLower(strings.TrimSpace(s)))
}

// SeatLayout is the grid geometry for one vehicle class. In ColumnPattern a 0
// is an aisle gap and any other value is a block of that many seats.
type SeatLayout struct {
	Class         VehicleClass `json:"class" yaml:"-"`
	Rows          int          `json:"rows" yaml:"rows"`
	SeatsPerRow   int          `json:"seatsPerRow" yaml:"seats_per_row"`
	ColumnPattern []int        `json:"columnPattern" yaml:"column_pattern"`
}

func (l SeatLayout) TotalSeats() int {
	return l.Rows * l.SeatsPerRow
}

// SeatCell is one position of an expanded seat map. Aisle cells carry no seat number.
type SeatCell struct {
	Number  int  `json:"number,omitempty"`
	Aisle   bool `json:"aisle,omitempty"`
	Window  bool `json:"window,omitempty"`
	ByAisle bool `json:"byAisle,omitempty"`
	Booked  bool `json:"booked,omitempty"`
}
