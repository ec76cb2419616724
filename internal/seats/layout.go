package seats

import (
	"fmt"

	"github.com/Domenick1991/busbooking/internal/domain"
)

// FallbackClass is used for any class the table does not know.
const FallbackClass = domain.ClassSeater

var builtinLayouts = map[domain.VehicleClass]domain.SeatLayout{
	domain.ClassSeater:      {Rows: 10, SeatsPerRow: 4, ColumnPattern: []int{1, 0, 2, 1}},
	domain.ClassSleeper:     {Rows: 8, SeatsPerRow: 4, ColumnPattern: []int{1, 0, 2, 1}},
	domain.ClassSemiSleeper: {Rows: 9, SeatsPerRow: 4, ColumnPattern: []int{2, 0, 2, 0}},
}

// Table maps vehicle classes to their layout. It is read-only after construction.
type Table struct {
	layouts map[domain.VehicleClass]domain.SeatLayout
}

var defaultTable = mustTable(nil)

// DefaultTable returns the built-in seater/sleeper/semi-sleeper table.
func DefaultTable() *Table {
	return defaultTable
}

// NewTable returns the built-in table with overrides applied on top. Every
// override is checked with ValidateLayout.
func NewTable(overrides map[string]domain.SeatLayout) (*Table, error) {
	layouts := make(map[domain.VehicleClass]domain.SeatLayout, len(builtinLayouts)+len(overrides))
	for class, l := range builtinLayouts {
		l.Class = class
		layouts[class] = l
	}
	for name, l := range overrides {
		class := domain.ParseVehicleClass(name)
		if class == "" {
			return nil, fmt.Errorf("seat layout override with empty class name")
		}
		l.Class = class
		if err := ValidateLayout(l); err != nil {
			return nil, fmt.Errorf("seat layout %q: %w", class, err)
		}
		layouts[class] = l
	}
	return &Table{layouts: layouts}, nil
}

func mustTable(overrides map[string]domain.SeatLayout) *Table {
	t, err := NewTable(overrides)
	if err != nil {
		panic(err)
	}
	return t
}

// LayoutFor returns the layout for class, falling back to seater for unknown
// or empty values. The returned pattern is a copy.
func (t *Table) LayoutFor(class string) domain.SeatLayout {
	l, ok := t.layouts[domain.ParseVehicleClass(class)]
	if !ok {
		l = t.layouts[FallbackClass]
	}
	l.ColumnPattern = append([]int(nil), l.ColumnPattern...)
	return l
}

// Known reports whether class has its own entry, without the fallback.
func (t *Table) Known(class string) bool {
	_, ok := t.layouts[domain.ParseVehicleClass(class)]
	return ok
}

// LayoutFor looks class up in the built-in table.
func LayoutFor(class string) domain.SeatLayout {
	return defaultTable.LayoutFor(class)
}

func ValidateLayout(l domain.SeatLayout) error {
	if l.Rows < 1 {
		return fmt.Errorf("rows must be at least 1, got %d", l.Rows)
	}
	if l.SeatsPerRow < 1 {
		return fmt.Errorf("seats per row must be at least 1, got %d", l.SeatsPerRow)
	}
	if len(l.ColumnPattern) == 0 {
		return fmt.Errorf("column pattern is empty")
	}
	sum := 0
	for _, block := range l.ColumnPattern {
		if block < 0 {
			return fmt.Errorf("column pattern has negative block %d", block)
		}
		sum += block
	}
	if sum != l.SeatsPerRow {
		return fmt.Errorf("column pattern holds %d seats, seats per row is %d", sum, l.SeatsPerRow)
	}
	return nil
}
