package seats

import (
	"fmt"

	"github.com/Domenick1991/busbooking/internal/domain"
)

// DefaultMaxSeats caps one booking when no limit is configured.
const DefaultMaxSeats = 3

type Validation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Err returns nil for a valid selection and a validation *domain.Error otherwise.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return domain.Validation("%s", v.Message)
}

// Validate checks a seat selection against the per-booking cap. It does not
// deduplicate; uniqueness belongs to whoever builds the selection.
func Validate(selection []int, maxSeats int) Validation {
	if maxSeats <= 0 {
		maxSeats = DefaultMaxSeats
	}
	if len(selection) == 0 {
		return Validation{Message: "Please select at least one seat"}
	}
	if len(selection) > maxSeats {
		return Validation{Message: fmt.Sprintf("You can only book up to %d seats at once", maxSeats)}
	}
	return Validation{Valid: true, Message: "Valid selection"}
}
