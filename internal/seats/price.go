package seats

import (
	"math"
	"strconv"
	"strings"

	"github.com/Domenick1991/busbooking/internal/domain"
)

// ToMinor converts a major-unit amount to minor units, rounding half away
// from zero on the shortest decimal form of amount, so 1.005 becomes 101.
func ToMinor(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, domain.Validation("amount is not a number")
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(math.Abs(amount), 'f', -1, 64), ".")
	frac += "000"
	minor, err := strconv.ParseInt(whole+frac[:2], 10, 64)
	if err != nil {
		return 0, domain.Validation("amount %v is out of range", amount)
	}
	if frac[2] >= '5' {
		if minor == math.MaxInt64 {
			return 0, domain.Validation("amount %v is out of range", amount)
		}
		minor++
	}
	if amount < 0 {
		minor = -minor
	}
	return minor, nil
}

// QuoteFor prices a selection. The per-seat price is rounded to minor units
// once, before multiplying, so every seat costs the same amount.
func QuoteFor(pricePerSeat float64, selection []int) (domain.Quote, error) {
	if math.IsNaN(pricePerSeat) || math.IsInf(pricePerSeat, 0) {
		return domain.Quote{}, domain.Validation("price per seat is not a number")
	}
	if pricePerSeat < 0 {
		return domain.Quote{}, domain.Validation("price per seat must not be negative")
	}
	perSeat, err := ToMinor(pricePerSeat)
	if err != nil {
		return domain.Quote{}, err
	}
	count := int64(len(selection))
	if count > 0 && perSeat > math.MaxInt64/count {
		return domain.Quote{}, domain.Validation("total for %d seats is out of range", count)
	}
	return domain.Quote{
		PricePerSeatMinor: perSeat,
		SeatCount:         len(selection),
		TotalMinor:        perSeat * count,
	}, nil
}
