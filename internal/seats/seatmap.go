package seats

import "github.com/Domenick1991/busbooking/internal/domain"

// SeatMap expands a layout into rows of cells. Seats are numbered row-major
// from 1. Every pattern zero becomes an aisle cell, but only zeros between two
// seat blocks mark their neighbours as aisle seats.
func SeatMap(l domain.SeatLayout, booked []int) [][]domain.SeatCell {
	taken := make(map[int]bool, len(booked))
	for _, n := range booked {
		taken[n] = true
	}

	grid := make([][]domain.SeatCell, 0, l.Rows)
	for r := 0; r < l.Rows; r++ {
		row := make([]domain.SeatCell, 0, len(l.ColumnPattern)+l.SeatsPerRow)
		seat := 0
		for i, block := range l.ColumnPattern {
			if block == 0 {
				row = append(row, domain.SeatCell{Aisle: true})
				continue
			}
			aisleBefore := i > 0 && l.ColumnPattern[i-1] == 0 && hasSeatsBefore(l.ColumnPattern, i-1)
			aisleAfter := i < len(l.ColumnPattern)-1 && l.ColumnPattern[i+1] == 0 && hasSeatsAfter(l.ColumnPattern, i+1)
			for k := 0; k < block; k++ {
				seat++
				n := r*l.SeatsPerRow + seat
				row = append(row, domain.SeatCell{
					Number:  n,
					Window:  seat == 1 || seat == l.SeatsPerRow,
					ByAisle: (k == 0 && aisleBefore) || (k == block-1 && aisleAfter),
					Booked:  taken[n],
				})
			}
		}
		grid = append(grid, row)
	}
	return grid
}

func hasSeatsBefore(pattern []int, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if pattern[j] > 0 {
			return true
		}
	}
	return false
}

func hasSeatsAfter(pattern []int, i int) bool {
	for j := i + 1; j < len(pattern); j++ {
		if pattern[j] > 0 {
			return true
		}
	}
	return false
}
