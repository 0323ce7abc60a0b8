package domain

import "strconv"

// seatLetters is the fixed column alphabet. Templates are capped at
// len(seatLetters) seats per row; wider templates are rejected when the
// airplane is registered.
const seatLetters = "ABCDEFGH"

// MaxSeatsPerRow is the widest cabin row the seat-map generator supports.
const MaxSeatsPerRow = len(seatLetters)

type SeatCell struct {
	Seat      string `json:"seat"`
	Available bool   `json:"available"`
}

type SeatMap struct {
	Rows           [][]SeatCell `json:"seat_map"`
	Layout         string       `json:"layout"`
	TotalSeats     int          `json:"total_seats"`
	AvailableSeats int          `json:"available_seats"`
}

// SeatDesignator builds "12A" from row 12 and column 0.
func SeatDesignator(row, col int) string {
	return strconv.Itoa(row) + string(seatLetters[col])
}

// BuildSeatMap enumerates the template grid row by row and marks each
// cell against the occupied set. Columns beyond MaxSeatsPerRow are
// clamped; airplane creation rejects such templates so the clamp only
// matters for data predating that check.
func BuildSeatMap(tpl SeatTemplate, totalSeats int, occupied map[string]struct{}) SeatMap {
	perRow := tpl.SeatsPerRow
	if perRow > MaxSeatsPerRow {
		perRow = MaxSeatsPerRow
	}

	rows := make([][]SeatCell, 0, tpl.Rows)
	for row := 1; row <= tpl.Rows; row++ {
		cells := make([]SeatCell, 0, perRow)
		for col := 0; col < perRow; col++ {
			seat := SeatDesignator(row, col)
			_, taken := occupied[seat]
			cells = append(cells, SeatCell{Seat: seat, Available: !taken})
		}
		rows = append(rows, cells)
	}

	return SeatMap{
		Rows:           rows,
		Layout:         tpl.Layout,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats - len(occupied),
	}
}
