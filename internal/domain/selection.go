package domain

// ClaimSeats walks selections in request order, claiming each seat
// against the occupied set. The set is mutated as seats are claimed, so
// a seat repeated within one request conflicts with its own earlier
// claim exactly as an already taken seat does: first writer wins in
// array order. Returns the first conflicting seat designator and false,
// or "" and true when every selection claimed its seat.
func ClaimSeats(occupied map[string]struct{}, selections []SeatSelection) (string, bool) {
	for _, sel := range selections {
		if _, taken := occupied[sel.SeatNumber]; taken {
			return sel.SeatNumber, false
		}
		occupied[sel.SeatNumber] = struct{}{}
	}

	return "", true
}
