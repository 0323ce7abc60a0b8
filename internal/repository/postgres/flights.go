package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvasilkov/skybook-go/internal/domain"
)

type FlightRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *FlightRepo) With(db DB) *FlightRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FlightRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const flightColumns = `id, flight_number, origin_id, destination_id, airplane_id,
	scheduled_departure, scheduled_arrival, COALESCE(gate, ''), COALESCE(terminal, ''), status, created_at`

func scanFlight(row interface{ Scan(...any) error }, f *domain.Flight) error {
	return row.Scan(
		&f.ID, &f.FlightNumber, &f.OriginID, &f.DestinationID, &f.AirplaneID,
		&f.ScheduledDeparture, &f.ScheduledArrival, &f.Gate, &f.Terminal, &f.Status, &f.CreatedAt,
	)
}

// Search filters flights by origin/destination airport code and by the
// calendar day of the scheduled departure.
//
// Airport codes are matched case-insensitively; a code that resolves to
// no airport drops that filter rather than failing, matching the
// directory's lookup semantics. A nil date means no date filter. With no
// filters at all, every flight is returned in store order.
func (r *FlightRepo) Search(
	ctx context.Context,
	origin, destination string,
	date *time.Time,
) ([]domain.Flight, error) {
	const op = "postgres.FlightRepo.Search"

	db := r.handle()

	query := `SELECT ` + flightColumns + ` FROM flights WHERE true`
	var args []any

	if origin != "" {
		if id, ok, err := r.airportIDByCode(ctx, db, origin); err != nil {
			return nil, wrapDBErr(op, err)
		} else if ok {
			args = append(args, id)
			query += ` AND origin_id = $` + strconv.Itoa(len(args))
		}
	}

	if destination != "" {
		if id, ok, err := r.airportIDByCode(ctx, db, destination); err != nil {
			return nil, wrapDBErr(op, err)
		} else if ok {
			args = append(args, id)
			query += ` AND destination_id = $` + strconv.Itoa(len(args))
		}
	}

	if date != nil {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		args = append(args, dayStart)
		query += ` AND scheduled_departure >= $` + strconv.Itoa(len(args))
		args = append(args, dayStart.AddDate(0, 0, 1))
		query += ` AND scheduled_departure < $` + strconv.Itoa(len(args))
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Flight
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *FlightRepo) airportIDByCode(ctx context.Context, db DB, code string) (int64, bool, error) {
	var id int64
	err := db.QueryRow(ctx,
		`SELECT id FROM airports WHERE code = $1`,
		strings.ToUpper(strings.TrimSpace(code)),
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// Get retrieves a flight by its ID.
//
// Returns:
//   - *domain.Flight: the flight when found.
//   - error: repository.ErrNotFound if the flight is not found.
func (r *FlightRepo) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "postgres.FlightRepo.Get"

	db := r.handle()

	var f domain.Flight
	if err := scanFlight(db.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id = $1`, id,
	), &f); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &f, nil
}

// List returns every flight in store order.
func (r *FlightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	const op = "postgres.FlightRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx, `SELECT `+flightColumns+` FROM flights`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Flight
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// OccupiedSeats returns the seat designators claimed by tickets of
// non-cancelled bookings on the flight. Bookings whose seat hold has
// already lapsed at now are treated as not holding their seats even
// before a sweep has cancelled them.
func (r *FlightRepo) OccupiedSeats(ctx context.Context, flightID int64, now time.Time) (map[string]struct{}, error) {
	const op = "postgres.FlightRepo.OccupiedSeats"

	return occupiedSeats(ctx, r.handle(), op, flightID, now, 0)
}

// occupiedSeats is shared between the read paths and the booking
// engine. excludeTicketID, when non-zero, leaves that ticket out of the
// set (used by seat reassignment).
func occupiedSeats(
	ctx context.Context,
	db DB,
	op string,
	flightID int64,
	now time.Time,
	excludeTicketID int64,
) (map[string]struct{}, error) {
	rows, err := db.Query(ctx,
		`SELECT t.seat_number
       	 FROM tickets t
       	 JOIN bookings b ON b.id = t.booking_id
      	 WHERE b.flight_id = $1
        	AND b.status <> 'CANCELLED'
        	AND NOT (b.status = 'CREATED' AND b.seat_hold_expires_at < $2)
        	AND ($3 = 0 OR t.id <> $3)`,
		flightID, now, excludeTicketID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	occupied := make(map[string]struct{})
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, wrapDBErr(op, err)
		}
		occupied[seat] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return occupied, nil
}

// Detail retrieves a flight together with its airports, airplane and
// occupancy figures.
//
// Returns:
//   - *domain.FlightDetail: the populated detail when found.
//   - error: repository.ErrNotFound if the flight is not found.
func (r *FlightRepo) Detail(ctx context.Context, id int64, now time.Time) (*domain.FlightDetail, error) {
	const op = "postgres.FlightRepo.Detail"

	db := r.handle()

	var d domain.FlightDetail
	err := db.QueryRow(ctx,
		`SELECT f.id, f.flight_number, f.origin_id, f.destination_id, f.airplane_id,
          	f.scheduled_departure, f.scheduled_arrival, COALESCE(f.gate, ''), COALESCE(f.terminal, ''), f.status, f.created_at,
          	o.id, o.code, o.name, o.city, o.country,
          	d.id, d.code, d.name, d.city, d.country,
          	a.id, a.model, a.registration_number, a.seat_rows, a.seats_per_row, a.layout, a.total_seats
       	 FROM flights f
       	 JOIN airports o ON o.id = f.origin_id
       	 JOIN airports d ON d.id = f.destination_id
       	 JOIN airplanes a ON a.id = f.airplane_id
      	 WHERE f.id = $1`,
		id,
	).Scan(
		&d.Flight.ID, &d.Flight.FlightNumber, &d.Flight.OriginID, &d.Flight.DestinationID, &d.Flight.AirplaneID,
		&d.Flight.ScheduledDeparture, &d.Flight.ScheduledArrival, &d.Flight.Gate, &d.Flight.Terminal, &d.Flight.Status, &d.Flight.CreatedAt,
		&d.Origin.ID, &d.Origin.Code, &d.Origin.Name, &d.Origin.City, &d.Origin.Country,
		&d.Destination.ID, &d.Destination.Code, &d.Destination.Name, &d.Destination.City, &d.Destination.Country,
		&d.Airplane.ID, &d.Airplane.Model, &d.Airplane.RegistrationNumber,
		&d.Airplane.SeatTemplate.Rows, &d.Airplane.SeatTemplate.SeatsPerRow, &d.Airplane.SeatTemplate.Layout,
		&d.Airplane.TotalSeats,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	occupied, err := occupiedSeats(ctx, db, op, id, now, 0)
	if err != nil {
		return nil, err
	}

	d.TotalSeats = d.Airplane.TotalSeats
	d.AvailableSeats = d.Airplane.TotalSeats - len(occupied)
	d.OccupiedSeats = make([]string, 0, len(occupied))
	for seat := range occupied {
		d.OccupiedSeats = append(d.OccupiedSeats, seat)
	}

	return &d, nil
}
