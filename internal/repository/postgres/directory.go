package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvasilkov/skybook-go/internal/domain"
)

// DirectoryRepo covers the staff-side writes over airplanes, flights
// and announcements. Reads go through FlightRepo.
type DirectoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *DirectoryRepo) With(db DB) *DirectoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *DirectoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// CreateAirplane registers an airplane.
//
// Returns:
//   - error: repository.ErrConflict if the registration number is taken.
func (r *DirectoryRepo) CreateAirplane(ctx context.Context, a domain.Airplane) (*domain.Airplane, error) {
	const op = "postgres.DirectoryRepo.CreateAirplane"

	db := r.handle()

	out := a
	if err := db.QueryRow(ctx,
		`INSERT INTO airplanes (model, registration_number, seat_rows, seats_per_row, layout, total_seats)
       	 VALUES ($1, $2, $3, $4, $5, $6)
     	 RETURNING id`,
		a.Model, a.RegistrationNumber, a.SeatTemplate.Rows, a.SeatTemplate.SeatsPerRow,
		a.SeatTemplate.Layout, a.TotalSeats,
	).Scan(&out.ID); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *DirectoryRepo) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	const op = "postgres.DirectoryRepo.ListAirplanes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, model, registration_number, seat_rows, seats_per_row, layout, total_seats
       	 FROM airplanes ORDER BY id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Airplane
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Model, &a.RegistrationNumber,
			&a.SeatTemplate.Rows, &a.SeatTemplate.SeatsPerRow, &a.SeatTemplate.Layout,
			&a.TotalSeats); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CreateFlight persists a flight.
//
// Returns:
//   - error: repository.ErrConflict if the flight number is taken.
//   - error: repository.ErrNotFound if an airport or airplane reference
//     does not exist.
func (r *DirectoryRepo) CreateFlight(ctx context.Context, f domain.Flight) (*domain.Flight, error) {
	const op = "postgres.DirectoryRepo.CreateFlight"

	db := r.handle()

	var out domain.Flight
	if err := scanFlight(db.QueryRow(ctx,
		`INSERT INTO flights (flight_number, origin_id, destination_id, airplane_id,
                           	scheduled_departure, scheduled_arrival, gate, terminal, status)
       	 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
     	 RETURNING `+flightColumns,
		f.FlightNumber, f.OriginID, f.DestinationID, f.AirplaneID,
		f.ScheduledDeparture, f.ScheduledArrival, f.Gate, f.Terminal, f.Status,
	), &out); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

// FlightPatch carries the staff partial update; nil fields are left
// untouched.
type FlightPatch struct {
	FlightNumber       *string
	OriginID           *int64
	DestinationID      *int64
	AirplaneID         *int64
	ScheduledDeparture *time.Time
	ScheduledArrival   *time.Time
	Gate               *string
	Terminal           *string
	Status             *domain.FlightStatus
}

// UpdateFlight applies only the supplied fields.
//
// Returns:
//   - error: repository.ErrNotFound if the flight is not found.
func (r *DirectoryRepo) UpdateFlight(ctx context.Context, id int64, patch FlightPatch) (*domain.Flight, error) {
	const op = "postgres.DirectoryRepo.UpdateFlight"

	db := r.handle()

	set := make([]string, 0, 9)
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}

	if patch.FlightNumber != nil {
		add("flight_number", *patch.FlightNumber)
	}
	if patch.OriginID != nil {
		add("origin_id", *patch.OriginID)
	}
	if patch.DestinationID != nil {
		add("destination_id", *patch.DestinationID)
	}
	if patch.AirplaneID != nil {
		add("airplane_id", *patch.AirplaneID)
	}
	if patch.ScheduledDeparture != nil {
		add("scheduled_departure", *patch.ScheduledDeparture)
	}
	if patch.ScheduledArrival != nil {
		add("scheduled_arrival", *patch.ScheduledArrival)
	}
	if patch.Gate != nil {
		add("gate", *patch.Gate)
	}
	if patch.Terminal != nil {
		add("terminal", *patch.Terminal)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	if len(set) == 0 {
		var f domain.Flight
		if err := scanFlight(db.QueryRow(ctx,
			`SELECT `+flightColumns+` FROM flights WHERE id = $1`, id,
		), &f); err != nil {
			return nil, wrapDBErr(op, err)
		}
		return &f, nil
	}

	query := `UPDATE flights SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING ` + flightColumns

	var f domain.Flight
	if err := scanFlight(db.QueryRow(ctx, query, args...), &f); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &f, nil
}

// CreateAnnouncement persists an announcement for a flight.
//
// Returns:
//   - error: repository.ErrNotFound if the flight does not exist.
func (r *DirectoryRepo) CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	const op = "postgres.DirectoryRepo.CreateAnnouncement"

	db := r.handle()

	out := a
	if err := db.QueryRow(ctx,
		`INSERT INTO announcements (flight_id, announcement_type, message)
       	 VALUES ($1, $2, $3)
     	 RETURNING id, created_at`,
		a.FlightID, a.Type, a.Message,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}
