package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const bookingColumns = `id, pnr, user_id, flight_id, status, seat_hold_expires_at, created_at`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.PNR, &b.UserID, &b.FlightID, &b.Status, &b.SeatHoldExpiresAt, &b.CreatedAt)
}

// Create runs the whole check-and-reserve sequence as one serializable
// unit: flight lookup, profile requirement, expired-hold sweep,
// occupancy check per selection in request order, then booking and
// ticket inserts. Nothing is persisted unless every selection validates.
//
// Parameters:
//   - userID: the booking owner.
//   - flightID: the flight to book on.
//   - selections: ordered (profile, seat) pairs; earlier pairs claim
//     seats before later ones, so duplicates within one request fail.
//   - holdTTL: how long the seat hold lasts from now.
//   - now: the current instant, used for the sweep and the hold expiry.
//
// Returns:
//   - *domain.BookingWithTickets: the persisted booking with tickets.
//   - error: repository.ErrNotFound if the flight does not exist.
//   - error: repository.ErrProfileRequired if the user has no profile.
//   - error: repository.SeatTakenError if a seat is already claimed.
//   - error: repository.ProfileNotOwnedError for a bad profile reference.
func (r *BookingRepo) Create(
	ctx context.Context,
	userID, flightID int64,
	selections []domain.SeatSelection,
	holdTTL time.Duration,
	now time.Time,
) (*domain.BookingWithTickets, error) {
	const op = "postgres.BookingRepo.Create"

	if r.db != nil {
		out, err := r.createCore(ctx, r.db, userID, flightID, selections, holdTTL, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return out, nil
	}

	var out *domain.BookingWithTickets
	err := runSerializable(ctx, r.pool, func(ctx context.Context, tx DB) error {
		var err error
		out, err = r.createCore(ctx, tx, userID, flightID, selections, holdTTL, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (r *BookingRepo) createCore(
	ctx context.Context,
	db DB,
	userID, flightID int64,
	selections []domain.SeatSelection,
	holdTTL time.Duration,
	now time.Time,
) (*domain.BookingWithTickets, error) {
	var flightExists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM flights WHERE id = $1)`, flightID,
	).Scan(&flightExists); err != nil {
		return nil, translate(err)
	}
	if !flightExists {
		return nil, repository.ErrNotFound
	}

	var hasProfile bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM passenger_profiles WHERE user_id = $1)`, userID,
	).Scan(&hasProfile); err != nil {
		return nil, translate(err)
	}
	if !hasProfile {
		return nil, repository.ErrProfileRequired
	}

	// Sweep lapsed holds before computing occupancy so their seats free
	// up for this request.
	if _, err := db.Exec(ctx,
		`UPDATE bookings
        	SET status = 'CANCELLED'
      	 WHERE flight_id = $1
        	AND status = 'CREATED'
        	AND seat_hold_expires_at < $2`,
		flightID, now,
	); err != nil {
		return nil, translate(err)
	}

	occupied, err := occupiedSeats(ctx, db, "postgres.BookingRepo.createCore", flightID, now, 0)
	if err != nil {
		return nil, err
	}

	if seat, ok := domain.ClaimSeats(occupied, selections); !ok {
		return nil, repository.SeatTakenError{Seat: seat}
	}

	for _, sel := range selections {
		var owned bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM passenger_profiles WHERE id = $1 AND user_id = $2)`,
			sel.PassengerProfileID, userID,
		).Scan(&owned); err != nil {
			return nil, translate(err)
		}
		if !owned {
			return nil, repository.ProfileNotOwnedError{ProfileID: sel.PassengerProfileID}
		}
	}

	pnr, err := domain.UniqueCode(ctx, domain.PNRLength, func(ctx context.Context, code string) (bool, error) {
		var taken bool
		err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE pnr = $1)`, code).Scan(&taken)
		return taken, translate(err)
	})
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(holdTTL)

	var out domain.BookingWithTickets
	if err := db.QueryRow(ctx,
		`INSERT INTO bookings (pnr, user_id, flight_id, status, seat_hold_expires_at)
       	 VALUES ($1, $2, $3, 'CREATED', $4)
     	 RETURNING `+bookingColumns,
		pnr, userID, flightID, expiresAt,
	).Scan(
		&out.Booking.ID, &out.Booking.PNR, &out.Booking.UserID, &out.Booking.FlightID,
		&out.Booking.Status, &out.Booking.SeatHoldExpiresAt, &out.Booking.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}

	for _, sel := range selections {
		number, err := domain.UniqueCode(ctx, domain.TicketNumberLength, func(ctx context.Context, code string) (bool, error) {
			var taken bool
			err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_number = $1)`, code).Scan(&taken)
			return taken, translate(err)
		})
		if err != nil {
			return nil, err
		}

		var t domain.Ticket
		if err := db.QueryRow(ctx,
			`INSERT INTO tickets (ticket_number, booking_id, passenger_profile_id, seat_number)
           	 VALUES ($1, $2, $3, $4)
         	 RETURNING id, ticket_number, booking_id, passenger_profile_id, seat_number`,
			number, out.Booking.ID, sel.PassengerProfileID, sel.SeatNumber,
		).Scan(&t.ID, &t.TicketNumber, &t.BookingID, &t.PassengerProfileID, &t.SeatNumber); err != nil {
			return nil, translate(err)
		}
		out.Tickets = append(out.Tickets, t)
	}

	return &out, nil
}

// Get retrieves a booking by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the booking is not found.
func (r *BookingRepo) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	db := r.handle()

	var b domain.Booking
	if err := scanBooking(db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	), &b); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// GetWithTickets retrieves a booking together with its tickets.
//
// Returns:
//   - error: repository.ErrNotFound if the booking is not found.
func (r *BookingRepo) GetWithTickets(ctx context.Context, id int64) (*domain.BookingWithTickets, error) {
	const op = "postgres.BookingRepo.GetWithTickets"

	db := r.handle()

	var b domain.Booking
	if err := scanBooking(db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	), &b); err != nil {
		return nil, wrapDBErr(op, err)
	}

	tickets, err := r.ticketsByBooking(ctx, db, b.ID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &domain.BookingWithTickets{Booking: b, Tickets: tickets}, nil
}

// Cancel sets the booking status to CANCELLED unconditionally.
// Cancelling an already-cancelled booking succeeds and returns it.
//
// Returns:
//   - error: repository.ErrNotFound if the booking is not found.
func (r *BookingRepo) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Cancel"

	db := r.handle()

	var b domain.Booking
	if err := scanBooking(db.QueryRow(ctx,
		`UPDATE bookings SET status = 'CANCELLED' WHERE id = $1 RETURNING `+bookingColumns, id,
	), &b); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// ListByUser returns the user's bookings joined with their flight,
// tickets and payment. Upcoming selects flights departing strictly
// after now; otherwise strictly before. A flight departing at exactly
// now lands in neither bucket.
func (r *BookingRepo) ListByUser(
	ctx context.Context,
	userID int64,
	upcoming bool,
	now time.Time,
) ([]domain.BookingDetail, error) {
	const op = "postgres.BookingRepo.ListByUser"

	db := r.handle()

	cmp := "<"
	if upcoming {
		cmp = ">"
	}

	rows, err := db.Query(ctx,
		`SELECT b.id, b.pnr, b.user_id, b.flight_id, b.status, b.seat_hold_expires_at, b.created_at,
          	f.id, f.flight_number, f.origin_id, f.destination_id, f.airplane_id,
          	f.scheduled_departure, f.scheduled_arrival, COALESCE(f.gate, ''), COALESCE(f.terminal, ''), f.status, f.created_at
       	 FROM bookings b
       	 JOIN flights f ON f.id = b.flight_id
      	 WHERE b.user_id = $1 AND f.scheduled_departure `+cmp+` $2`,
		userID, now,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.BookingDetail
	for rows.Next() {
		var d domain.BookingDetail
		if err := rows.Scan(
			&d.Booking.ID, &d.Booking.PNR, &d.Booking.UserID, &d.Booking.FlightID,
			&d.Booking.Status, &d.Booking.SeatHoldExpiresAt, &d.Booking.CreatedAt,
			&d.Flight.ID, &d.Flight.FlightNumber, &d.Flight.OriginID, &d.Flight.DestinationID, &d.Flight.AirplaneID,
			&d.Flight.ScheduledDeparture, &d.Flight.ScheduledArrival, &d.Flight.Gate, &d.Flight.Terminal,
			&d.Flight.Status, &d.Flight.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	for i := range out {
		tickets, err := r.ticketsByBooking(ctx, db, out[i].Booking.ID)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out[i].Tickets = tickets

		var p domain.Payment
		err = db.QueryRow(ctx,
			`SELECT id, booking_id, amount, payment_method, status, transaction_id, created_at
           	 FROM payments WHERE booking_id = $1`,
			out[i].Booking.ID,
		).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt)
		switch {
		case err == nil:
			out[i].Payment = &p
		case isNoRows(err):
		default:
			return nil, wrapDBErr(op, err)
		}
	}

	return out, nil
}

func (r *BookingRepo) ticketsByBooking(ctx context.Context, db DB, bookingID int64) ([]domain.Ticket, error) {
	rows, err := db.Query(ctx,
		`SELECT id, ticket_number, booking_id, passenger_profile_id, seat_number
       	 FROM tickets WHERE booking_id = $1 ORDER BY id`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.TicketNumber, &t.BookingID, &t.PassengerProfileID, &t.SeatNumber); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AnnouncementsForUser returns announcements for the flights of the
// user's upcoming bookings, newest first.
func (r *BookingRepo) AnnouncementsForUser(ctx context.Context, userID int64, now time.Time) ([]domain.Announcement, error) {
	const op = "postgres.BookingRepo.AnnouncementsForUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT a.id, a.flight_id, a.announcement_type, a.message, a.created_at
       	 FROM announcements a
      	 WHERE a.flight_id IN (
            	SELECT b.flight_id
              	FROM bookings b
              	JOIN flights f ON f.id = b.flight_id
             	WHERE b.user_id = $1 AND f.scheduled_departure > $2)
      	 ORDER BY a.created_at DESC`,
		userID, now,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.FlightID, &a.Type, &a.Message, &a.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// ReassignSeat moves a ticket to a new seat after checking that no
// other non-cancelled ticket on the flight holds it. The check and the
// write run as one serializable unit. No hold is involved: the change
// is immediate once the conflict check passes.
//
// Returns:
//   - error: repository.ErrNotFound if the booking or ticket is unknown.
//   - error: repository.SeatTakenError if the seat is occupied.
func (r *BookingRepo) ReassignSeat(
	ctx context.Context,
	bookingID, ticketID int64,
	newSeat string,
	now time.Time,
) (*domain.Ticket, error) {
	const op = "postgres.BookingRepo.ReassignSeat"

	run := func(ctx context.Context, db DB) (*domain.Ticket, error) {
		var flightID int64
		if err := db.QueryRow(ctx,
			`SELECT flight_id FROM bookings WHERE id = $1`, bookingID,
		).Scan(&flightID); err != nil {
			return nil, translate(err)
		}

		var t domain.Ticket
		if err := db.QueryRow(ctx,
			`SELECT id, ticket_number, booking_id, passenger_profile_id, seat_number
           	 FROM tickets WHERE id = $1 AND booking_id = $2`,
			ticketID, bookingID,
		).Scan(&t.ID, &t.TicketNumber, &t.BookingID, &t.PassengerProfileID, &t.SeatNumber); err != nil {
			return nil, translate(err)
		}

		occupied, err := occupiedSeats(ctx, db, op, flightID, now, ticketID)
		if err != nil {
			return nil, err
		}
		if _, taken := occupied[newSeat]; taken {
			return nil, repository.SeatTakenError{Seat: newSeat}
		}

		if _, err := db.Exec(ctx,
			`UPDATE tickets SET seat_number = $1 WHERE id = $2`, newSeat, ticketID,
		); err != nil {
			return nil, translate(err)
		}
		t.SeatNumber = newSeat

		return &t, nil
	}

	if r.db != nil {
		t, err := run(ctx, r.db)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return t, nil
	}

	var t *domain.Ticket
	err := runSerializable(ctx, r.pool, func(ctx context.Context, tx DB) error {
		var err error
		t, err = run(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// ListAll returns bookings with their tickets, optionally filtered by
// flight. Staff listing; no ownership filter.
func (r *BookingRepo) ListAll(ctx context.Context, flightID int64) ([]domain.BookingWithTickets, error) {
	const op = "postgres.BookingRepo.ListAll"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE ($1 = 0 OR flight_id = $1) ORDER BY id`,
		flightID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.BookingWithTickets
	for rows.Next() {
		var b domain.BookingWithTickets
		if err := scanBooking(rows, &b.Booking); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	for i := range out {
		tickets, err := r.ticketsByBooking(ctx, db, out[i].Booking.ID)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out[i].Tickets = tickets
	}

	return out, nil
}
