package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvasilkov/skybook-go/internal/domain"
)

type CheckInRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CheckInRepo) With(db DB) *CheckInRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CheckInRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// TicketContext resolves a ticket id into the ticket, its booking,
// flight and passenger in one query.
//
// Returns:
//   - error: repository.ErrNotFound if the ticket or any of the joined
//     rows cannot be resolved.
func (r *CheckInRepo) TicketContext(ctx context.Context, ticketID int64) (*domain.TicketContext, error) {
	const op = "postgres.CheckInRepo.TicketContext"

	db := r.handle()

	var tc domain.TicketContext
	err := db.QueryRow(ctx,
		`SELECT t.id, t.ticket_number, t.booking_id, t.passenger_profile_id, t.seat_number,
          	b.id, b.pnr, b.user_id, b.flight_id, b.status, b.seat_hold_expires_at, b.created_at,
          	f.id, f.flight_number, f.origin_id, f.destination_id, f.airplane_id,
          	f.scheduled_departure, f.scheduled_arrival, COALESCE(f.gate, ''), COALESCE(f.terminal, ''), f.status, f.created_at,
          	p.id, p.user_id, p.full_name, p.email, COALESCE(p.phone, ''), COALESCE(p.passport_number, ''),
          	COALESCE(p.nationality, ''), p.date_of_birth
       	 FROM tickets t
       	 JOIN bookings b ON b.id = t.booking_id
       	 JOIN flights f ON f.id = b.flight_id
       	 JOIN passenger_profiles p ON p.id = t.passenger_profile_id
      	 WHERE t.id = $1`,
		ticketID,
	).Scan(
		&tc.Ticket.ID, &tc.Ticket.TicketNumber, &tc.Ticket.BookingID, &tc.Ticket.PassengerProfileID, &tc.Ticket.SeatNumber,
		&tc.Booking.ID, &tc.Booking.PNR, &tc.Booking.UserID, &tc.Booking.FlightID,
		&tc.Booking.Status, &tc.Booking.SeatHoldExpiresAt, &tc.Booking.CreatedAt,
		&tc.Flight.ID, &tc.Flight.FlightNumber, &tc.Flight.OriginID, &tc.Flight.DestinationID, &tc.Flight.AirplaneID,
		&tc.Flight.ScheduledDeparture, &tc.Flight.ScheduledArrival, &tc.Flight.Gate, &tc.Flight.Terminal,
		&tc.Flight.Status, &tc.Flight.CreatedAt,
		&tc.Passenger.ID, &tc.Passenger.UserID, &tc.Passenger.FullName, &tc.Passenger.Email,
		&tc.Passenger.Phone, &tc.Passenger.PassportNumber, &tc.Passenger.Nationality, &tc.Passenger.DateOfBirth,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &tc, nil
}

// GetByTicket retrieves the check-in issued for a ticket, if any.
//
// Returns:
//   - error: repository.ErrNotFound if no check-in exists.
func (r *CheckInRepo) GetByTicket(ctx context.Context, ticketID int64) (*domain.CheckIn, error) {
	const op = "postgres.CheckInRepo.GetByTicket"

	db := r.handle()

	var c domain.CheckIn
	if err := db.QueryRow(ctx,
		`SELECT id, ticket_id, qr_code, checked_in_at FROM checkins WHERE ticket_id = $1`,
		ticketID,
	).Scan(&c.ID, &c.TicketID, &c.QRCode, &c.CheckedInAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}

// Create issues a check-in for the ticket. Issuance is idempotent: a
// concurrent or earlier check-in for the same ticket wins and is
// returned instead of a duplicate.
func (r *CheckInRepo) Create(ctx context.Context, ticketID int64, qrCode string) (*domain.CheckIn, error) {
	const op = "postgres.CheckInRepo.Create"

	db := r.handle()

	var c domain.CheckIn
	err := db.QueryRow(ctx,
		`INSERT INTO checkins (ticket_id, qr_code)
       	 VALUES ($1, $2)
     	 ON CONFLICT (ticket_id) DO NOTHING
     	 RETURNING id, ticket_id, qr_code, checked_in_at`,
		ticketID, qrCode,
	).Scan(&c.ID, &c.TicketID, &c.QRCode, &c.CheckedInAt)
	if err != nil {
		if isNoRows(err) {
			// lost the race; the existing row is the credential
			return r.GetByTicket(ctx, ticketID)
		}
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}
