package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PaymentRepo) With(db DB) *PaymentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PaymentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const paymentColumns = `id, booking_id, amount, payment_method, status, transaction_id, created_at`

func scanPayment(row interface{ Scan(...any) error }, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt)
}

// pricePerTicket is the flat mock fare. A real gateway would replace
// this whole amount computation.
const pricePerTicket = 100.0

// Process records a mock payment for the booking, keyed by the
// caller-supplied idempotency token. The token check and the write run
// as one serializable unit so concurrent retries with the same token
// cannot create duplicates.
//
// Semantics, in order:
//  1. A payment already recorded under token is returned unchanged.
//  2. Unknown booking: repository.ErrNotFound.
//  3. Cancelled booking: repository.ErrBookingCancelled.
//  4. A prior PAID payment for the booking under a different token:
//     repository.ErrPaymentProcessed. A prior non-PAID payment is
//     marked PAID in place under the new token.
//  5. Otherwise a PAID payment of ticketCount * 100.0 is created.
//
// On any successful creation or update the booking becomes CONFIRMED.
func (r *PaymentRepo) Process(ctx context.Context, bookingID int64, token string) (*domain.Payment, error) {
	const op = "postgres.PaymentRepo.Process"

	if r.db != nil {
		p, err := r.processCore(ctx, r.db, bookingID, token)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return p, nil
	}

	var p *domain.Payment
	err := runSerializable(ctx, r.pool, func(ctx context.Context, tx DB) error {
		var err error
		p, err = r.processCore(ctx, tx, bookingID, token)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// GetByToken returns the payment recorded under an idempotency token.
//
// Returns:
//   - error: repository.ErrNotFound if no payment carries the token.
func (r *PaymentRepo) GetByToken(ctx context.Context, token string) (*domain.Payment, error) {
	const op = "postgres.PaymentRepo.GetByToken"

	var p domain.Payment
	if err := scanPayment(r.handle().QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, token,
	), &p); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &p, nil
}

func (r *PaymentRepo) processCore(ctx context.Context, db DB, bookingID int64, token string) (*domain.Payment, error) {
	var p domain.Payment
	err := scanPayment(db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, token,
	), &p)
	if err == nil {
		return &p, nil
	}
	if !isNoRows(err) {
		return nil, translate(err)
	}

	var status domain.BookingStatus
	if err := db.QueryRow(ctx,
		`SELECT status FROM bookings WHERE id = $1`, bookingID,
	).Scan(&status); err != nil {
		return nil, translate(err)
	}
	if status == domain.BookingCancelled {
		return nil, repository.ErrBookingCancelled
	}

	err = scanPayment(db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID,
	), &p)
	switch {
	case err == nil:
		if p.Status == domain.PaymentPaid {
			return nil, repository.ErrPaymentProcessed
		}
		if err := scanPayment(db.QueryRow(ctx,
			`UPDATE payments SET status = 'PAID', transaction_id = $1
          	 WHERE id = $2
         	 RETURNING `+paymentColumns,
			token, p.ID,
		), &p); err != nil {
			return nil, translate(err)
		}
	case isNoRows(err):
		var ticketCount int
		if err := db.QueryRow(ctx,
			`SELECT COUNT(*) FROM tickets WHERE booking_id = $1`, bookingID,
		).Scan(&ticketCount); err != nil {
			return nil, translate(err)
		}

		if err := scanPayment(db.QueryRow(ctx,
			`INSERT INTO payments (booking_id, amount, payment_method, status, transaction_id)
           	 VALUES ($1, $2, 'CARD', 'PAID', $3)
         	 RETURNING `+paymentColumns,
			bookingID, float64(ticketCount)*pricePerTicket, token,
		), &p); err != nil {
			return nil, translate(err)
		}
	default:
		return nil, translate(err)
	}

	if _, err := db.Exec(ctx,
		`UPDATE bookings SET status = 'CONFIRMED' WHERE id = $1`, bookingID,
	); err != nil {
		return nil, translate(err)
	}

	return &p, nil
}
