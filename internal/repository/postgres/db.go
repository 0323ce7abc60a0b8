package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

// txAttempts bounds the retry loop for serialization failures.
const txAttempts = 3

// runSerializable executes fn inside a serializable read-write
// transaction, retrying a bounded number of times when the database
// aborts the transaction with a serialization or deadlock failure.
// Business-rule failures are never retried.
func runSerializable(
	ctx context.Context,
	pool *pgxpool.Pool,
	fn func(ctx context.Context, tx DB) error,
) error {
	var err error

	for attempt := 0; attempt < txAttempts; attempt++ {
		err = runTxOnce(ctx, pool, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("serialization retries exhausted: %w", err)
}

func runTxOnce(
	ctx context.Context,
	pool *pgxpool.Pool,
	fn func(ctx context.Context, tx DB) error,
) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Store) Flights() *FlightRepo      { return &FlightRepo{pool: s.pool} }
func (s *Store) Bookings() *BookingRepo    { return &BookingRepo{pool: s.pool} }
func (s *Store) Payments() *PaymentRepo    { return &PaymentRepo{pool: s.pool} }
func (s *Store) CheckIns() *CheckInRepo    { return &CheckInRepo{pool: s.pool} }
func (s *Store) Profiles() *ProfileRepo    { return &ProfileRepo{pool: s.pool} }
func (s *Store) Directory() *DirectoryRepo { return &DirectoryRepo{pool: s.pool} }
