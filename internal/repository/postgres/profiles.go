package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvasilkov/skybook-go/internal/domain"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ProfileRepo) With(db DB) *ProfileRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ProfileRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const profileColumns = `id, user_id, full_name, email, COALESCE(phone, ''),
	COALESCE(passport_number, ''), COALESCE(nationality, ''), date_of_birth`

func scanProfile(row interface{ Scan(...any) error }, p *domain.PassengerProfile) error {
	return row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.Phone,
		&p.PassportNumber, &p.Nationality, &p.DateOfBirth)
}

// GetByUser retrieves a user's passenger profile.
//
// Returns:
//   - error: repository.ErrNotFound if the user has no profile.
func (r *ProfileRepo) GetByUser(ctx context.Context, userID int64) (*domain.PassengerProfile, error) {
	const op = "postgres.ProfileRepo.GetByUser"

	db := r.handle()

	var p domain.PassengerProfile
	if err := scanProfile(db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM passenger_profiles WHERE user_id = $1`, userID,
	), &p); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &p, nil
}

// Upsert creates the user's profile or updates it in place; a user owns
// at most one profile.
func (r *ProfileRepo) Upsert(ctx context.Context, p domain.PassengerProfile) (*domain.PassengerProfile, error) {
	const op = "postgres.ProfileRepo.Upsert"

	db := r.handle()

	var out domain.PassengerProfile
	if err := scanProfile(db.QueryRow(ctx,
		`INSERT INTO passenger_profiles (user_id, full_name, email, phone, passport_number, nationality, date_of_birth)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7)
     	 ON CONFLICT (user_id) DO UPDATE SET
        	full_name = EXCLUDED.full_name,
        	email = EXCLUDED.email,
        	phone = EXCLUDED.phone,
        	passport_number = EXCLUDED.passport_number,
        	nationality = EXCLUDED.nationality,
        	date_of_birth = EXCLUDED.date_of_birth
     	 RETURNING `+profileColumns,
		p.UserID, p.FullName, p.Email, p.Phone, p.PassportNumber, p.Nationality, p.DateOfBirth,
	), &out); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}
