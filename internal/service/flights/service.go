package flights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/repository"
	redisrepo "github.com/dvasilkov/skybook-go/internal/repository/redis"
)

// Store is the flight read surface the service needs.
type Store interface {
	Search(ctx context.Context, origin, destination string, date *time.Time) ([]domain.Flight, error)
	Get(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Detail(ctx context.Context, id int64, now time.Time) (*domain.FlightDetail, error)
	OccupiedSeats(ctx context.Context, flightID int64, now time.Time) (map[string]struct{}, error)
}

type Config struct {
	FlightSummaryTTL time.Duration
}

type Service struct {
	store Store
	cache *redisrepo.Cache
	cfg   Config
	now   func() time.Time
}

func New(store Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.FlightSummaryTTL <= 0 {
		cfg.FlightSummaryTTL = 60 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search lists flights matching the optional origin/destination airport
// codes and the optional calendar day of departure.
func (s *Service) Search(
	ctx context.Context,
	origin, destination string,
	date *time.Time,
) ([]domain.Flight, error) {
	const op = "service.flights.Search"

	out, err := s.store.Search(ctx, origin, destination, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Get retrieves a flight by its ID, utilizing a caching layer to improve
// performance. Only the static flight row is cached; occupancy-bearing
// views always go to the store.
//
// Returns:
//   - *domain.Flight: the retrieved flight.
//   - error: flights.ErrFlightNotFound if the flight is not found.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "service.flights.Get"

	key := redisrepo.KeyFlightSummary(id)

	flight, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.FlightSummaryTTL,
		func(ctx context.Context) (domain.Flight, error) {
			f, err := s.store.Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Flight{}, ErrFlightNotFound
				}

				return domain.Flight{}, err
			}

			return *f, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrFlightNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &flight, nil
}

// List returns all flights in store order.
func (s *Service) List(ctx context.Context) ([]domain.Flight, error) {
	const op = "service.flights.List"

	out, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Detail retrieves the joined flight view with live availability.
// Expired seat holds do not count as occupied.
//
// Returns:
//   - *domain.FlightDetail: the flight with endpoints, airplane and
//     occupancy figures.
//   - error: flights.ErrFlightNotFound if the flight is not found.
func (s *Service) Detail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	const op = "service.flights.Detail"

	d, err := s.store.Detail(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// OccupiedSeats lists the seat designators currently taken on a flight,
// sorted for stable output. Expired holds are not counted.
//
// Returns:
//   - error: flights.ErrFlightNotFound if the flight is not found.
func (s *Service) OccupiedSeats(ctx context.Context, id int64) ([]string, error) {
	const op = "service.flights.OccupiedSeats"

	if _, err := s.Get(ctx, id); err != nil {
		if errors.Is(err, ErrFlightNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	occupied, err := s.store.OccupiedSeats(ctx, id, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]string, 0, len(occupied))
	for seat := range occupied {
		out = append(out, seat)
	}
	sort.Strings(out)

	return out, nil
}

// SeatMap builds the row-by-row cabin grid for a flight with each
// seat's availability at the current instant.
//
// Returns:
//   - *domain.SeatMap: the enumerated grid.
//   - error: flights.ErrFlightNotFound if the flight is not found.
func (s *Service) SeatMap(ctx context.Context, id int64) (*domain.SeatMap, error) {
	const op = "service.flights.SeatMap"

	d, err := s.store.Detail(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	occupied := make(map[string]struct{}, len(d.OccupiedSeats))
	for _, seat := range d.OccupiedSeats {
		occupied[seat] = struct{}{}
	}

	sm := domain.BuildSeatMap(d.Airplane.SeatTemplate, d.TotalSeats, occupied)

	return &sm, nil
}
