package domain

import (
	"time"
)

type Role string

const (
	RolePassenger Role = "passenger"
	RoleStaff     Role = "staff"
)

type BookingStatus string

const (
	BookingCreated   BookingStatus = "CREATED"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightDelayed   FlightStatus = "DELAYED"
	FlightBoarding  FlightStatus = "BOARDING"
	FlightDeparted  FlightStatus = "DEPARTED"
	FlightArrived   FlightStatus = "ARRIVED"
	FlightCancelled FlightStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

type PaymentMethod string

const PaymentMethodCard PaymentMethod = "CARD"

type AnnouncementType string

const (
	AnnouncementDelay        AnnouncementType = "DELAY"
	AnnouncementCancellation AnnouncementType = "CANCELLATION"
	AnnouncementGateChange   AnnouncementType = "GATE_CHANGE"
	AnnouncementBoarding     AnnouncementType = "BOARDING"
)

type User struct {
	ID        int64
	Username  string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

type PassengerProfile struct {
	ID             int64
	UserID         int64
	FullName       string
	Email          string
	Phone          string
	PassportNumber string
	Nationality    string
	DateOfBirth    *time.Time
}

type Airport struct {
	ID      int64
	Code    string // IATA code, e.g. "JFK"
	Name    string
	City    string
	Country string
}

// SeatTemplate describes the cabin grid of an airplane.
// Layout is a display label like "3-3" and carries no behavior.
type SeatTemplate struct {
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
	Layout      string `json:"layout"`
}

type Airplane struct {
	ID                 int64
	Model              string
	RegistrationNumber string
	SeatTemplate       SeatTemplate
	TotalSeats         int
}

type Flight struct {
	ID                 int64
	FlightNumber       string
	OriginID           int64
	DestinationID      int64
	AirplaneID         int64
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
	Gate               string
	Terminal           string
	Status             FlightStatus
	CreatedAt          time.Time
}

// FlightDetail is a flight joined with its endpoints, airplane and the
// current seat occupancy figures.
type FlightDetail struct {
	Flight         Flight
	Origin         Airport
	Destination    Airport
	Airplane       Airplane
	TotalSeats     int
	AvailableSeats int
	OccupiedSeats  []string
}

type Booking struct {
	ID                int64
	PNR               string
	UserID            int64
	FlightID          int64
	Status            BookingStatus
	SeatHoldExpiresAt *time.Time
	CreatedAt         time.Time
}

type Ticket struct {
	ID                 int64
	TicketNumber       string
	BookingID          int64
	PassengerProfileID int64
	SeatNumber         string // designator, e.g. "12A"
}

type BookingWithTickets struct {
	Booking Booking
	Tickets []Ticket
}

// BookingDetail is the passenger-facing trip view: booking, its flight
// and tickets, and the payment summary when one exists.
type BookingDetail struct {
	Booking Booking
	Flight  Flight
	Tickets []Ticket
	Payment *Payment
}

// SeatSelection pairs a passenger profile with a requested seat inside
// one booking request. Order matters: earlier selections claim seats
// before later ones.
type SeatSelection struct {
	PassengerProfileID int64  `json:"passenger_profile_id"`
	SeatNumber         string `json:"seat_number"`
}

type Payment struct {
	ID            int64
	BookingID     int64
	Amount        float64
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string // caller-supplied idempotency token
	CreatedAt     time.Time
}

type CheckIn struct {
	ID          int64
	TicketID    int64
	QRCode      string // serialized BoardingPass
	CheckedInAt time.Time
}

// BoardingPass is the credential payload embedded in a check-in QR code.
type BoardingPass struct {
	TicketNumber  string `json:"ticket_number"`
	PNR           string `json:"pnr"`
	FlightNumber  string `json:"flight_number"`
	PassengerName string `json:"passenger_name"`
	Seat          string `json:"seat"`
	Gate          string `json:"gate"`
	Terminal      string `json:"terminal"`
	Departure     string `json:"departure"` // RFC 3339
}

type Announcement struct {
	ID        int64
	FlightID  int64
	Type      AnnouncementType
	Message   string
	CreatedAt time.Time
}

// TicketContext is everything the check-in flow needs to resolve from a
// ticket id in one lookup: the ticket, its booking, flight and the
// passenger the ticket was issued for.
type TicketContext struct {
	Ticket    Ticket
	Booking   Booking
	Flight    Flight
	Passenger PassengerProfile
}
