package httpgin

import (
	"time"

	"github.com/dvasilkov/skybook-go/internal/domain"
)

// --- Requests ---

type SaveProfileRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
}

type CreateBookingRequest struct {
	FlightID   int64                  `json:"flight_id" binding:"required"`
	Passengers []SeatSelectionRequest `json:"passengers" binding:"required,min=1,dive"`
}

type SeatSelectionRequest struct {
	PassengerProfileID int64  `json:"passenger_profile_id" binding:"required"`
	SeatNumber         string `json:"seat_number" binding:"required"`
}

type PayBookingRequest struct {
	IdempotencyToken string `json:"idempotency_token"`
}

type CreateAirplaneRequest struct {
	Model              string `json:"model" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Rows               int    `json:"rows" binding:"required,gt=0"`
	SeatsPerRow        int    `json:"seats_per_row" binding:"required,gt=0"`
	Layout             string `json:"layout"`
}

type CreateFlightRequest struct {
	FlightNumber       string `json:"flight_number" binding:"required"`
	OriginID           int64  `json:"origin_id" binding:"required"`
	DestinationID      int64  `json:"destination_id" binding:"required"`
	AirplaneID         int64  `json:"airplane_id" binding:"required"`
	ScheduledDeparture string `json:"scheduled_departure" binding:"required"` // RFC3339
	ScheduledArrival   string `json:"scheduled_arrival" binding:"required"`   // RFC3339
	Gate               string `json:"gate"`
	Terminal           string `json:"terminal"`
}

type UpdateFlightRequest struct {
	FlightNumber       *string `json:"flight_number"`
	OriginID           *int64  `json:"origin_id"`
	DestinationID      *int64  `json:"destination_id"`
	AirplaneID         *int64  `json:"airplane_id"`
	ScheduledDeparture *string `json:"scheduled_departure"` // RFC3339
	ScheduledArrival   *string `json:"scheduled_arrival"`   // RFC3339
	Gate               *string `json:"gate"`
	Terminal           *string `json:"terminal"`
	Status             *string `json:"status"`
}

type CreateAnnouncementRequest struct {
	FlightID int64  `json:"flight_id" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=DELAY CANCELLATION GATE_CHANGE BOARDING"`
	Message  string `json:"message" binding:"required"`
}

type ReassignSeatRequest struct {
	SeatNumber string `json:"seat_number" binding:"required"`
}

// --- Responses ---

type ErrorResponse struct {
	Error string `json:"error"`
}

type ProfileResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
}

type AirportResponse struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type AirplaneResponse struct {
	ID                 int64  `json:"id"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registration_number"`
	Rows               int    `json:"rows"`
	SeatsPerRow        int    `json:"seats_per_row"`
	Layout             string `json:"layout"`
	TotalSeats         int    `json:"total_seats"`
}

type FlightResponse struct {
	ID                 int64     `json:"id"`
	FlightNumber       string    `json:"flight_number"`
	OriginID           int64     `json:"origin_id"`
	DestinationID      int64     `json:"destination_id"`
	AirplaneID         int64     `json:"airplane_id"`
	ScheduledDeparture time.Time `json:"scheduled_departure"`
	ScheduledArrival   time.Time `json:"scheduled_arrival"`
	Gate               string    `json:"gate,omitempty"`
	Terminal           string    `json:"terminal,omitempty"`
	Status             string    `json:"status"`
}

type FlightDetailResponse struct {
	FlightResponse
	Origin         AirportResponse  `json:"origin"`
	Destination    AirportResponse  `json:"destination"`
	Airplane       AirplaneResponse `json:"airplane"`
	TotalSeats     int              `json:"total_seats"`
	AvailableSeats int              `json:"available_seats"`
	OccupiedSeats  []string         `json:"occupied_seats"`
}

type TicketResponse struct {
	ID                 int64  `json:"id"`
	TicketNumber       string `json:"ticket_number"`
	BookingID          int64  `json:"booking_id"`
	PassengerProfileID int64  `json:"passenger_profile_id"`
	SeatNumber         string `json:"seat_number"`
}

type BookingResponse struct {
	ID                int64            `json:"id"`
	PNR               string           `json:"pnr"`
	UserID            int64            `json:"user_id"`
	FlightID          int64            `json:"flight_id"`
	Status            string           `json:"status"`
	SeatHoldExpiresAt *time.Time       `json:"seat_hold_expires_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	Tickets           []TicketResponse `json:"tickets,omitempty"`
}

type BookingDetailResponse struct {
	Booking BookingResponse  `json:"booking"`
	Flight  FlightResponse   `json:"flight"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}

type PaymentResponse struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"booking_id"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type CheckInResponse struct {
	ID           int64               `json:"id"`
	TicketID     int64               `json:"ticket_id"`
	CheckedInAt  time.Time           `json:"checked_in_at"`
	BoardingPass domain.BoardingPass `json:"boarding_pass"`
}

type AnnouncementResponse struct {
	ID        int64     `json:"id"`
	FlightID  int64     `json:"flight_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Converters ---

func toProfileResponse(p domain.PassengerProfile) ProfileResponse {
	out := ProfileResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		FullName:       p.FullName,
		Email:          p.Email,
		Phone:          p.Phone,
		PassportNumber: p.PassportNumber,
		Nationality:    p.Nationality,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = p.DateOfBirth.Format("2006-01-02")
	}
	return out
}

func toAirportResponse(a domain.Airport) AirportResponse {
	return AirportResponse{
		ID:      a.ID,
		Code:    a.Code,
		Name:    a.Name,
		City:    a.City,
		Country: a.Country,
	}
}

func toAirplaneResponse(a domain.Airplane) AirplaneResponse {
	return AirplaneResponse{
		ID:                 a.ID,
		Model:              a.Model,
		RegistrationNumber: a.RegistrationNumber,
		Rows:               a.SeatTemplate.Rows,
		SeatsPerRow:        a.SeatTemplate.SeatsPerRow,
		Layout:             a.SeatTemplate.Layout,
		TotalSeats:         a.TotalSeats,
	}
}

func toFlightResponse(f domain.Flight) FlightResponse {
	return FlightResponse{
		ID:                 f.ID,
		FlightNumber:       f.FlightNumber,
		OriginID:           f.OriginID,
		DestinationID:      f.DestinationID,
		AirplaneID:         f.AirplaneID,
		ScheduledDeparture: f.ScheduledDeparture,
		ScheduledArrival:   f.ScheduledArrival,
		Gate:               f.Gate,
		Terminal:           f.Terminal,
		Status:             string(f.Status),
	}
}

func toFlightDetailResponse(d domain.FlightDetail) FlightDetailResponse {
	return FlightDetailResponse{
		FlightResponse: toFlightResponse(d.Flight),
		Origin:         toAirportResponse(d.Origin),
		Destination:    toAirportResponse(d.Destination),
		Airplane:       toAirplaneResponse(d.Airplane),
		TotalSeats:     d.TotalSeats,
		AvailableSeats: d.AvailableSeats,
		OccupiedSeats:  d.OccupiedSeats,
	}
}

func toTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketResponse{
			ID:                 t.ID,
			TicketNumber:       t.TicketNumber,
			BookingID:          t.BookingID,
			PassengerProfileID: t.PassengerProfileID,
			SeatNumber:         t.SeatNumber,
		})
	}
	return out
}

func toBookingResponse(b domain.Booking, tickets []domain.Ticket) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		PNR:               b.PNR,
		UserID:            b.UserID,
		FlightID:          b.FlightID,
		Status:            string(b.Status),
		SeatHoldExpiresAt: b.SeatHoldExpiresAt,
		CreatedAt:         b.CreatedAt,
		Tickets:           toTicketResponses(tickets),
	}
}

func toPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}

func toBookingDetailResponse(d domain.BookingDetail) BookingDetailResponse {
	out := BookingDetailResponse{
		Booking: toBookingResponse(d.Booking, d.Tickets),
		Flight:  toFlightResponse(d.Flight),
	}
	if d.Payment != nil {
		p := toPaymentResponse(*d.Payment)
		out.Payment = &p
	}
	return out
}

func toAnnouncementResponse(a domain.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID,
		FlightID:  a.FlightID,
		Type:      string(a.Type),
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
	}
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
