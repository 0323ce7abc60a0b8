package kafka

import "time"

// Event types carried on the notifications topic.
const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventCheckInCompleted = "checkin_completed"
	EventAnnouncement     = "flight_announcement"
)

// NotificationEvent is the wire payload for every notification. Fields
// not relevant to a given type are left zero.
type NotificationEvent struct {
	Type      string     `json:"type"`
	UserID    int64      `json:"user_id,omitempty"`
	BookingID int64      `json:"booking_id,omitempty"`
	PNR       string     `json:"pnr,omitempty"`
	FlightID  int64      `json:"flight_id,omitempty"`
	TicketID  int64      `json:"ticket_id,omitempty"`
	Seat      string     `json:"seat,omitempty"`
	Message   string     `json:"message,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	TsUnix    int64      `json:"ts_unix"`
}
