package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dvasilkov/skybook-go/internal/domain"
	postgresrepo "github.com/dvasilkov/skybook-go/internal/repository/postgres"
	"github.com/dvasilkov/skybook-go/internal/service"
	"github.com/dvasilkov/skybook-go/internal/service/admin"
	"github.com/dvasilkov/skybook-go/internal/service/booking"
	"github.com/dvasilkov/skybook-go/internal/service/checkin"
	"github.com/dvasilkov/skybook-go/internal/service/flights"
	"github.com/dvasilkov/skybook-go/internal/service/payments"
	"github.com/dvasilkov/skybook-go/internal/service/profiles"
)

func NewRouter(
	svcs *service.Services,
	jwtSecret string,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/flights", handleSearchFlights(svcs))
	r.GET("/flights/:id", handleGetFlight(svcs))
	r.GET("/flights/:id/detail", handleGetFlightDetail(svcs))
	r.GET("/flights/:id/seats", handleGetOccupiedSeats(svcs))
	r.GET("/flights/:id/seatmap", handleGetSeatMap(svcs))

	// Passenger API
	auth := r.Group("/", JWTAuth(jwtSecret))
	{
		auth.GET("/profile", handleGetProfile(svcs))
		auth.PUT("/profile", handleSaveProfile(svcs))

		auth.POST("/bookings", handleCreateBooking(svcs))
		auth.GET("/bookings", handleListBookings(svcs))
		auth.GET("/bookings/:id", handleGetBooking(svcs))
		auth.DELETE("/bookings/:id", handleCancelBooking(svcs))
		auth.POST("/bookings/:id/payment", handlePayBooking(svcs))

		auth.POST("/tickets/:id/checkin", handleCheckIn(svcs))

		auth.GET("/announcements", handleUserAnnouncements(svcs))
	}

	// Staff API
	staff := r.Group("/staff", JWTAuth(jwtSecret), RequireRole(domain.RoleStaff))
	{
		staff.POST("/airplanes", handleCreateAirplane(svcs))
		staff.GET("/airplanes", handleListAirplanes(svcs))

		staff.POST("/flights", handleCreateFlight(svcs))
		staff.GET("/flights", handleListFlights(svcs))
		staff.PATCH("/flights/:id", handleUpdateFlight(svcs))

		staff.POST("/announcements", handleCreateAnnouncement(svcs))

		staff.GET("/bookings", handleStaffListBookings(svcs))
		staff.DELETE("/bookings/:id", handleStaffCancelBooking(svcs))
		staff.PUT("/bookings/:id/tickets/:ticketId/seat", handleReassignSeat(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Search flights
// @Param    origin       query  string  false  "origin airport code"
// @Param    destination  query  string  false  "destination airport code"
// @Param    date         query  string  false  "departure day (YYYY-MM-DD)"
// @Success  200  {array}   FlightResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /flights [get]
func handleSearchFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var date *time.Time
		if s := c.Query("date"); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			date = &d
		}

		out, err := svcs.Flights.Search(
			c.Request.Context(),
			c.Query("origin"),
			c.Query("destination"),
			date,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]FlightResponse, 0, len(out))
		for _, f := range out {
			resp = append(resp, toFlightResponse(f))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  List all flights
// @Success  200  {array}  FlightResponse
// @Router   /staff/flights [get]
func handleListFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Flights.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]FlightResponse, 0, len(out))
		for _, f := range out {
			resp = append(resp, toFlightResponse(f))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Get flight
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  FlightResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id} [get]
func handleGetFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		f, err := svcs.Flights.Get(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, toFlightResponse(*f), "public, max-age=60", true)
	}
}

// @Summary  Get flight detail with availability
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  FlightDetailResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id}/detail [get]
func handleGetFlightDetail(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		d, err := svcs.Flights.Detail(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toFlightDetailResponse(*d))
	}
}

// @Summary  List occupied seats
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {array}  string
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id}/seats [get]
func handleGetOccupiedSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Flights.OccupiedSeats(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, seats)
	}
}

// @Summary  Get seat map
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.SeatMap
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id}/seatmap [get]
func handleGetSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		sm, err := svcs.Flights.SeatMap(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sm)
	}
}

// @Summary  Get own passenger profile
// @Success  200  {object}  ProfileResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /profile [get]
func handleGetProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)
		p, err := svcs.Profiles.Get(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toProfileResponse(*p))
	}
}

// @Summary  Create or replace own passenger profile
// @Param    req  body  SaveProfileRequest  true  "payload"
// @Success  200  {object}  ProfileResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /profile [put]
func handleSaveProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)

		var req SaveProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		p := domain.PassengerProfile{
			UserID:         userID,
			FullName:       req.FullName,
			Email:          req.Email,
			Phone:          req.Phone,
			PassportNumber: req.PassportNumber,
			Nationality:    req.Nationality,
		}
		if req.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				badRequest(c, "invalid date_of_birth (YYYY-MM-DD)")
				return
			}
			p.DateOfBirth = &dob
		}

		out, err := svcs.Profiles.Save(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toProfileResponse(*out))
	}
}

// @Summary  Create booking with seat holds
// @Param    req  body  CreateBookingRequest  true  "payload"
// @Success  201  {object}  BookingResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse  "seat already booked"
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Router   /bookings [post]
func handleCreateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)

		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		selections := make([]domain.SeatSelection, 0, len(req.Passengers))
		for _, p := range req.Passengers {
			selections = append(selections, domain.SeatSelection{
				PassengerProfileID: p.PassengerProfileID,
				SeatNumber:         strings.ToUpper(strings.TrimSpace(p.SeatNumber)),
			})
		}

		out, err := svcs.Booking.Create(c.Request.Context(), userID, req.FlightID, selections)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toBookingResponse(out.Booking, out.Tickets))
	}
}

// @Summary  List own bookings
// @Param    upcoming  query  bool  false  "true for upcoming, false for past (default true)"
// @Success  200  {array}  BookingDetailResponse
// @Router   /bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)

		upcoming := c.DefaultQuery("upcoming", "true") == "true"

		out, err := svcs.Booking.ListByUser(c.Request.Context(), userID, upcoming)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]BookingDetailResponse, 0, len(out))
		for _, d := range out {
			resp = append(resp, toBookingDetailResponse(d))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Get booking
// @Param    id  path  int  true  "Booking ID"
// @Success  200  {object}  BookingResponse
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role := principal(c)

		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		out, err := svcs.Booking.Get(c.Request.Context(), bookingID, userID, role)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(out.Booking, out.Tickets))
	}
}

// @Summary  Cancel own booking
// @Param    id  path  int  true  "Booking ID"
// @Success  200  {object}  BookingResponse
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id} [delete]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)

		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		out, err := svcs.Booking.Cancel(c.Request.Context(), bookingID, &userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(*out, nil))
	}
}

// @Summary  Pay for a booking (idempotent on token)
// @Param    id   path  int                true  "Booking ID"
// @Param    req  body  PayBookingRequest  true  "payload"
// @Success  200  {object}  PaymentResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse  "already processed / booking cancelled"
// @Router   /bookings/{id}/payment [post]
func handlePayBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req PayBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			badRequest(c, err.Error())
			return
		}

		token := strings.TrimSpace(req.IdempotencyToken)
		if token == "" {
			token = strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		}

		p, err := svcs.Payments.Process(c.Request.Context(), bookingID, token)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toPaymentResponse(*p))
	}
}

// @Summary  Check in for a flight
// @Param    id  path  int  true  "Ticket ID"
// @Success  200  {object}  CheckInResponse
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse  "outside the check-in window"
// @Router   /tickets/{id}/checkin [post]
func handleCheckIn(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)

		ticketID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		ci, pass, err := svcs.CheckIn.CheckIn(c.Request.Context(), ticketID, userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, CheckInResponse{
			ID:           ci.ID,
			TicketID:     ci.TicketID,
			CheckedInAt:  ci.CheckedInAt,
			BoardingPass: *pass,
		})
	}
}

// @Summary  Announcements for own upcoming flights
// @Success  200  {array}  AnnouncementResponse
// @Router   /announcements [get]
func handleUserAnnouncements(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := principal(c)

		out, err := svcs.Booking.Announcements(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]AnnouncementResponse, 0, len(out))
		for _, a := range out {
			resp = append(resp, toAnnouncementResponse(a))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Register airplane
// @Param    req  body  CreateAirplaneRequest  true  "payload"
// @Success  201  {object}  AirplaneResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /staff/airplanes [post]
func handleCreateAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAirplaneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		out, err := svcs.Admin.CreateAirplane(c.Request.Context(), domain.Airplane{
			Model:              req.Model,
			RegistrationNumber: req.RegistrationNumber,
			SeatTemplate: domain.SeatTemplate{
				Rows:        req.Rows,
				SeatsPerRow: req.SeatsPerRow,
				Layout:      req.Layout,
			},
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toAirplaneResponse(*out))
	}
}

// @Summary  List airplanes
// @Success  200  {array}  AirplaneResponse
// @Router   /staff/airplanes [get]
func handleListAirplanes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Admin.ListAirplanes(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]AirplaneResponse, 0, len(out))
		for _, a := range out {
			resp = append(resp, toAirplaneResponse(a))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Create flight
// @Param    req  body  CreateFlightRequest  true  "payload"
// @Success  201  {object}  FlightResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse  "unknown airport or airplane"
// @Failure  409  {object}  ErrorResponse
// @Router   /staff/flights [post]
func handleCreateFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		dep, err := parseRFC3339(req.ScheduledDeparture)
		if err != nil {
			badRequest(c, "invalid scheduled_departure (RFC3339)")
			return
		}
		arr, err := parseRFC3339(req.ScheduledArrival)
		if err != nil {
			badRequest(c, "invalid scheduled_arrival (RFC3339)")
			return
		}

		out, err := svcs.Admin.CreateFlight(c.Request.Context(), domain.Flight{
			FlightNumber:       req.FlightNumber,
			OriginID:           req.OriginID,
			DestinationID:      req.DestinationID,
			AirplaneID:         req.AirplaneID,
			ScheduledDeparture: dep,
			ScheduledArrival:   arr,
			Gate:               req.Gate,
			Terminal:           req.Terminal,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toFlightResponse(*out))
	}
}

// @Summary  Update flight (partial)
// @Param    id   path  int                  true  "Flight ID"
// @Param    req  body  UpdateFlightRequest  true  "payload, only supplied fields are applied"
// @Success  200  {object}  FlightResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /staff/flights/{id} [patch]
func handleUpdateFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req UpdateFlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		patch := postgresrepo.FlightPatch{
			FlightNumber:  req.FlightNumber,
			OriginID:      req.OriginID,
			DestinationID: req.DestinationID,
			AirplaneID:    req.AirplaneID,
			Gate:          req.Gate,
			Terminal:      req.Terminal,
		}
		if req.ScheduledDeparture != nil {
			t, err := parseRFC3339(*req.ScheduledDeparture)
			if err != nil {
				badRequest(c, "invalid scheduled_departure (RFC3339)")
				return
			}
			patch.ScheduledDeparture = &t
		}
		if req.ScheduledArrival != nil {
			t, err := parseRFC3339(*req.ScheduledArrival)
			if err != nil {
				badRequest(c, "invalid scheduled_arrival (RFC3339)")
				return
			}
			patch.ScheduledArrival = &t
		}
		if req.Status != nil {
			status := domain.FlightStatus(strings.ToUpper(*req.Status))
			switch status {
			case domain.FlightScheduled, domain.FlightDelayed, domain.FlightBoarding,
				domain.FlightDeparted, domain.FlightArrived, domain.FlightCancelled:
			default:
				badRequest(c, "invalid status")
				return
			}
			patch.Status = &status
		}

		out, err := svcs.Admin.UpdateFlight(c.Request.Context(), flightID, patch)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toFlightResponse(*out))
	}
}

// @Summary  Create announcement
// @Param    req  body  CreateAnnouncementRequest  true  "payload"
// @Success  201  {object}  AnnouncementResponse
// @Failure  404  {object}  ErrorResponse  "flight not found"
// @Router   /staff/announcements [post]
func handleCreateAnnouncement(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAnnouncementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		out, err := svcs.Admin.CreateAnnouncement(c.Request.Context(), domain.Announcement{
			FlightID: req.FlightID,
			Type:     domain.AnnouncementType(req.Type),
			Message:  req.Message,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toAnnouncementResponse(*out))
	}
}

// @Summary  List all bookings
// @Param    flight_id  query  int  false  "filter by flight"
// @Success  200  {array}  BookingResponse
// @Router   /staff/bookings [get]
func handleStaffListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var flightID int64
		if s := c.Query("flight_id"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				badRequest(c, "invalid flight_id")
				return
			}
			flightID = v
		}

		out, err := svcs.Admin.ListBookings(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]BookingResponse, 0, len(out))
		for _, b := range out {
			resp = append(resp, toBookingResponse(b.Booking, b.Tickets))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Force-cancel any booking
// @Param    id  path  int  true  "Booking ID"
// @Success  200  {object}  BookingResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /staff/bookings/{id} [delete]
func handleStaffCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		out, err := svcs.Admin.CancelBooking(c.Request.Context(), bookingID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(*out, nil))
	}
}

// @Summary  Reassign a ticket's seat
// @Param    id        path  int                  true  "Booking ID"
// @Param    ticketId  path  int                  true  "Ticket ID"
// @Param    req       body  ReassignSeatRequest  true  "payload"
// @Success  200  {object}  TicketResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse  "seat already booked"
// @Router   /staff/bookings/{id}/tickets/{ticketId}/seat [put]
func handleReassignSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		ticketID, ok := parseInt64Param(c, "ticketId")
		if !ok {
			return
		}

		var req ReassignSeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		seat := strings.ToUpper(strings.TrimSpace(req.SeatNumber))

		out, err := svcs.Admin.ReassignSeat(c.Request.Context(), bookingID, ticketID, seat)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, TicketResponse{
			ID:                 out.ID,
			TicketNumber:       out.TicketNumber,
			BookingID:          out.BookingID,
			PassengerProfileID: out.PassengerProfileID,
			SeatNumber:         out.SeatNumber,
		})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var seatTaken booking.SeatTakenError
	var adminSeatTaken admin.SeatTakenError
	var profileNotOwned booking.ProfileNotOwnedError
	var badTemplate admin.InvalidTemplateError

	switch {
	// booking service
	case errors.As(err, &seatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: seatTaken.Error()})
		return
	case errors.As(err, &profileNotOwned):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: profileNotOwned.Error()})
		return
	case errors.Is(err, booking.ErrNoSelections):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no seat selections provided"})
		return
	case errors.Is(err, booking.ErrProfileRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "passenger profile required"})
		return
	case errors.Is(err, booking.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	case errors.Is(err, booking.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many booking attempts"})
		return
	// payments service
	case errors.Is(err, payments.ErrMissingToken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "idempotency token required"})
		return
	case errors.Is(err, payments.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, payments.ErrBookingCancelled):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "cannot pay for a cancelled booking"})
		return
	case errors.Is(err, payments.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "payment already processed"})
		return
	// check-in service
	case errors.Is(err, checkin.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	case errors.Is(err, checkin.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	case errors.Is(err, checkin.ErrTooEarly):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "check-in opens 24 hours before departure"})
		return
	case errors.Is(err, checkin.ErrTooLate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "check-in closes 1 hour before departure"})
		return
	// flights service
	case errors.Is(err, flights.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
		return
	// profiles service
	case errors.Is(err, profiles.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		return
	case errors.Is(err, profiles.ErrNameRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "full name is required"})
		return
	// admin service
	case errors.As(err, &adminSeatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: adminSeatTaken.Error()})
		return
	case errors.As(err, &badTemplate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: badTemplate.Error()})
		return
	case errors.Is(err, admin.ErrAirplaneConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "airplane registration already exists"})
		return
	case errors.Is(err, admin.ErrFlightConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight number already exists"})
		return
	case errors.Is(err, admin.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
		return
	case errors.Is(err, admin.ErrBadReference):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "referenced airport or airplane does not exist"})
		return
	case errors.Is(err, admin.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, admin.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
