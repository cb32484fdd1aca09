package models

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to and from
// ISO 8601 YYYY-MM-DD and always lives in UTC.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

func Today() Date {
	return DateOf(time.Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days between d and other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"   // created, payment not done
	StatusPaid      BookingStatus = "PAID"      // payment successful
	StatusConfirmed BookingStatus = "CONFIRMED" // approved by admin
	StatusRejected  BookingStatus = "REJECTED"  // rejected by admin, terminal
	StatusCancelled BookingStatus = "CANCELLED" // cancelled, terminal
)

// ActiveStatuses are the statuses that block overlapping reservations on a car.
var ActiveStatuses = []BookingStatus{StatusPending, StatusPaid, StatusConfirmed}

// bookingTransitions is the full state machine. There is no transition back
// into PENDING and terminal states have no outgoing edges.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusPaid, StatusConfirmed, StatusRejected, StatusCancelled},
	StatusPaid:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

// ParseBookingStatus matches name case-insensitively against the enum.
func ParseBookingStatus(name string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(name)))
	switch status {
	case StatusPending, StatusPaid, StatusConfirmed, StatusRejected, StatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusPaid || s == StatusConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentCreated PaymentStatus = "CREATED" // gateway order created
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// CarStatus is catalog metadata maintained by the fleet administrators.
// Availability for a date range is always derived from the overlap query over
// active bookings, never from this flag.
type CarStatus string

const (
	CarAvailable CarStatus = "AVAILABLE"
	CarBooked    CarStatus = "BOOKED"
)

type User struct {
	ID              int64  `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	DrivingLicence  string `json:"driving_licence,omitempty"`
	HasLicenceImage bool   `json:"has_licence_image"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasVerifiedLicence reports whether a licence number and its image are on file.
func (u User) HasVerifiedLicence() bool {
	return u.DrivingLicence != "" && u.HasLicenceImage
}

type Car struct {
	ID                 int64     `json:"car_id"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	RegistrationNumber string    `json:"registration_number"`
	Status             CarStatus `json:"status"`
	City               string    `json:"city"`
	PickupAddress      string    `json:"pickup_address"`
	Description        string    `json:"description,omitempty"`
	PricePerDay        float64   `json:"price_per_day"`
	SeatingCapacity    int       `json:"seating_capacity"`
	FuelType           string    `json:"fuel_type"`
	CarType            string    `json:"car_type"`
	MapURL             string    `json:"map_url,omitempty"`
}

type Booking struct {
	ID            int64         `json:"booking_id"`
	User          User          `json:"user"`
	Car           Car           `json:"car"`
	PickupDate    Date          `json:"pickup_date"`
	DropDate      Date          `json:"drop_date"`
	Status        BookingStatus `json:"booking_status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   float64       `json:"total_amount"`
	CreatedAt     time.Time     `json:"created_at"`
}

type Payment struct {
	ID          int64         `json:"payment_id"`
	BookingID   int64         `json:"booking_id"`
	Amount      float64       `json:"amount"`
	PaymentDate Date          `json:"payment_date"`
	Status      PaymentStatus `json:"payment_status"`
	Mode        string        `json:"payment_mode,omitempty"`
	OrderID     string        `json:"order_id,omitempty"`
	PaymentID   string        `json:"gateway_payment_id,omitempty"`
	Receipt     string        `json:"receipt"`
}

type BookingRequest struct {
	CarID      int64  `json:"car_id" validate:"required,gt=0"`
	PickupDate Date   `json:"pickup_date" validate:"required"`
	DropDate   Date   `json:"drop_date" validate:"required"`
	PickupCity string `json:"pickup_city,omitempty" validate:"omitempty,max=60"`
}

type PaymentRequest struct {
	BookingID int64   `json:"booking_id" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Mode      string  `json:"payment_mode" validate:"omitempty,oneof=CARD UPI NETBANKING"`
	OrderID   string  `json:"order_id" validate:"required"`
	PaymentID string  `json:"gateway_payment_id" validate:"required"`
	Signature string  `json:"signature" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required,len=6"`
}

type BookingResponse struct {
	Booking
}

type AllBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

type AllCarsResponse struct {
	Cars []Car `json:"cars"`
}

// CarFilter narrows catalog listings. Zero values mean no filtering.
type CarFilter struct {
	City    string
	CarType string
}
