package ports

import (
	"context"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	GetBookings(ctx context.Context) ([]models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	HasOverlappingBooking(ctx context.Context, carID int64, pickup, drop models.Date) (bool, error)
	UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetPaymentByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error)
}

// CarCatalog is the externally owned car fleet, consumed read-only.
type CarCatalog interface {
	GetCarByID(ctx context.Context, id int64) (*models.Car, error)
	GetCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error)
}

// UserDirectory resolves authenticated principals, consumed read-only.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actingUserID int64, request *models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	AllBookings(ctx context.Context) (*models.AllBookingsResponse, error)
	BookingsByUser(ctx context.Context, userID int64) (*models.AllBookingsResponse, error)
	BookingsForCaller(ctx context.Context, actingUserID int64) (*models.AllBookingsResponse, error)
	UpdateStatus(ctx context.Context, id int64, statusName string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id, actingUserID int64) (*models.Booking, error)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, request *models.PaymentRequest) (*models.Payment, error)
	PaymentByBooking(ctx context.Context, bookingID int64) (*models.Payment, error)
}

// SignatureVerifier is the opaque gateway signature oracle.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// SignatureVerifierFunc adapts a plain function to SignatureVerifier.
type SignatureVerifierFunc func(orderID, paymentID, signature string) bool

func (f SignatureVerifierFunc) Verify(orderID, paymentID, signature string) bool {
	return f(orderID, paymentID, signature)
}
