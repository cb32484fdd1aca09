package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
	"github.com/akashbonde99/CarRentalServicesProject/internal/ports"
)

type bookingService struct {
	repo  ports.BookingRepository
	cars  ports.CarCatalog
	users ports.UserDirectory
}

func NewBookingService(repo ports.BookingRepository, cars ports.CarCatalog, users ports.UserDirectory) *bookingService {
	return &bookingService{
		repo:  repo,
		cars:  cars,
		users: users,
	}
}

// CreateBooking runs the full precondition chain and inserts a PENDING
// booking. The car itself is never locked to a status; availability is
// derived from the overlap query over active bookings so one car can serve
// multiple non-overlapping reservations.
func (s *bookingService) CreateBooking(ctx context.Context, actingUserID int64, request *models.BookingRequest) (*models.Booking, error) {
	user, err := s.users.GetUserByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if !user.HasVerifiedLicence() {
		return nil, models.ErrLicenseMissing
	}

	car, err := s.cars.GetCarByID(ctx, request.CarID)
	if err != nil {
		return nil, err
	}

	if err := validateDates(request.PickupDate, request.DropDate); err != nil {
		return nil, err
	}

	if request.PickupCity != "" && !strings.EqualFold(request.PickupCity, car.City) {
		return nil, &models.LocationMismatchError{City: car.City}
	}

	conflict, err := s.repo.HasOverlappingBooking(ctx, car.ID, request.PickupDate, request.DropDate)
	if err != nil {
		return nil, fmt.Errorf("error checking car availability: %w", err)
	}
	if conflict {
		return nil, models.ErrCarUnavailable
	}

	booking := &models.Booking{
		User:          *user,
		Car:           *car,
		PickupDate:    request.PickupDate,
		DropDate:      request.DropDate,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   Price(request.PickupDate, request.DropDate, car.PricePerDay),
		CreatedAt:     time.Now().UTC(),
	}

	saved, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBookingByID(ctx, id)
}

func (s *bookingService) AllBookings(ctx context.Context) (*models.AllBookingsResponse, error) {
	bookings, err := s.repo.GetBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	return toResponse(bookings), nil
}

func (s *bookingService) BookingsByUser(ctx context.Context, userID int64) (*models.AllBookingsResponse, error) {
	bookings, err := s.repo.GetBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	return toResponse(bookings), nil
}

func (s *bookingService) BookingsForCaller(ctx context.Context, actingUserID int64) (*models.AllBookingsResponse, error) {
	user, err := s.users.GetUserByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	return s.BookingsByUser(ctx, user.ID)
}

// UpdateStatus is the administrative approve/reject path. Re-entering PENDING
// or leaving a terminal state is rejected.
func (s *bookingService) UpdateStatus(ctx context.Context, id int64, statusName string) (*models.Booking, error) {
	status, err := models.ParseBookingStatus(statusName)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, booking.Status, status)
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, booking.Status, status); err != nil {
		return nil, err
	}
	booking.Status = status
	return booking, nil
}

// CancelBooking requires the caller to be the booking's owner or an admin.
// Cancelling a PAID booking does not trigger a refund.
func (s *bookingService) CancelBooking(ctx context.Context, id, actingUserID int64) (*models.Booking, error) {
	caller, err := s.users.GetUserByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.ID != booking.User.ID && !caller.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	switch booking.Status {
	case models.StatusCancelled:
		return nil, models.ErrAlreadyCancelled
	case models.StatusRejected:
		return nil, models.ErrAlreadyRejected
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, booking.Status, models.StatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.StatusCancelled
	return booking, nil
}

// validateDates rejects past pickups and ranges that are not at least one
// whole day, so the pricing calculator never needs to clamp.
func validateDates(pickup, drop models.Date) error {
	if pickup.IsZero() || drop.IsZero() {
		return models.ErrInvalidDateRange
	}
	if pickup.Before(models.Today().Time) {
		return fmt.Errorf("%w: pickup date is in the past", models.ErrInvalidDateRange)
	}
	if !drop.After(pickup.Time) {
		return fmt.Errorf("%w: drop date must be after pickup date", models.ErrInvalidDateRange)
	}
	return nil
}

func toResponse(bookings []models.Booking) *models.AllBookingsResponse {
	response := &models.AllBookingsResponse{
		Bookings: make([]models.BookingResponse, len(bookings)),
	}
	for i, booking := range bookings {
		response.Bookings[i] = models.BookingResponse{Booking: booking}
	}
	return response
}
