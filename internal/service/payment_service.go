package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
	"github.com/akashbonde99/CarRentalServicesProject/internal/ports"
)

type paymentService struct {
	repo     ports.BookingRepository
	verifier ports.SignatureVerifier
}

func NewPaymentService(repo ports.BookingRepository, verifier ports.SignatureVerifier) *paymentService {
	return &paymentService{
		repo:     repo,
		verifier: verifier,
	}
}

// RecordPayment stores a verified gateway result and moves the booking from
// PENDING to PAID. The gateway protocol itself lives outside this core; the
// verifier is an opaque yes/no oracle over the signature.
func (s *paymentService) RecordPayment(ctx context.Context, request *models.PaymentRequest) (*models.Payment, error) {
	if !s.verifier.Verify(request.OrderID, request.PaymentID, request.Signature) {
		return nil, models.ErrPaymentFailed
	}

	booking, err := s.repo.GetBookingByID(ctx, request.BookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(models.StatusPaid) {
		return nil, fmt.Errorf("%w: cannot record payment for %s booking", models.ErrInvalidTransition, booking.Status)
	}

	payment := &models.Payment{
		BookingID:   booking.ID,
		Amount:      request.Amount,
		PaymentDate: models.Today(),
		Status:      models.PaymentSuccess,
		Mode:        request.Mode,
		OrderID:     request.OrderID,
		PaymentID:   request.PaymentID,
		Receipt:     uuid.NewString(),
	}

	saved, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *paymentService) PaymentByBooking(ctx context.Context, bookingID int64) (*models.Payment, error) {
	return s.repo.GetPaymentByBookingID(ctx, bookingID)
}
