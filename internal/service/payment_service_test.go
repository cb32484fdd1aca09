package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
	"github.com/akashbonde99/CarRentalServicesProject/internal/mocks"
	"github.com/akashbonde99/CarRentalServicesProject/internal/service"
)

func paymentRequest() *models.PaymentRequest {
	return &models.PaymentRequest{
		BookingID: bookingID,
		Amount:    300,
		Mode:      "UPI",
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "deadbeef",
	}
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("verified payment moves booking to PAID", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		verifier := new(mocks.MockSignatureVerifier)
		svc := service.NewPaymentService(mockRepo, verifier)

		request := paymentRequest()
		verifier.On("Verify", "order_123", "pay_456", "deadbeef").Return(true)
		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(&models.Booking{ID: bookingID, Status: models.StatusPending, TotalAmount: 300}, nil)
		mockRepo.On("CreatePayment", ctx, mock.AnythingOfType("*models.Payment")).
			Return(&models.Payment{ID: 1, BookingID: bookingID, Amount: 300, Status: models.PaymentSuccess}, nil)

		payment, err := svc.RecordPayment(ctx, request)

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, payment.Status)
		mockRepo.AssertExpectations(t)
		verifier.AssertExpectations(t)

		stored := mockRepo.Calls[1].Arguments.Get(1).(*models.Payment)
		assert.Equal(t, models.PaymentSuccess, stored.Status)
		assert.NotEmpty(t, stored.Receipt)
		assert.Equal(t, "order_123", stored.OrderID)
	})

	t.Run("bad signature", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		verifier := new(mocks.MockSignatureVerifier)
		svc := service.NewPaymentService(mockRepo, verifier)

		request := paymentRequest()
		request.Signature = "forged"
		verifier.On("Verify", "order_123", "pay_456", "forged").Return(false)

		payment, err := svc.RecordPayment(ctx, request)

		assert.Nil(t, payment)
		assert.ErrorIs(t, err, models.ErrPaymentFailed)
		mockRepo.AssertNotCalled(t, "GetBookingByID", mock.Anything, mock.Anything)
	})

	t.Run("booking not payable", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		verifier := new(mocks.MockSignatureVerifier)
		svc := service.NewPaymentService(mockRepo, verifier)

		verifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(true)
		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(&models.Booking{ID: bookingID, Status: models.StatusConfirmed}, nil)

		payment, err := svc.RecordPayment(ctx, paymentRequest())

		assert.Nil(t, payment)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		mockRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("unknown booking", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		verifier := new(mocks.MockSignatureVerifier)
		svc := service.NewPaymentService(mockRepo, verifier)

		verifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(true)
		mockRepo.On("GetBookingByID", ctx, bookingID).Return(nil, models.ErrBookingNotFound)

		payment, err := svc.RecordPayment(ctx, paymentRequest())

		assert.Nil(t, payment)
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})
}

func TestPaymentByBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		svc := service.NewPaymentService(mockRepo, new(mocks.MockSignatureVerifier))

		mockRepo.On("GetPaymentByBookingID", ctx, bookingID).
			Return(&models.Payment{ID: 1, BookingID: bookingID}, nil)

		payment, err := svc.PaymentByBooking(ctx, bookingID)

		assert.NoError(t, err)
		assert.Equal(t, bookingID, payment.BookingID)
	})

	t.Run("missing", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		svc := service.NewPaymentService(mockRepo, new(mocks.MockSignatureVerifier))

		mockRepo.On("GetPaymentByBookingID", ctx, bookingID).Return(nil, models.ErrPaymentNotFound)

		payment, err := svc.PaymentByBooking(ctx, bookingID)

		assert.Nil(t, payment)
		assert.ErrorIs(t, err, models.ErrPaymentNotFound)
	})
}
