package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
	"github.com/akashbonde99/CarRentalServicesProject/internal/validator"
)

func TestValidateBookingRequest(t *testing.T) {
	v := validator.NewCustomValidator()
	pickup := models.NewDate(2030, time.January, 1)

	t.Run("valid request", func(t *testing.T) {
		request := models.BookingRequest{
			CarID:      3,
			PickupDate: pickup,
			DropDate:   pickup.AddDays(3),
			PickupCity: "Pune",
		}
		assert.NoError(t, v.Validate(request))
	})

	t.Run("missing car id", func(t *testing.T) {
		request := models.BookingRequest{
			PickupDate: pickup,
			DropDate:   pickup.AddDays(3),
		}
		assert.Error(t, v.Validate(request))
	})

	t.Run("zero dates", func(t *testing.T) {
		request := models.BookingRequest{CarID: 3}
		assert.Error(t, v.Validate(request))
	})
}

func TestValidatePaymentRequest(t *testing.T) {
	v := validator.NewCustomValidator()

	valid := models.PaymentRequest{
		BookingID: 99,
		Amount:    300,
		Mode:      "UPI",
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "deadbeef",
	}

	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, v.Validate(valid))
	})

	t.Run("mode is optional", func(t *testing.T) {
		request := valid
		request.Mode = ""
		assert.NoError(t, v.Validate(request))
	})

	t.Run("unknown mode", func(t *testing.T) {
		request := valid
		request.Mode = "CHEQUE"
		assert.Error(t, v.Validate(request))
	})

	t.Run("zero amount", func(t *testing.T) {
		request := valid
		request.Amount = 0
		assert.Error(t, v.Validate(request))
	})

	t.Run("missing signature", func(t *testing.T) {
		request := valid
		request.Signature = ""
		assert.Error(t, v.Validate(request))
	})
}

func TestValidateAuthRequests(t *testing.T) {
	v := validator.NewCustomValidator()

	t.Run("forgot password needs a real email", func(t *testing.T) {
		assert.NoError(t, v.Validate(models.ForgotPasswordRequest{Email: "asha@example.com"}))
		assert.Error(t, v.Validate(models.ForgotPasswordRequest{Email: "not-an-email"}))
		assert.Error(t, v.Validate(models.ForgotPasswordRequest{}))
	})

	t.Run("otp must be six digits long", func(t *testing.T) {
		assert.NoError(t, v.Validate(models.VerifyOtpRequest{Email: "asha@example.com", Code: "123456"}))
		assert.Error(t, v.Validate(models.VerifyOtpRequest{Email: "asha@example.com", Code: "123"}))
		assert.Error(t, v.Validate(models.VerifyOtpRequest{Email: "asha@example.com"}))
	})
}
