package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
	"github.com/akashbonde99/CarRentalServicesProject/internal/otp"
	"github.com/akashbonde99/CarRentalServicesProject/internal/ports"
	"github.com/akashbonde99/CarRentalServicesProject/internal/utils"
	"github.com/akashbonde99/CarRentalServicesProject/internal/validator"
)

// callerHeader carries the authenticated principal's id, set by the upstream
// gateway. Token mechanics live outside this service.
const callerHeader = "X-User-ID"

func CreateBookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			ae := utils.NewUnauthorized("missing or invalid " + callerHeader + " header")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		var bookingRequest models.BookingRequest
		if err := utils.JsonDecodeBody(r, &bookingRequest); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(bookingRequest); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.CreateBooking(r.Context(), userID, &bookingRequest)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusCreated, models.BookingResponse{Booking: *ans})
	}
}

func GetBookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			ae := utils.NewBadRequest("invalid booking id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.GetBooking(r.Context(), id)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.BookingResponse{Booking: *ans})
	}
}

func AllBookingsHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ans, err := service.AllBookings(r.Context())
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, ans)
	}
}

func MyBookingsHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			ae := utils.NewUnauthorized("missing or invalid " + callerHeader + " header")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.BookingsForCaller(r.Context(), userID)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, ans)
	}
}

func UserBookingsHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "id")
		if err != nil {
			ae := utils.NewBadRequest("invalid user id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.BookingsByUser(r.Context(), userID)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, ans)
	}
}

func UpdateBookingStatusHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			ae := utils.NewBadRequest("invalid booking id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.UpdateStatus(r.Context(), id, mux.Vars(r)["status"])
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.BookingResponse{Booking: *ans})
	}
}

func CancelBookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			ae := utils.NewUnauthorized("missing or invalid " + callerHeader + " header")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			ae := utils.NewBadRequest("invalid booking id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.CancelBooking(r.Context(), id, userID)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.BookingResponse{Booking: *ans})
	}
}

func RecordPaymentHandler(service ports.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var paymentRequest models.PaymentRequest
		if err := utils.JsonDecodeBody(r, &paymentRequest); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(paymentRequest); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.RecordPayment(r.Context(), &paymentRequest)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusCreated, ans)
	}
}

func BookingPaymentHandler(service ports.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			ae := utils.NewBadRequest("invalid booking id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.PaymentByBooking(r.Context(), id)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, ans)
	}
}

func CarsHandler(catalog ports.CarCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.CarFilter{
			City:    r.URL.Query().Get("city"),
			CarType: r.URL.Query().Get("car_type"),
		}

		cars, err := catalog.GetCars(r.Context(), filter)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.AllCarsResponse{Cars: cars})
	}
}

func CarHandler(catalog ports.CarCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			ae := utils.NewBadRequest("invalid car id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		car, err := catalog.GetCarByID(r.Context(), id)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, car)
	}
}

// ForgotPasswordHandler issues a reset code. Delivery of the code is owned by
// the mail pipeline, so only the fact of generation is acknowledged here.
func ForgotPasswordHandler(store otp.Store, users ports.UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.ForgotPasswordRequest
		if err := utils.JsonDecodeBody(r, &request); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(request); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		if _, err := users.GetUserByEmail(r.Context(), request.Email); err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		if _, err := store.Generate(request.Email); err != nil {
			ae := utils.NewInternalServerError("could not generate reset code")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		log.Printf("password reset code generated for %s", request.Email)

		utils.RenderResponse(r, w, http.StatusOK, map[string]string{"message": "reset code generated"})
	}
}

func VerifyOtpHandler(store otp.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.VerifyOtpRequest
		if err := utils.JsonDecodeBody(r, &request); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(request); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		if !store.Verify(request.Email, request.Code) {
			ae := utils.NewBadRequest("invalid or expired otp")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, map[string]bool{"valid": true})
	}
}

// RequireAdmin guards the administrative routes with the caller's role tag.
func RequireAdmin(users ports.UserDirectory, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			ae := utils.NewUnauthorized("missing or invalid " + callerHeader + " header")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		user, err := users.GetUserByID(r.Context(), userID)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		if !user.IsAdmin() {
			ae := utils.NewForbidden("admin role required")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		next(w, r)
	}
}

func callerID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get(callerHeader), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func getApiError(err error) utils.ApiError {
	ae := utils.ApiError{Msg: err.Error()}
	switch {
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrCarNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrPaymentNotFound):
		ae.StatusCode = http.StatusNotFound
	case errors.Is(err, models.ErrLicenseMissing),
		errors.Is(err, models.ErrNotAllowed):
		ae.StatusCode = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrLocationMismatch),
		errors.Is(err, models.ErrPaymentFailed):
		ae.StatusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrCarUnavailable),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrAlreadyCancelled),
		errors.Is(err, models.ErrAlreadyRejected):
		ae.StatusCode = http.StatusConflict
	default:
		ae.StatusCode = http.StatusInternalServerError
	}
	return ae
}
