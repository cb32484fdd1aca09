package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
)

type DBConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"B.id", "B.pickup_date", "B.drop_date", "B.booking_status", "B.payment_status", "B.total_amount", "B.created_at",
	"U.id", "U.name", "U.email", "U.role", "COALESCE(U.driving_licence, '')", "U.licence_image IS NOT NULL",
	"C.id", "C.brand", "C.model", "C.registration_number", "C.status", "C.city", "C.pickup_address",
	"COALESCE(C.description, '')", "C.price_per_day", "C.seating_capacity", "C.fuel_type", "C.car_type", "COALESCE(C.map_url, '')",
}

// overlapQuery implements the inclusive interval-intersection test over the
// active statuses. CANCELLED and REJECTED bookings never block a new range.
const overlapQuery = `
        SELECT EXISTS (
            SELECT 1 FROM bookings
            WHERE car_id = $1
              AND booking_status IN ('PENDING', 'PAID', 'CONFIRMED')
              AND pickup_date <= $3
              AND drop_date >= $2
        )
    `

type BookingRepository struct {
	db DBConn
}

func NewBookingRepository(db DBConn) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateBooking inserts a new PENDING booking. The availability re-check and
// the insert run in one serializable transaction so two concurrent requests
// cannot both observe a free range and both insert; the exclusion constraint
// on the bookings table is the last-resort backstop.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var conflict bool
	err = tx.QueryRow(ctx, overlapQuery, booking.Car.ID, booking.PickupDate.Time, booking.DropDate.Time).Scan(&conflict)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, models.ErrCarUnavailable
	}

	booking.Status = models.StatusPending
	booking.PaymentStatus = models.PaymentPending
	booking.CreatedAt = time.Now().UTC()

	query, args, err := psql.Insert("bookings").
		Columns("user_id", "car_id", "pickup_date", "drop_date", "booking_status", "payment_status", "total_amount", "created_at").
		Values(booking.User.ID, booking.Car.ID, booking.PickupDate.Time, booking.DropDate.Time,
			booking.Status, booking.PaymentStatus, booking.TotalAmount, booking.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&booking.ID); err != nil {
		if isExclusionViolation(err) {
			return nil, models.ErrCarUnavailable
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query, args, err := bookingSelect().Where(squirrel.Eq{"B.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookings(ctx context.Context) ([]models.Booking, error) {
	query, args, err := bookingSelect().OrderBy("B.created_at DESC", "B.id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryBookings(ctx, query, args...)
}

func (r *BookingRepository) GetBookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	query, args, err := bookingSelect().
		Where(squirrel.Eq{"B.user_id": userID}).
		OrderBy("B.created_at DESC", "B.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryBookings(ctx, query, args...)
}

func (r *BookingRepository) HasOverlappingBooking(ctx context.Context, carID int64, pickup, drop models.Date) (bool, error) {
	var conflict bool
	err := r.db.QueryRow(ctx, overlapQuery, carID, pickup.Time, drop.Time).Scan(&conflict)
	if err != nil {
		return false, err
	}
	return conflict, nil
}

// UpdateBookingStatus persists a from-to transition. The expected current
// status is part of the predicate, so a transition that raced against a
// concurrent update fails instead of silently overwriting it.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	query, args, err := psql.Update("bookings").
		Set("booking_status", to).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"booking_status": from}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %d is no longer %s", models.ErrInvalidTransition, id, from)
	}
	return nil
}

// CreatePayment stores the gateway result and marks the booking PAID in the
// same transaction, keeping booking status and payment status in step.
func (r *BookingRepository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("payments").
		Columns("booking_id", "amount", "payment_date", "payment_status", "payment_mode", "order_id", "gateway_payment_id", "receipt").
		Values(payment.BookingID, payment.Amount, payment.PaymentDate.Time, payment.Status,
			payment.Mode, payment.OrderID, payment.PaymentID, payment.Receipt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&payment.ID); err != nil {
		return nil, err
	}

	updateQuery := `UPDATE bookings SET booking_status = 'PAID', payment_status = $2 WHERE id = $1 AND booking_status = 'PENDING'`
	tag, err := tx.Exec(ctx, updateQuery, payment.BookingID, payment.Status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: booking %d is no longer PENDING", models.ErrInvalidTransition, payment.BookingID)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *BookingRepository) GetPaymentByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error) {
	query := `
        SELECT id, booking_id, amount, payment_date, payment_status,
               COALESCE(payment_mode, ''), COALESCE(order_id, ''), COALESCE(gateway_payment_id, ''), receipt
        FROM payments
        WHERE booking_id = $1
    `
	var payment models.Payment
	var paymentDate time.Time
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&payment.ID, &payment.BookingID, &payment.Amount, &paymentDate,
		&payment.Status, &payment.Mode, &payment.OrderID, &payment.PaymentID, &payment.Receipt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	payment.PaymentDate = models.DateOf(paymentDate)
	return &payment, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func bookingSelect() squirrel.SelectBuilder {
	return psql.Select(bookingColumns...).
		From("bookings B").
		Join("users U ON U.id = B.user_id").
		Join("cars C ON C.id = B.car_id")
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var pickup, drop time.Time

	err := row.Scan(
		&b.ID, &pickup, &drop, &b.Status, &b.PaymentStatus, &b.TotalAmount, &b.CreatedAt,
		&b.User.ID, &b.User.Name, &b.User.Email, &b.User.Role, &b.User.DrivingLicence, &b.User.HasLicenceImage,
		&b.Car.ID, &b.Car.Brand, &b.Car.Model, &b.Car.RegistrationNumber, &b.Car.Status, &b.Car.City,
		&b.Car.PickupAddress, &b.Car.Description, &b.Car.PricePerDay, &b.Car.SeatingCapacity,
		&b.Car.FuelType, &b.Car.CarType, &b.Car.MapURL,
	)
	if err != nil {
		return nil, err
	}

	b.PickupDate = models.DateOf(pickup)
	b.DropDate = models.DateOf(drop)
	return &b, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
