package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
)

var carColumns = []string{
	"id", "brand", "model", "registration_number", "status", "city", "pickup_address",
	"COALESCE(description, '')", "price_per_day", "seating_capacity", "fuel_type", "car_type", "COALESCE(map_url, '')",
}

var userColumns = []string{
	"id", "name", "email", "role", "COALESCE(driving_licence, '')", "licence_image IS NOT NULL",
}

// CatalogRepository serves the read-only car-catalog and user-directory
// lookups. Writes to cars and users happen in the admin tooling, not here.
type CatalogRepository struct {
	db DBConn
}

func NewCatalogRepository(db DBConn) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetCarByID(ctx context.Context, id int64) (*models.Car, error) {
	query, args, err := psql.Select(carColumns...).From("cars").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	car, err := scanCar(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

func (r *CatalogRepository) GetCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	q := psql.Select(carColumns...).From("cars").OrderBy("city", "price_per_day")
	if filter.City != "" {
		q = q.Where(squirrel.ILike{"city": filter.City})
	}
	if filter.CarType != "" {
		q = q.Where(squirrel.Eq{"car_type": filter.CarType})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *CatalogRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return r.getUser(ctx, query, args...)
}

func (r *CatalogRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, err
	}
	return r.getUser(ctx, query, args...)
}

func (r *CatalogRepository) getUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.DrivingLicence, &user.HasLicenceImage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func scanCar(row pgx.Row) (*models.Car, error) {
	var car models.Car

	err := row.Scan(
		&car.ID, &car.Brand, &car.Model, &car.RegistrationNumber, &car.Status, &car.City,
		&car.PickupAddress, &car.Description, &car.PricePerDay, &car.SeatingCapacity,
		&car.FuelType, &car.CarType, &car.MapURL,
	)
	if err != nil {
		return nil, err
	}
	return &car, nil
}
