package service

import (
	models "github.com/akashbonde99/CarRentalServicesProject/internal"
)

// Price computes the total rental cost as whole days between pickup and drop
// times the daily rate. Callers must have rejected ranges where drop is not
// strictly after pickup, so no minimum-day clamp is applied here.
func Price(pickup, drop models.Date, dailyRate float64) float64 {
	return float64(pickup.DaysUntil(drop)) * dailyRate
}
