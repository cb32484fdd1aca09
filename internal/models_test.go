package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
)

func TestDate(t *testing.T) {
	t.Run("marshals as YYYY-MM-DD", func(t *testing.T) {
		d := models.NewDate(2026, time.September, 1)
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2026-09-01"`, string(data))
	})

	t.Run("unmarshals from YYYY-MM-DD", func(t *testing.T) {
		var d models.Date
		require.NoError(t, json.Unmarshal([]byte(`"2026-09-01"`), &d))
		assert.Equal(t, models.NewDate(2026, time.September, 1), d)
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		var d models.Date
		assert.Error(t, json.Unmarshal([]byte(`"01/09/2026"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`"2026-09-01T00:00:00Z"`), &d))
	})

	t.Run("null leaves the zero value", func(t *testing.T) {
		var d models.Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())
	})

	t.Run("truncates timestamps to the calendar day", func(t *testing.T) {
		d := models.DateOf(time.Date(2026, time.September, 1, 23, 59, 59, 0, time.FixedZone("IST", 5*3600+1800)))
		assert.Equal(t, "2026-09-01", d.String())
	})

	t.Run("whole days between dates", func(t *testing.T) {
		pickup := models.NewDate(2026, time.September, 1)
		assert.Equal(t, 3, pickup.DaysUntil(pickup.AddDays(3)))
		assert.Equal(t, 0, pickup.DaysUntil(pickup))
		assert.Equal(t, -1, pickup.DaysUntil(pickup.AddDays(-1)))
	})
}

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.BookingStatus
		wantErr bool
	}{
		{in: "PENDING", want: models.StatusPending},
		{in: "paid", want: models.StatusPaid},
		{in: " Confirmed ", want: models.StatusConfirmed},
		{in: "REJECTED", want: models.StatusRejected},
		{in: "cancelled", want: models.StatusCancelled},
		{in: "bogus", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseBookingStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingTransitions(t *testing.T) {
	allowed := map[models.BookingStatus][]models.BookingStatus{
		models.StatusPending:   {models.StatusPaid, models.StatusConfirmed, models.StatusRejected, models.StatusCancelled},
		models.StatusPaid:      {models.StatusConfirmed, models.StatusCancelled},
		models.StatusConfirmed: {models.StatusCancelled},
		models.StatusRejected:  {},
		models.StatusCancelled: {},
	}
	all := []models.BookingStatus{
		models.StatusPending, models.StatusPaid, models.StatusConfirmed,
		models.StatusRejected, models.StatusCancelled,
	}

	for from, targets := range allowed {
		ok := make(map[models.BookingStatus]bool, len(targets))
		for _, target := range targets {
			ok[target] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, models.StatusPending.IsActive())
	assert.True(t, models.StatusPaid.IsActive())
	assert.True(t, models.StatusConfirmed.IsActive())
	assert.False(t, models.StatusRejected.IsActive())
	assert.False(t, models.StatusCancelled.IsActive())

	assert.True(t, models.StatusRejected.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.False(t, models.StatusPending.IsTerminal())

	assert.Len(t, models.ActiveStatuses, 3)
}

func TestUserChecks(t *testing.T) {
	assert.True(t, models.User{Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, models.User{Role: models.RoleCustomer}.IsAdmin())

	assert.True(t, models.User{DrivingLicence: "MH12", HasLicenceImage: true}.HasVerifiedLicence())
	assert.False(t, models.User{DrivingLicence: "MH12"}.HasVerifiedLicence())
	assert.False(t, models.User{HasLicenceImage: true}.HasVerifiedLicence())
}
