package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusRejectsUnknown(t *testing.T) {
	var b Booking
	err := json.Unmarshal([]byte(`{"id":"1","status":"Lost"}`), &b)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"id":"1","status":null}`), &b)
	assert.Error(t, err)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","status":"In Progress"}`), &b))
	assert.Equal(t, StatusInProgress, b.Status)
	assert.True(t, b.Status.IsActive())
}

func TestRatingAndPaymentVisibility(t *testing.T) {
	five := 5.0
	zero := 0.0
	paid := "captured"

	b := Booking{Status: StatusAccepted, Rating: &five}
	assert.False(t, b.RatingShown())

	b.Status = StatusCompleted
	assert.True(t, b.RatingShown())

	b.Rating = &zero
	assert.False(t, b.RatingShown())

	b.PaymentStatus = &paid
	assert.False(t, b.PaymentStatusShown())
	b.HasPayment = true
	assert.True(t, b.PaymentStatusShown())
}

func TestTimestampAcceptsNaiveISO(t *testing.T) {
	for _, raw := range []string{
		`"2024-03-01T10:30:00"`,
		`"2024-03-01T10:30:00.123456"`,
		`"2024-03-01T10:30:00Z"`,
		`"2024-03-01T10:30:00+05:30"`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, 2024, ts.Year())
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestDeltaAppliesOnlyPresentFields(t *testing.T) {
	status := StatusCompleted
	b := Booking{ID: "b1", ServiceName: "Painting", Price: 700, Status: StatusInProgress}
	BookingDelta{ID: "b1", Status: &status}.Apply(&b)

	assert.Equal(t, StatusCompleted, b.Status)
	assert.Equal(t, "Painting", b.ServiceName)
	assert.Equal(t, 700.0, b.Price)
}
