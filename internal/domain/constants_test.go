package domain_test

import (
	"testing"

	"keyroute/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidTripTransition(t *testing.T) {
	cases := []struct {
		old, new string
		want     bool
	}{
		{domain.TripStatusNotStarted, domain.TripStatusOngoing, true},
		{domain.TripStatusNotStarted, domain.TripStatusCancelled, true},
		{domain.TripStatusNotStarted, domain.TripStatusCompleted, false},
		{domain.TripStatusOngoing, domain.TripStatusCompleted, true},
		{domain.TripStatusOngoing, domain.TripStatusCancelled, true},
		{domain.TripStatusOngoing, domain.TripStatusNotStarted, false},
		{domain.TripStatusCompleted, domain.TripStatusCancelled, false},
		{domain.TripStatusCancelled, domain.TripStatusOngoing, false},
		{domain.TripStatusOngoing, domain.TripStatusOngoing, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, domain.ValidTripTransition(c.old, c.new), "%s -> %s", c.old, c.new)
	}
}

func TestValidBookingType(t *testing.T) {
	assert.True(t, domain.ValidBookingType(domain.BookingTypeBus))
	assert.True(t, domain.ValidBookingType(domain.BookingTypePackage))
	assert.False(t, domain.ValidBookingType("hotel"))
	assert.False(t, domain.ValidBookingType(""))
}
