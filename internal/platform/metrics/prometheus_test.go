package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilManagerIsSafe(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.UserRegistered()
		m.ListingCreated()
		m.NotificationCreated("interest")
		m.ObserveHTTP(http.MethodGet, "/api/listings", http.StatusOK, time.Millisecond)
	})
}

func TestCountersIncrement(t *testing.T) {
	m := NewMetricsManager("helping_hand_test")

	m.ListingCreated()
	m.ListingCreated()
	m.NotificationCreated("feedback")
	m.ObserveHTTP(http.MethodPost, "/api/listings", http.StatusForbidden, 2*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/api/listings", http.StatusCreated, 2*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ListingsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSentTotal.WithLabelValues("feedback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestErrorsTotal.WithLabelValues(http.MethodPost, "/api/listings", "Forbidden")))
}
