package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/mess/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/mess/:id", "200"))
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mess/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/mess/:id", "200"))
	assert.Equal(t, 2.0, after-before)
	assert.Zero(t, testutil.ToFloat64(httpInFlight))
}

func TestDomainCounters(t *testing.T) {
	added := testutil.ToFloat64(favoriteToggles.WithLabelValues("added"))
	removed := testutil.ToFloat64(favoriteToggles.WithLabelValues("removed"))
	RecordFavoriteToggle(true)
	RecordFavoriteToggle(false)
	RecordFavoriteToggle(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(favoriteToggles.WithLabelValues("added"))-added)
	assert.Equal(t, 2.0, testutil.ToFloat64(favoriteToggles.WithLabelValues("removed"))-removed)

	hits := testutil.ToFloat64(cacheRequests.WithLabelValues("hit"))
	RecordCacheLookup(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(cacheRequests.WithLabelValues("hit"))-hits)

	reviews := testutil.ToFloat64(reviewsCreated)
	RecordReviewCreated()
	assert.Equal(t, 1.0, testutil.ToFloat64(reviewsCreated)-reviews)
}

func TestHandlerExposesNamespace(t *testing.T) {
	RecordOfferClaimed()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "campusmess_offers_claimed_total"))
}
