package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkin", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return router
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	router := newTestRouter(NewRateLimiter(1, 2))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/checkin", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	router := newTestRouter(NewRateLimiter(1, 1))

	first := httptest.NewRecorder()
	reqA := httptest.NewRequest(http.MethodPost, "/checkin", nil)
	reqA.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(first, reqA)
	assert.Equal(t, http.StatusOK, first.Code)

	blocked := httptest.NewRecorder()
	reqA2 := httptest.NewRequest(http.MethodPost, "/checkin", nil)
	reqA2.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(blocked, reqA2)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

	// A different client keeps its own bucket.
	other := httptest.NewRecorder()
	reqB := httptest.NewRequest(http.MethodPost, "/checkin", nil)
	reqB.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(other, reqB)
	assert.Equal(t, http.StatusOK, other.Code)
}
