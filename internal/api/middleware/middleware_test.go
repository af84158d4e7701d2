package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ingredient-engine/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterKeepsFractionalTokens(t *testing.T) {
	t.Parallel()
	now := time.Unix(0, 0)
	rl := NewRateLimiter(2, 2*time.Second)
	rl.now = func() time.Time { return now }
	rl.lastTime = now

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	// two half-second steps add up to one token
	now = now.Add(500 * time.Millisecond)
	assert.False(t, rl.Allow())
	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow())
}

func TestOwner(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "header", header: "alice", want: "alice"},
		{name: "missing", header: "", want: DefaultOwner},
		{name: "blank", header: "   ", want: DefaultOwner},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(Owner())
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, OwnerID(c)) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(OwnerHeader, tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestDeduplication(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(Owner())
	calls := 0
	r.POST("/imports", Deduplication(time.Minute), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	send := func(owner, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/imports", strings.NewReader(body))
		req.Header.Set(OwnerHeader, owner)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice", `{"a":1}`))
	assert.Equal(t, http.StatusTooManyRequests, send("alice", `{"a":1}`))
	assert.Equal(t, http.StatusOK, send("alice", `{"a":2}`))
	assert.Equal(t, http.StatusOK, send("bob", `{"a":1}`))
	assert.Equal(t, 3, calls)
}

func TestDeduplicationReleasesFailedRequests(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(Owner())
	fail := true
	calls := 0
	r.POST("/imports", Deduplication(time.Minute), func(c *gin.Context) {
		calls++
		if fail {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/imports", strings.NewReader(`{"a":1}`)))
		return w
	}

	assert.Equal(t, http.StatusServiceUnavailable, send().Code)
	fail = false
	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeTooManyRequests)
	assert.Equal(t, 2, calls)
}

func TestRateLimitResponse(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(RateLimit(1, time.Hour))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), common.ErrCodeTooManyRequests)
}

func TestTimeout(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodySizeLimit(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
