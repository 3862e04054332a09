package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"syriazone/internal/core/auth"
	"syriazone/internal/domain"
	resp "syriazone/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

const testSecret = "0123456789abcdef0123456789abcdef"

func newJWTer(t *testing.T) *auth.JWTer {
	t.Helper()
	j, err := auth.NewJWTer(testSecret, "syriazone", "syriazone-clients", time.Hour, 0)
	require.NoError(t, err)
	return j
}

func do(r http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) resp.Resp {
	t.Helper()
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthJWT(t *testing.T) {
	j := newJWTer(t)
	r := gin.New()
	r.GET("/me", AuthJWT(j), func(c *gin.Context) {
		a := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"uid": a.UserID, "role": a.Role, "hasStore": a.HasStore})
	})
	r.GET("/admin", AuthJWT(j, domain.RoleSuperAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	vendor, _, err := j.Issue("u-1", string(domain.RoleVendor), true)
	require.NoError(t, err)
	admin, _, err := j.Issue("u-2", string(domain.RoleSuperAdmin), false)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 401, decode(t, w).Code)
	})
	t.Run("garbage token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("foreign key", func(t *testing.T) {
		other, err := auth.NewJWTer(strings.Repeat("z", 32), "syriazone", "syriazone-clients", time.Hour, 0)
		require.NoError(t, err)
		tok, _, err := other.Issue("u-1", "Vendor", false)
		require.NoError(t, err)
		w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + tok})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("claims exposed", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + vendor})
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "u-1", body["uid"])
		assert.Equal(t, "Vendor", body["role"])
		assert.Equal(t, true, body["hasStore"])
	})
	t.Run("role mismatch", func(t *testing.T) {
		w := do(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + vendor})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 403, decode(t, w).Code)
	})
	t.Run("role match", func(t *testing.T) {
		w := do(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + admin})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, http.MethodGet, "/x", nil).Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimitPerIP_Concurrent(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(1000, 1000))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
		}()
	}
	wg.Wait()
}

func TestRateLimit_Global(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0.001, 1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	w := do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 429, decode(t, w).Code)
}

func TestTimeout_Returns504(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	w := do(r, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "timeout", decode(t, w).Msg)
}

func TestTimeout_DeadlinePropagates(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/x", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := do(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "internal error", body.Msg)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.GreaterOrEqual(t, logs.Len(), 1)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := do(r, http.MethodGet, "/x", map[string]string{KeyRequestID: "abc"})
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	w = do(r, http.MethodGet, "/x", nil)
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 32)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestConcurrencyLimit_CancelledWaiter(t *testing.T) {
	r := gin.New()
	hold := make(chan struct{})
	entered := make(chan struct{})
	r.Use(ConcurrencyLimit(1))
	r.GET("/x", func(c *gin.Context) {
		close(entered)
		<-hold
		c.Status(http.StatusOK)
	})

	done := make(chan int)
	go func() { done <- do(r, http.MethodGet, "/x", nil).Code }()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(hold)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestAccessLog_MasksAndCarriesErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		resp.Abort(c, resp.CodeServerError, "internal error")
	})

	do(r, http.MethodGet, "/x?token=abc&page=2", nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	ctx := entry.ContextMap()
	assert.Equal(t, "HTTP", entry.Message)
	assert.EqualValues(t, 500, ctx["status"])
	assert.Contains(t, ctx["errors"], assert.AnError.Error())
	q := ctx["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["token"])
	assert.Equal(t, []string{"2"}, q["page"])
	assert.NotEmpty(t, ctx["rid"])
}
