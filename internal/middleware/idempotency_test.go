package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func performPost(r *gin.Engine, idempKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payrolls", nil)
	if idempKey != "" {
		req.Header.Set("Idempotency-Key", idempKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cacheKey := "idemp:/payrolls::key-123"
	lockKey := cacheKey + ":lock"

	t.Run("without a key the request passes through untouched", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		defer db.Close()

		r := gin.New()
		handled := false
		r.POST("/payrolls", middleware.Idempotency(db), func(c *gin.Context) {
			handled = true
			c.JSON(http.StatusCreated, gin.H{"id": "p1"})
		})

		w := performPost(r, "")
		assert.True(t, handled)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request takes the lock and reaches the handler", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		defer db.Close()

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)

		r := gin.New()
		r.POST("/payrolls", middleware.Idempotency(db), func(c *gin.Context) {
			assert.Equal(t, cacheKey, c.GetString("idempotency_cache_key"))
			assert.Equal(t, lockKey, c.GetString("idempotency_lock_key"))
			c.JSON(http.StatusCreated, gin.H{"id": "p1"})
		})

		w := performPost(r, "key-123")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is told to wait", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		defer db.Close()

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		r := gin.New()
		r.POST("/payrolls", middleware.Idempotency(db), func(c *gin.Context) {
			t.Fatal("handler must not run while the lock is held")
		})

		w := performPost(r, "key-123")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finished request is replayed from cache", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		defer db.Close()

		cached, _ := json.Marshal(gin.H{"id": "p1"})
		mock.ExpectGet(cacheKey).SetVal(string(cached))

		r := gin.New()
		r.POST("/payrolls", middleware.Idempotency(db), func(c *gin.Context) {
			t.Fatal("handler must not run for a cached response")
		})

		w := performPost(r, "key-123")
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Status string `json:"status"`
			Data   struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, "p1", body.Data.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
