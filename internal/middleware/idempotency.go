package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

type bufferingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated POST carrying the
// same Idempotency-Key, and rejects a concurrent duplicate while the first
// attempt is still in flight.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached struct {
				Status int             `json:"status"`
				Body   json.RawMessage `json:"body"`
			}
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Data(cached.Status, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		// Short lock expiry so a crashed attempt does not wedge the key.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A request with this idempotency key is already being processed",
			})
			return
		}

		writer := &bufferingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		// Only successful outcomes are replayable.
		if writer.Status() < http.StatusInternalServerError {
			stored, err := json.Marshal(map[string]any{
				"status": writer.Status(),
				"body":   json.RawMessage(writer.body.Bytes()),
			})
			if err == nil {
				rdb.Set(c.Request.Context(), cacheKey, stored, idempotencyTTL)
			}
		}
		rdb.Del(c.Request.Context(), lockKey)
	}
}
