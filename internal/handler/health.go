package handler

import (
	"context"
	"net/http"
	"time"

	"bistro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Root is the plain-text liveness probe.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "Bistro Running!")
}

// Health returns a JSON health check response.
// A nil mongo client is reported as "not configured" (tests); a nil Redis
// client means the cache and workers are disabled, which is not an error.
func Health(client *mongo.Client, rdb *redis.Client, breaker func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "not configured"
		if client != nil {
			dbStatus = "connected"
			if client.Ping(ctx, readpref.Primary()) != nil {
				dbStatus = "error"
			}
		}

		body := gin.H{"db": dbStatus}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else {
				dlq := gin.H{}
				for _, q := range []string{worker.QueueReceipt, worker.QueueEmail} {
					if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
						dlq[q] = n
					}
				}
				body["dlq"] = dlq
			}
		}
		body["redis"] = redisStatus

		if breaker != nil {
			body["payment_breaker"] = breaker()
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK

		c.JSON(status, body)
	}
}
