package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusConnected = "connected"
	statusError     = "error"
	statusDisabled  = "disabled"
)

type healthBody struct {
	OK          bool             `json:"ok"`
	DB          string           `json:"db"`
	Redis       string           `json:"redis"`
	DeadLetters map[string]int64 `json:"dead_letters,omitempty"`
}

func probe(err error) string {
	if err != nil {
		return statusError
	}
	return statusConnected
}

// Health reports store and queue connectivity. A nil rdb means the job queue
// is disabled, which does not make the service unhealthy.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := healthBody{DB: probe(pingDB(ctx, db)), Redis: statusDisabled}
		if rdb != nil {
			body.Redis = probe(rdb.Ping(ctx).Err())
			if body.Redis == statusConnected {
				body.DeadLetters, _ = worker.DLQLengths(ctx, rdb)
			}
		}

		body.OK = body.DB == statusConnected && body.Redis != statusError
		code := http.StatusOK
		if !body.OK {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, body)
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
