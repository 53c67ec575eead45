package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/pkg/config"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem: "subtrack",
	Name:      "http_request_duration_ms",
	Help:      "HTTP request latency in milliseconds.",
	Buckets:   []float64{25, 50, 100, 200, 500, 1000, 2500, 5000, 10000},
}, []string{"method", "path", "status"})

// Middleware records request latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(float64(time.Since(start).Milliseconds()))
	}
}

// RunListener serves /metrics on the configured address, managed by the fx
// lifecycle. A blank address disables it.
func RunListener(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *config.Config) {
	if cfg.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("metrics started", "addr", cfg.MetricsAddr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("metrics server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Invoke(RunListener),
)
