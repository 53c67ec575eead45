package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/docs"
	"github.com/subwise/subtrack/internal/app/api/handlers"
	mw "github.com/subwise/subtrack/internal/app/api/middleware"
	"github.com/subwise/subtrack/internal/app/service/dispatch"
	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/app/service/renewal"
	subsvc "github.com/subwise/subtrack/internal/app/service/subscription"
	cfgpkg "github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Tracing only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	r.Use(metrics.Middleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config, sub *subsvc.Service, adv *renewal.Service, recon *reminder.Service, disp *dispatch.Service) {
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// User APIs behind bearer auth
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg))
	handlers.RegisterSubscriptionRoutes(apiV1, sub)
	apiV1.POST("/sync", handlers.ApiSync(adv, recon))

	// Admin APIs
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), sub)

	// Batch trigger, guarded by the shared cron secret instead of user auth
	jobs := r.Group("/internal/jobs")
	jobs.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.CronSecretMiddleware(cfg))
	jobs.POST("/run", handlers.ApiRunJobs(adv, recon, disp, log))
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
