package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subwise/subtrack/internal/app/api/server"
	"github.com/subwise/subtrack/internal/app/service/dispatch"
	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/app/service/renewal"
	"github.com/subwise/subtrack/internal/app/service/subscription"
	"github.com/subwise/subtrack/internal/platform/db"
	"github.com/subwise/subtrack/internal/platform/email"
	"github.com/subwise/subtrack/internal/platform/scheduler"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/logger"
	"github.com/subwise/subtrack/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	store.Module,
	email.Module,
	server.Module,
	metrics.Module,
	subscription.Module,
	renewal.Module,
	reminder.Module,
	dispatch.Module,
	scheduler.Module,
)
