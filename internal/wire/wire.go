// Package wire provides dependency injection for the taskboard application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"log"
	"sync"

	"go.uber.org/zap"

	"github.com/example/taskboard/internal/adapters/notify"
	"github.com/example/taskboard/internal/adapters/sqlite"
	"github.com/example/taskboard/internal/app"
	"github.com/example/taskboard/internal/config"
	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

var (
	cfg    config.Config
	cfgSet bool

	database *sql.DB
	logger   *zap.SugaredLogger

	ruleService       primary.RuleService
	escalationService primary.EscalationService
	statsService      primary.StatsService

	once sync.Once
)

// SetConfig sets the configuration the singletons are built from. It must be
// called before the first service accessor; without it the defaults apply.
func SetConfig(c config.Config) {
	cfg = c
	cfgSet = true
}

// Config returns the configuration in effect.
func Config() config.Config {
	once.Do(initServices)
	return cfg
}

// Database returns the shared database handle.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// Logger returns the shared structured logger.
func Logger() *zap.SugaredLogger {
	once.Do(initServices)
	return logger
}

// RuleService returns the singleton RuleService instance.
func RuleService() primary.RuleService {
	once.Do(initServices)
	return ruleService
}

// EscalationService returns the singleton EscalationService instance.
func EscalationService() primary.EscalationService {
	once.Do(initServices)
	return escalationService
}

// StatsService returns the singleton StatsService instance.
func StatsService() primary.StatsService {
	once.Do(initServices)
	return statsService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if !cfgSet {
		cfg = config.Default()
	}

	zl, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop().Sugar()
	} else {
		logger = zl.Sugar()
	}

	database, err = db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports)
	ruleRepo := sqlite.NewRuleRepository(database)
	logRepo := sqlite.NewLogRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	projectRepo := sqlite.NewProjectRepository(database)
	partnerRepo := sqlite.NewPartnerRepository(database)
	credRepo := sqlite.NewCredentialRepository(database)
	userRepo := sqlite.NewUserRepository(database)

	// Notification channels: in-app always, mail only when SMTP is configured.
	channels := []secondary.Notifier{notify.NewInApp(database)}
	if cfg.SMTP.Enabled() {
		channels = append(channels, notify.NewMailer(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
			userRepo, logger,
		))
	}
	notifier := notify.NewFanout(channels...)

	// Services (primary ports implementation)
	executor := app.NewExecutor(projectRepo, partnerRepo, credRepo, logRepo, notifier, notify.NewTwilioSMS(), logger)
	escalationService = app.NewSweepService(taskRepo, ruleRepo, logRepo, projectRepo, executor, logger)
	ruleService = app.NewRuleService(ruleRepo)
	statsService = app.NewStatsService(ruleRepo, logRepo)
}
