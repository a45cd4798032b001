// Package wire provides dependency injection for the tally application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"github.com/example/tally/internal/adapters/notify"
	"github.com/example/tally/internal/adapters/sqlite"
	"github.com/example/tally/internal/app"
	"github.com/example/tally/internal/config"
	"github.com/example/tally/internal/db"
	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/ports/secondary"
)

var (
	cfg           *config.Config
	directoryRepo secondary.DirectoryRepository
	stateStore    secondary.StateStore
	rosterService primary.RosterService
	editService   primary.EditService
	ledgerService primary.LedgerService
	alertService  primary.AlertService
	logService    primary.LogService
	once          sync.Once
)

// Cfg returns the loaded configuration.
func Cfg() *config.Config {
	once.Do(initServices)
	return cfg
}

// Directory returns the singleton DirectoryRepository. It is exposed for
// the roster import command only; the core services receive it injected.
func Directory() secondary.DirectoryRepository {
	once.Do(initServices)
	return directoryRepo
}

// State returns the singleton StateStore, exposed for read-only status
// display.
func State() secondary.StateStore {
	once.Do(initServices)
	return stateStore
}

// RosterService returns the singleton RosterService instance.
func RosterService() primary.RosterService {
	once.Do(initServices)
	return rosterService
}

// EditService returns the singleton EditService instance.
func EditService() primary.EditService {
	once.Do(initServices)
	return editService
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// AlertService returns the singleton AlertService instance.
func AlertService() primary.AlertService {
	once.Do(initServices)
	return alertService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.LoadConfig(cwd)
	if err != nil {
		// No config yet; run with defaults against the home database.
		cfg = config.Default()
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = config.DefaultDBPath()
		if err != nil {
			log.Fatalf("failed to resolve database path: %v", err)
		}
	}

	database, err := db.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters with the injected DB
	sheets := sqlite.NewSheetStore(database)
	state := sqlite.NewStateRepository(database)
	dir := sqlite.NewDirectoryRepository(database)
	ledger := sqlite.NewLedgerRepository(database)
	templates := sqlite.NewTemplateRepository(database)
	audit := sqlite.NewAuditLogRepository(database)

	var notifier secondary.Notifier
	if cfg.SendgridAPIKey != "" {
		notifier = notify.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.FromEmail)
	} else {
		notifier = notify.NewConsoleNotifier(os.Stdout)
	}

	directoryRepo = dir
	stateStore = state

	// Primary port implementations
	rosterService = app.NewRosterService(sheets, dir, ledger, state, audit)
	editService = app.NewEditService(sheets, state)
	ledgerService = app.NewLedgerService(sheets, dir, ledger, audit)
	alertService = app.NewAlertService(sheets, dir, ledger, templates, notifier, audit,
		cfg.AlertTemplate, cfg.DefaultLeadEmail, cfg.AlertRequireRecipients)
	logService = app.NewLogService(audit, cfg.MaxLogEntries)
}
