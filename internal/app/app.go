package app

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"sync"
	"time"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"launchgrid/internal/config"
	"launchgrid/internal/database"
	"launchgrid/internal/dragdrop"
	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/ordering"
	"launchgrid/internal/platform"
	"launchgrid/internal/storage"
	"launchgrid/internal/types"
)

// EventPageChanged is emitted to the frontend whenever auto-navigation
// changes the visible page during a drag
const EventPageChanged = "launchgrid:pageChanged"

// App is the main application: it wires the storage, ordering, and drag
// subsystems together and exposes the bound API consumed by the frontend
// grid.
type App struct {
	ctx         context.Context
	environment string
	settings    *config.Settings
	dbService   database.Service
	store       *storage.Store
	orders      *ordering.Service
	drag        *dragdrop.Coordinator
	logger      logging.Logger

	pageMu      sync.Mutex
	currentPage int
}

// NewApp creates the application with dependency injection. Persistence
// failures degrade rather than abort: the launcher works without durable
// storage, it just forgets the custom order on restart.
func NewApp(env string) (*App, error) {
	logger := logging.NewDefaultLogger()

	settings, err := config.Load()
	if err != nil {
		logger.Warn("Settings unavailable, using defaults", "error", err)
	}

	a := &App{
		environment: env,
		settings:    settings,
		logger:      logger,
	}

	a.store, a.dbService = buildStore(env, logger)

	userKey := resolveUserKey()
	scanner := platform.NewAppScanner(logger)
	a.orders = ordering.NewService(scanner, a.store, platform.Launch, logger,
		userKey, settings.FlushInterval())

	a.drag = dragdrop.NewCoordinator(dragdrop.Config{
		HoverThreshold: settings.HoverThreshold(),
		ScrollInterval: settings.ScrollInterval(),
	}, reordererFunc(a.reorder), a, logger)

	return a, nil
}

// buildStore assembles the dual-backend order store. Primary is SQLite,
// secondary is the JSON file; whichever backends fail to open are dropped,
// and with none left the store runs purely in memory.
func buildStore(env string, logger logging.Logger) (*storage.Store, database.Service) {
	var primary, secondary storage.Backend
	var dbService database.Service

	sqlite := database.NewSQLiteService(logger)
	dbConfig := database.ConfigForEnvironment(env)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlite.Connect(ctx, dbConfig); err != nil {
		logger.Warn("Primary storage backend unavailable", "error", err)
	} else if err := sqlite.Migrate(ctx); err != nil {
		logger.Warn("Database migration failed, dropping primary backend", "error", err)
		sqlite.Close()
	} else {
		primary = storage.NewSQLiteBackend(sqlite, logger)
		dbService = sqlite
	}

	if dir, err := config.Dir(); err == nil {
		fileBackend, fileErr := storage.NewFileBackend(filepath.Join(dir, "order.json"), logger)
		if fileErr != nil {
			logger.Warn("Secondary storage backend unavailable", "error", fileErr)
		} else {
			secondary = fileBackend
		}
	}

	switch {
	case primary == nil && secondary == nil:
		logger.Error("No storage backend available, custom order will not survive restart")
		primary = storage.NewMemoryBackend()
	case primary == nil:
		// Degrade to secondary-only operation
		primary, secondary = secondary, nil
	}

	return storage.NewStore(primary, secondary, logger), dbService
}

// resolveUserKey namespaces persisted state by OS username so multiple
// accounts on one machine keep independent orders
func resolveUserKey() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return filepath.Base(u.Username) // strip DOMAIN\ prefixes on Windows
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name
		}
	}
	return "default"
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.orders.Start(ctx)
	a.logger.Info("Application started", "environment", a.environment)
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.drag.Cancel()
	a.orders.Stop()
	a.store.ForceFlush(ctx)

	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.logger.Error("Error closing database", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing store", "error", err)
	}

	a.logger.Info("Application shutdown completed")
}

// --- bound API consumed by the frontend grid ---

// GetDisplayOrder returns the full ordered list
func (a *App) GetDisplayOrder() []types.AppEntry {
	return a.orders.DisplayOrder()
}

// GetGridPage returns one fixed-capacity page of the display order
func (a *App) GetGridPage(page int) *types.GridPage {
	entries := a.orders.DisplayOrder()
	perPage := a.settings.ItemsPerPage()
	pageCount := pageCountFor(len(entries), perPage)

	if page < 0 {
		page = 0
	}
	if page > pageCount-1 {
		page = pageCount - 1
	}

	start := page * perPage
	end := min(start+perPage, len(entries))
	if start > end {
		start = end
	}

	return &types.GridPage{
		Page:         page,
		PageCount:    pageCount,
		ItemsPerPage: perPage,
		Entries:      entries[start:end],
	}
}

// HasNewEntries reports whether the last scan found apps the saved order has
// never seen; drives the "new apps" indicator
func (a *App) HasNewEntries() bool {
	return a.orders.HasNewEntries()
}

// Search filters the display order by case-insensitive substring match
func (a *App) Search(query string) []types.AppEntry {
	return a.orders.Search(query)
}

// Rescan re-enumerates installed applications
func (a *App) Rescan() []types.AppEntry {
	return a.orders.Rescan(a.lifecycleContext())
}

// ResetToAlphabetical discards the custom order
func (a *App) ResetToAlphabetical() []types.AppEntry {
	return a.orders.ResetToAlphabetical(a.lifecycleContext())
}

// Launch starts the application with the given id
func (a *App) Launch(id string) error {
	return a.orders.Launch(id)
}

// SetCurrentPage records a manual page change made by the user
func (a *App) SetCurrentPage(page int) {
	a.pageMu.Lock()
	defer a.pageMu.Unlock()
	a.currentPage = page
}

// BeginDrag starts a drag session for the item at the page-local index
func (a *App) BeginDrag(localIndex, currentPage, itemsPerPage int) {
	a.SetCurrentPage(currentPage)
	a.drag.BeginDrag(localIndex, currentPage, itemsPerPage)
}

// ReportHover relays a hover enter/exit over a pagination control
func (a *App) ReportHover(direction string, entering bool, currentPage, maxPages int) {
	dir, err := types.ParseNavDirection(direction)
	if err != nil {
		a.logger.Warn("Ignoring hover with unknown direction", "direction", direction)
		return
	}
	a.SetCurrentPage(currentPage)
	a.drag.ReportHover(dir, entering, currentPage, maxPages)
}

// CompleteDrop commits the drag at the page-local target index
func (a *App) CompleteDrop(targetLocalIndex, currentPage, itemsPerPage int) error {
	a.SetCurrentPage(currentPage)
	return a.drag.CompleteDrop(targetLocalIndex, currentPage, itemsPerPage)
}

// CancelDrag discards the drag session without reordering
func (a *App) CancelDrag() {
	a.drag.Cancel()
}

// --- collaborator plumbing ---

// Navigate implements dragdrop.Navigator: one direct page jump, pushed to
// the frontend as an event so the grid re-renders without animation.
func (a *App) Navigate(direction types.NavDirection) (int, bool) {
	perPage := a.settings.ItemsPerPage()
	pageCount := pageCountFor(len(a.orders.DisplayOrder()), perPage)

	a.pageMu.Lock()
	defer a.pageMu.Unlock()

	next := a.currentPage
	switch direction {
	case types.NavPrevious:
		next--
	case types.NavNext:
		next++
	}
	if next < 0 || next > pageCount-1 {
		return a.currentPage, false
	}

	a.currentPage = next
	if a.ctx != nil {
		wailsruntime.EventsEmit(a.ctx, EventPageChanged, next)
	}
	return next, true
}

// reorder adapts the order service to the coordinator's Reorderer interface
func (a *App) reorder(from, to int) error {
	return a.orders.Reorder(a.lifecycleContext(), from, to)
}

// lifecycleContext returns the wails context once available
func (a *App) lifecycleContext() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// GetLogger returns the application's structured logger
func (a *App) GetLogger() logging.Logger {
	return a.logger
}

// reordererFunc adapts a function to dragdrop.Reorderer
type reordererFunc func(from, to int) error

func (f reordererFunc) Reorder(from, to int) error {
	return f(from, to)
}

func pageCountFor(entries, perPage int) int {
	if perPage < 1 {
		return 1
	}
	pages := (entries + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return pages
}
