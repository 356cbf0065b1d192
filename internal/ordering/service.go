package ordering

import (
	"context"
	"strings"
	"sync"
	"time"

	storeerrors "launchgrid/internal/infrastructure/errors"
	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/storage"
	"launchgrid/internal/types"
)

// Scanner enumerates installed applications (satisfied by platform.AppScanner)
type Scanner interface {
	Scan() ([]types.AppEntry, error)
}

// LaunchFunc starts an application, fire-and-forget
type LaunchFunc func(types.AppEntry) error

// Service owns the OrderRecord for one user key and is its only writer. All
// reconciliation and reorder commits for the key are serialized behind the
// service mutex; nothing else may touch the record. Persisting happens at
// the end of each mutating operation, never as a hidden side effect of a
// field assignment, so every write point is auditable.
type Service struct {
	mu      sync.Mutex
	scanner Scanner
	store   *storage.Store
	launch  LaunchFunc
	logger  logging.Logger
	userKey string

	record  *types.OrderRecord
	entries []types.AppEntry // current display order

	flushInterval time.Duration
	flushStop     chan struct{}
	flushDone     chan struct{}
}

// NewService creates the order service for one user key
func NewService(scanner Scanner, store *storage.Store, launch LaunchFunc, logger logging.Logger, userKey string, flushInterval time.Duration) *Service {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Service{
		scanner:       scanner,
		store:         store,
		launch:        launch,
		logger:        logger,
		userKey:       userKey,
		record:        types.NewOrderRecord(),
		flushInterval: flushInterval,
	}
}

// Start loads the persisted record, runs the initial scan, and starts the
// periodic flush loop
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	s.record = s.store.Load(ctx, s.userKey)
	s.mu.Unlock()

	s.Rescan(ctx)

	if s.flushInterval > 0 {
		s.flushStop = make(chan struct{})
		s.flushDone = make(chan struct{})
		go s.flushLoop()
	}

	s.logger.Info("Order service started", "user", s.userKey, "entries", len(s.DisplayOrder()))
}

// Stop halts the flush loop and flushes the store
func (s *Service) Stop() {
	if s.flushStop != nil {
		close(s.flushStop)
		<-s.flushDone
		s.flushStop = nil
	}
	s.store.ForceFlush(context.Background())
}

func (s *Service) flushLoop() {
	defer close(s.flushDone)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.store.ForceFlush(context.Background())
		case <-s.flushStop:
			return
		}
	}
}

// Rescan re-enumerates installed applications and reconciles the result with
// the saved order. A self-healed order (new apps appended, stale ids
// dropped) is persisted immediately so subsequent loads don't repeat the
// append step.
func (s *Service) Rescan(ctx context.Context) []types.AppEntry {
	scanned, err := s.scanner.Scan()
	if err != nil {
		s.logger.Error("Application scan failed", "error", err)
		return s.DisplayOrder()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	display, healed := ComputeDisplayOrder(scanned, s.record)
	s.entries = display
	if healed {
		s.store.Save(ctx, s.userKey, s.record)
		s.logger.Info("Reconciliation healed saved order",
			"user", s.userKey, "entries", len(s.record.SavedOrder))
	}

	return copyEntries(display)
}

// DisplayOrder returns the current display order
func (s *Service) DisplayOrder() []types.AppEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.entries)
}

// HasNewEntries reports whether the current entries contain apps the saved
// order has never seen. Informational only.
func (s *Service) HasNewEntries() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HasUnrecognizedEntries(s.entries, s.record)
}

// Search returns entries whose display name contains the query,
// case-insensitively, preserving display order. An empty query returns the
// full order.
func (s *Service) Search(query string) []types.AppEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return copyEntries(s.entries)
	}

	var matches []types.AppEntry
	for _, entry := range s.entries {
		if strings.Contains(strings.ToLower(entry.DisplayName), query) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Reorder moves the entry at global index from to global index to and
// persists the new order. The first reorder flips CustomOrderEnabled before
// the move is computed (the user has opted in to custom ordering). A
// same-index move is a successful no-op with no store write and no flag
// flip. Out-of-range indices return an InvalidIndex error; the caller
// decides whether to ignore a failed drop.
func (s *Service) Reorder(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate both indices before touching any state so a failed move
	// leaves the record untouched
	if from < 0 || from >= len(s.entries) {
		return storeerrors.HandleInvalidIndexError("Reorder", from, len(s.entries))
	}
	if to < 0 || to >= len(s.entries) {
		return storeerrors.HandleInvalidIndexError("Reorder", to, len(s.entries))
	}
	if from == to {
		return nil
	}

	// Opt in before computing the move so the committed order reflects the
	// full custom sequence, not just the moved entry
	if !s.record.CustomOrderEnabled {
		s.record.CustomOrderEnabled = true
		s.logger.Info("Custom ordering enabled by first reorder", "user", s.userKey)
	}

	moved, err := MoveEntry(s.entries, from, to)
	if err != nil {
		return err
	}

	s.entries = moved
	s.record.SavedOrder = idsOf(moved)
	s.store.Save(ctx, s.userKey, s.record)

	s.logger.Debug("Committed reorder", "user", s.userKey, "from", from, "to", to)
	return nil
}

// ResetToAlphabetical clears the custom order and returns to the
// alphabetical sort
func (s *Service) ResetToAlphabetical(ctx context.Context) []types.AppEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = types.NewOrderRecord()
	s.entries = SortAlphabetical(s.entries)
	s.store.Save(ctx, s.userKey, s.record)

	s.logger.Info("Order reset to alphabetical", "user", s.userKey)
	return copyEntries(s.entries)
}

// Launch starts the application with the given id
func (s *Service) Launch(id string) error {
	s.mu.Lock()
	var target *types.AppEntry
	for i := range s.entries {
		if s.entries[i].ID == id {
			target = &s.entries[i]
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return storeerrors.NewStoreErrorWithContext("Launch", nil,
			storeerrors.ErrCodeNotFound, map[string]string{"id": id})
	}
	if s.launch == nil {
		return nil
	}
	return s.launch(*target)
}

// Record returns a copy of the current record (test helper)
func (s *Service) Record() *types.OrderRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

func copyEntries(entries []types.AppEntry) []types.AppEntry {
	out := make([]types.AppEntry, len(entries))
	copy(out, entries)
	return out
}
