package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	storeerrors "launchgrid/internal/infrastructure/errors"
	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/types"
)

// Store persists OrderRecords across a primary and a secondary backend.
// Callers never see backend errors: reads fall back, writes go through to
// whichever backends are reachable, and corruption resets to the default
// record. The worst case on total persistence failure is losing the custom
// order on the next restart, never a crash.
type Store struct {
	primary   Backend
	secondary Backend
	logger    logging.Logger
}

// NewStore creates a store over the given backends. secondary may be nil,
// in which case the store runs primary-only.
func NewStore(primary, secondary Backend, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Store{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Load reads the OrderRecord for userKey. It never fails: missing keys yield
// the disabled/empty default, a malformed saved order resets the record to
// that default and persists it immediately.
func (s *Store) Load(ctx context.Context, userKey string) *types.OrderRecord {
	start := time.Now()
	record := types.NewOrderRecord()

	if raw, found := s.loadKey(ctx, enabledKey(userKey)); found {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			s.logger.Warn("Stored enabled flag is malformed, resetting record",
				"user", userKey, "value", raw)
			s.resetCorrupt(ctx, userKey)
			return types.NewOrderRecord()
		}
		record.CustomOrderEnabled = enabled
	}

	if raw, found := s.loadKey(ctx, orderKey(userKey)); found {
		order, err := decodeOrder(raw)
		if err != nil {
			logging.LogStoreError(s.logger,
				storeerrors.HandleCorruptionError("Load", orderKey(userKey), err),
				"Load", map[string]interface{}{"user": userKey})
			s.resetCorrupt(ctx, userKey)
			return types.NewOrderRecord()
		}
		record.SavedOrder = order
	}

	logging.LogStoreOperation(s.logger, "Load", time.Since(start), map[string]interface{}{
		"user":    userKey,
		"enabled": record.CustomOrderEnabled,
		"entries": len(record.SavedOrder),
	})
	return record
}

// Save writes the record to both backends synchronously (write-through).
// Each save is a full overwrite of the two keys. A failing backend is logged
// and skipped; Save itself never fails.
func (s *Store) Save(ctx context.Context, userKey string, record *types.OrderRecord) {
	if record == nil {
		record = types.NewOrderRecord()
	}

	encoded, err := encodeOrder(record.SavedOrder)
	if err != nil {
		// Only reachable with unencodable input, which []string never is
		logging.LogStoreError(s.logger, err, "Save", map[string]interface{}{"user": userKey})
		return
	}

	enabled := strconv.FormatBool(record.CustomOrderEnabled)

	s.saveTo(ctx, s.primary, userKey, enabled, encoded)
	s.saveTo(ctx, s.secondary, userKey, enabled, encoded)
}

// ForceFlush synchronously flushes both backends. Invoked by the periodic
// flush timer, app termination, and service teardown as a defense against
// backends that buffer writes.
func (s *Store) ForceFlush(ctx context.Context) {
	for _, backend := range []Backend{s.primary, s.secondary} {
		if backend == nil {
			continue
		}
		if err := backend.Flush(ctx); err != nil {
			s.logger.Warn("Backend flush failed", "backend", backend.Name(), "error", err)
		}
	}
}

// Close closes both backends
func (s *Store) Close() error {
	var firstErr error
	for _, backend := range []Backend{s.primary, s.secondary} {
		if backend == nil {
			continue
		}
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// loadKey reads one key with the primary/secondary fallback policy. A value
// found only in the secondary is written forward into the primary (one-time
// migration).
func (s *Store) loadKey(ctx context.Context, key string) (string, bool) {
	if s.primary != nil {
		value, found, err := s.primary.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Primary backend read failed, trying secondary",
				"backend", s.primary.Name(), "key", key, "error", err)
		} else if found {
			return value, true
		}
	}

	if s.secondary == nil {
		return "", false
	}

	value, found, err := s.secondary.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Secondary backend read failed",
			"backend", s.secondary.Name(), "key", key, "error", err)
		return "", false
	}
	if !found {
		return "", false
	}

	// Migrate the value forward so the next load is served by the primary
	if s.primary != nil {
		if err := s.primary.Set(ctx, key, value); err != nil {
			s.logger.Warn("Failed to migrate value into primary backend",
				"key", key, "error", err)
		} else {
			s.logger.Info("Migrated value from secondary into primary backend", "key", key)
		}
	}

	return value, true
}

// saveTo writes both fields of a record into one backend
func (s *Store) saveTo(ctx context.Context, backend Backend, userKey, enabled, encodedOrder string) {
	if backend == nil {
		return
	}
	if err := backend.Set(ctx, enabledKey(userKey), enabled); err != nil {
		s.logger.Warn("Backend write failed", "backend", backend.Name(),
			"key", enabledKey(userKey), "error", err)
		return
	}
	if err := backend.Set(ctx, orderKey(userKey), encodedOrder); err != nil {
		s.logger.Warn("Backend write failed", "backend", backend.Name(),
			"key", orderKey(userKey), "error", err)
	}
}

// resetCorrupt persists the disabled/empty default after corruption was
// detected during a load
func (s *Store) resetCorrupt(ctx context.Context, userKey string) {
	s.Save(ctx, userKey, types.NewOrderRecord())
}

// decodeOrder parses the stored JSON string array. Duplicate ids are data
// corruption and fail the decode.
func decodeOrder(raw string) ([]string, error) {
	var order []string
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate id %q in saved order", id)
		}
		seen[id] = struct{}{}
	}
	return order, nil
}

// encodeOrder serializes the order as a JSON string array, round-tripping
// exactly including order
func encodeOrder(order []string) (string, error) {
	if order == nil {
		order = []string{}
	}
	data, err := json.Marshal(order)
	if err != nil {
		return "", storeerrors.NewStoreError("encodeOrder", err, storeerrors.ErrCodeValidation)
	}
	return string(data), nil
}
