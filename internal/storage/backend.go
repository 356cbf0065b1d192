// Package storage implements durable key-value persistence of per-user order
// records with a primary/secondary backend policy: reads fall back from the
// primary to the secondary (migrating found values forward), writes go
// through to both, and total backend unavailability degrades to in-memory
// operation for the process lifetime.
package storage

import "context"

// Backend is a minimal key-value store. Implementations must tolerate
// repeated Set calls for the same key (full overwrite) and treat a missing
// key as (value="", found=false, err=nil).
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
	Close() error
	Name() string
}

// Persisted key layout, namespaced by OS username so multiple accounts on
// the same machine keep independent orders.
func enabledKey(userKey string) string {
	return userKey + "_isCustomOrderEnabled"
}

func orderKey(userKey string) string {
	return userKey + "_userAppOrder"
}
