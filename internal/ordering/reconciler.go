// Package ordering merges freshly scanned application lists with the
// persisted per-user order and owns every mutation of the OrderRecord.
package ordering

import (
	"slices"
	"sort"
	"strings"

	storeerrors "launchgrid/internal/infrastructure/errors"
	"launchgrid/internal/types"
)

// SortAlphabetical returns the entries sorted case-insensitively by display
// name. Identical names keep their relative scan order (stable sort). The
// input slice is not modified.
func SortAlphabetical(entries []types.AppEntry) []types.AppEntry {
	sorted := make([]types.AppEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].DisplayName) < strings.ToLower(sorted[j].DisplayName)
	})
	return sorted
}

// ComputeDisplayOrder produces the authoritative display order for a scan.
//
// With custom ordering disabled or an empty saved order the result is the
// alphabetical sort. Otherwise the saved order is walked id by id: ids still
// present in the scan keep their saved position, ids with no match are
// dropped (uninstalled), and entries the saved order never mentions (newly
// installed) are appended alphabetically.
//
// When the resulting id sequence differs from record.SavedOrder the record is
// updated in place and healed=true is returned so the caller can persist the
// self-healed order.
func ComputeDisplayOrder(scanned []types.AppEntry, record *types.OrderRecord) (display []types.AppEntry, healed bool) {
	if record == nil || !record.CustomOrderEnabled || len(record.SavedOrder) == 0 {
		return SortAlphabetical(scanned), false
	}

	remaining := make(map[string]types.AppEntry, len(scanned))
	for _, entry := range scanned {
		remaining[entry.ID] = entry
	}

	display = make([]types.AppEntry, 0, len(scanned))
	for _, id := range record.SavedOrder {
		entry, present := remaining[id]
		if !present {
			continue // uninstalled, silently dropped
		}
		display = append(display, entry)
		delete(remaining, id)
	}

	if len(remaining) > 0 {
		newEntries := make([]types.AppEntry, 0, len(remaining))
		for _, entry := range remaining {
			newEntries = append(newEntries, entry)
		}
		display = append(display, SortAlphabetical(newEntries)...)
	}

	newOrder := idsOf(display)
	if !slices.Equal(newOrder, record.SavedOrder) {
		record.SavedOrder = newOrder
		healed = true
	}
	return display, healed
}

// HasUnrecognizedEntries reports whether any scanned entry is absent from the
// saved order. Purely informational, no side effects.
func HasUnrecognizedEntries(scanned []types.AppEntry, record *types.OrderRecord) bool {
	if record == nil {
		return len(scanned) > 0
	}
	known := make(map[string]struct{}, len(record.SavedOrder))
	for _, id := range record.SavedOrder {
		known[id] = struct{}{}
	}
	for _, entry := range scanned {
		if _, ok := known[entry.ID]; !ok {
			return true
		}
	}
	return false
}

// MoveEntry removes the element at from and reinserts it at to, where to is
// interpreted in the post-removal index space (standard move semantics, not
// swap). from == to returns the input unchanged. Out-of-range indices fail
// with an InvalidIndex error rather than clamping: silent clamping has
// historically caused misplacement, so the caller decides whether to ignore
// a failed move.
func MoveEntry(order []types.AppEntry, from, to int) ([]types.AppEntry, error) {
	if from < 0 || from >= len(order) {
		return nil, storeerrors.HandleInvalidIndexError("MoveEntry", from, len(order))
	}
	if to < 0 || to >= len(order) {
		return nil, storeerrors.HandleInvalidIndexError("MoveEntry", to, len(order))
	}
	if from == to {
		return order, nil
	}

	result := make([]types.AppEntry, 0, len(order))
	result = append(result, order[:from]...)
	result = append(result, order[from+1:]...)

	moved := order[from]
	result = append(result[:to], append([]types.AppEntry{moved}, result[to:]...)...)
	return result, nil
}

func idsOf(entries []types.AppEntry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}
