package types

// OrderRecord is the persisted per-user ordering state. SavedOrder holds
// stable identifiers in display order; it is only honored when
// CustomOrderEnabled is true, otherwise the display falls back to the
// alphabetical sort.
type OrderRecord struct {
	CustomOrderEnabled bool     `json:"customOrderEnabled"`
	SavedOrder         []string `json:"savedOrder"`
}

// NewOrderRecord returns the disabled/empty default record used on first run
// and after corruption recovery.
func NewOrderRecord() *OrderRecord {
	return &OrderRecord{}
}

// Clone returns a deep copy of the record.
func (r *OrderRecord) Clone() *OrderRecord {
	if r == nil {
		return NewOrderRecord()
	}
	clone := &OrderRecord{CustomOrderEnabled: r.CustomOrderEnabled}
	if len(r.SavedOrder) > 0 {
		clone.SavedOrder = make([]string, len(r.SavedOrder))
		copy(clone.SavedOrder, r.SavedOrder)
	}
	return clone
}
