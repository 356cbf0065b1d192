package types

// AppEntry represents a single launchable application discovered by a scan.
// ID is the stable identifier used for ordering and deduplication; two scans
// may return the same ID with a different icon or launch path when the app
// was updated in place, and such entries compare as equal for ordering.
type AppEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IconPath    string `json:"iconPath"`
	LaunchPath  string `json:"launchPath"`
}

// GridPage is one fixed-capacity page of the display order, precomputed for
// the frontend so it never has to redo the index math.
type GridPage struct {
	Page         int        `json:"page"`
	PageCount    int        `json:"pageCount"`
	ItemsPerPage int        `json:"itemsPerPage"`
	Entries      []AppEntry `json:"entries"`
}
