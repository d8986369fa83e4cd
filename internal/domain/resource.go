package domain

// Resource represents a single curated link entry.
// The JSON layout mirrors the persisted bucket format, including the
// internal `_importTime` field carried by exports and backups.
type Resource struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned at creation
	// and preserved across updates.
	ID string `json:"id"`

	// ─────────────────────────────
	// User-facing fields
	// ─────────────────────────────

	// Title is the display name of the link.
	Title string `json:"title"`

	// URL is the full external URL.
	URL string `json:"url"`

	// Category is an optional classification.
	// Example: "开发调优", "Monitoring"
	Category string `json:"category,omitempty"`

	// Level is an optional composite difficulty string.
	// Example: "开发调优, Lv2"
	Level string `json:"level,omitempty"`

	// Tags is an ordered list of free-form labels.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Internal ordering
	// ─────────────────────────────

	// ImportTime is the unix-millisecond batch timestamp set when the
	// resource was created or imported. Used only for recency ordering,
	// never shown to users.
	ImportTime int64 `json:"_importTime"`
}
