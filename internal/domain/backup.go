package domain

// BackupBundle is a timestamped snapshot of all three buckets, used for
// remote transfer and local file backups.
type BackupBundle struct {
	Resources []Resource `json:"resources"`
	Groups    []Group    `json:"groups"`
	Notes     []Note     `json:"notes"`
	Timestamp int64      `json:"timestamp"`
}

// SyncConfig holds the remote endpoint settings.
// Credentials are stored in plaintext in the local config bucket.
type SyncConfig struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Path     string `json:"path"`
}

// Result is the uniform outcome value for operations that report a
// user-facing message instead of an error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ImportResult extends Result with the number of records imported.
type ImportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}
