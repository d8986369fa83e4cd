package domain

// Note is a free-text document, unrelated to resources and groups.
type Note struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// CreatedAt is fixed at creation; UpdatedAt is bumped on every
	// update and never decreases. Both are unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
