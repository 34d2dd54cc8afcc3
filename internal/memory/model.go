package memory

import "time"

// Record is one row in the account_memory table. Records are inserted once
// and only read back through similarity search.
type Record struct {
	ID        int64     `json:"id"`
	AccountID string    `json:"account_id"`
	EventID   string    `json:"event_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Hit is a search projection of a Record: lower distance means closer.
// Hits come back in non-decreasing distance order and are not persisted.
type Hit struct {
	ID        int64     `json:"id"`
	AccountID string    `json:"account_id"`
	EventID   string    `json:"event_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Distance  float64   `json:"distance"`
}

// RecentEntry is one element of the per-account recent-activity list kept
// in Redis alongside the vector store.
type RecentEntry struct {
	EventID    string    `json:"event_id"`
	Content    string    `json:"content"`
	RecordedAt time.Time `json:"recorded_at"`
}
