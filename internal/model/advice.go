package model

import "time"

// Advice is a cached AI-generated financial summary. Content is opaque to
// the rest of the system; CreatedAt keys the once-per-day cache.
type Advice struct {
	CreatedAt time.Time
	Content   string
	ID        int64
}
