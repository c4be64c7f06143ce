package model

import "time"

// ExhibitionLock is an advisory lock serializing booking mutations against
// one exhibition's layout. A TTL index on expires_at reaps stale locks.
type ExhibitionLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
