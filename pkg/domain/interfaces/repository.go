package interfaces

import "context"

// SessionKey is the fixed slot key holding the serialized user session
const SessionKey = "user"

// SessionSlot defines durable client-side storage for the serialized session
type SessionSlot interface {
	// Load returns the stored bytes. Returns nil, nil if nothing is stored.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the stored bytes atomically
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the stored bytes. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
