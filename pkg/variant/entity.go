package variant

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Variant is a named, saved instance of a user's structured portfolio data.
// ParsedData is held as raw JSON so persistence never reshapes it.
type Variant struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	ParsedData    json.RawMessage `json:"parsedData"`
	SchemaVersion string          `json:"schemaVersion"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
