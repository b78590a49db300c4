package ports

import (
	"context"
	"encoding/json"
)

// BreedCatalog is the upstream cat catalog. Responses are relayed verbatim.
type BreedCatalog interface {
	GetBreeds(ctx context.Context) (json.RawMessage, error)
	GetBreedByID(ctx context.Context, breedID string) (json.RawMessage, error)
	// SearchBreeds appends query to the upstream search URL as-is.
	SearchBreeds(ctx context.Context, query string) (json.RawMessage, error)
	GetImagesByBreedID(ctx context.Context, breedID string) (json.RawMessage, error)
}
