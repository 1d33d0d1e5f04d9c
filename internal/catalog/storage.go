package catalog

import (
	"context"
	"errors"

	"github.com/partkade/partsearch/pkg/types"
)

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// Storage defines persistence for catalog parts and synonyms. The search core
// only reads; the upsert/delete path exists for admin tooling that maintains
// the catalog in the same database file.
type Storage interface {
	Loader

	// Part operations
	UpsertPart(ctx context.Context, part *types.Part) error
	GetPart(ctx context.Context, id int64) (*types.Part, error)
	DeletePart(ctx context.Context, id int64) error

	// Synonym operations
	UpsertSynonym(ctx context.Context, syn *types.Synonym) error
	DeleteSynonym(ctx context.Context, id int64) error
	ListSynonymsByPart(ctx context.Context, partID int64) ([]*types.Synonym, error)

	// Status operations
	Status(ctx context.Context) (*Status, error)

	Close() error
}

// Loader is the read-only subset the snapshot holder needs
type Loader interface {
	ListParts(ctx context.Context) ([]*types.Part, error)
	ListSynonyms(ctx context.Context) ([]*types.Synonym, error)
}

// Status contains catalog statistics for diagnostics
type Status struct {
	PartCount    int
	ActiveCount  int
	SynonymCount int
}
