package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// DefaultCategory is assigned to imported rows that have no category column
// value and match no learned rule.
const DefaultCategory = "Other"

type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

// Categorizer suggests a category for a description, returning "" when it
// has no suggestion.
//
//go:generate mockgen -source=importer.go -destination=categorizer_mock.go -package=importer
type Categorizer interface {
	Suggest(ctx context.Context, description string) (string, error)
}
