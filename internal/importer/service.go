package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type Service struct {
	categorizer Categorizer
}

func NewService(categorizer Categorizer) *Service {
	return &Service{categorizer: categorizer}
}

// Parse reads a CSV file into transaction params ready for
// transaction.Service.ImportBatch. Rows without a currency get
// defaultCurrency; rows without a category get a learned one, or
// DefaultCategory.
func (s *Service) Parse(ctx context.Context, r io.Reader, defaultCurrency string) ([]transaction.CreateParams, error) {
	if err := currency.Validate(defaultCurrency); err != nil {
		return nil, err
	}

	var parser Parser = csvfile.NewParser(defaultCurrency)

	params, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	for i := range params {
		if params[i].Category != "" {
			continue
		}

		category, err := s.categorizer.Suggest(ctx, params[i].Description)
		if err != nil {
			return nil, fmt.Errorf("suggest category: %w", err)
		}

		if category == "" {
			category = DefaultCategory
		}

		params[i].Category = category
	}

	return params, nil
}
