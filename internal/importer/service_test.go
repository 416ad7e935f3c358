package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
)

const statement = `Date;Description;Amount;Category
2025-03-01;UBER *TRIP;-12,40;
2025-03-02;Corner shop;-3,10;
2025-03-03;Payroll;2500,00;Salary
`

func TestService_Parse_FillsCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	categorizer := importer.NewMockCategorizer(ctrl)

	categorizer.EXPECT().Suggest(gomock.Any(), "UBER *TRIP").Return("Transportation", nil)
	categorizer.EXPECT().Suggest(gomock.Any(), "Corner shop").Return("", nil)

	params, err := importer.NewService(categorizer).Parse(context.Background(), strings.NewReader(statement), "EUR")
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "Transportation", params[0].Category)
	assert.Equal(t, importer.DefaultCategory, params[1].Category)
	assert.Equal(t, "Salary", params[2].Category)

	for _, p := range params {
		assert.Equal(t, "EUR", p.Currency)
		require.NoError(t, p.Validate())
	}
}

func TestService_Parse_UnknownCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := importer.NewService(importer.NewMockCategorizer(ctrl)).Parse(context.Background(), strings.NewReader(statement), "XYZ")
	require.ErrorIs(t, err, currency.ErrUnknownCurrency)
}

func TestService_Parse_CategorizerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	categorizer := importer.NewMockCategorizer(ctrl)

	boom := errors.New("boom")
	categorizer.EXPECT().Suggest(gomock.Any(), gomock.Any()).Return("", boom)

	_, err := importer.NewService(categorizer).Parse(context.Background(), strings.NewReader(statement), "EUR")
	require.ErrorIs(t, err, boom)
}
