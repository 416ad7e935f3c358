package export_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fintrack/internal/export"
	"github.com/MrJamesThe3rd/fintrack/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTx(typ transaction.Type, amount, category, desc string, bill *transaction.Bill) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: desc,
		Date:        time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC),
		Currency:    "USD",
		Bill:        bill,
	}
}

func TestService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	named := newTx(transaction.TypeExpense, "85.5", "Groceries", "Weekly groceries",
		&transaction.Bill{FileName: "receipt 1.png", Data: pngHeader})
	unnamed := newTx(transaction.TypeExpense, "120", "Utilities", "Electric bill",
		&transaction.Bill{Data: pngHeader})
	plain := newTx(transaction.TypeIncome, "5000", "Salary", "Monthly salary", nil)

	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{named, unnamed, plain}, nil)

	dir := t.TempDir()

	res, err := export.NewService(transaction.NewService(repo)).Export(context.Background(), transaction.ListFilter{}, dir)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	assert.Equal(t, "receipt_1.png", filepath.Base(res.Items[0].FilePath))
	assert.Equal(t, "20250127_Electric_bill.png", filepath.Base(res.Items[1].FilePath))
	assert.Empty(t, res.Items[2].FilePath)

	content, err := os.ReadFile(res.Items[0].FilePath)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, content)

	// the CSV round-trips through the importer
	f, err := os.Open(res.CSVPath)
	require.NoError(t, err)
	defer f.Close()

	params, err := csvfile.NewParser("EUR").Parse(f)
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "Groceries", params[0].Category)
	assert.True(t, decimal.RequireFromString("85.5").Equal(params[0].Amount))
	assert.Equal(t, transaction.TypeIncome, params[2].Type)
	assert.Equal(t, "USD", params[2].Currency)
}

func TestService_Export_DuplicateBillNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	bill := &transaction.Bill{FileName: "bill.pdf", Data: []byte("%PDF-1.4")}
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{
			newTx(transaction.TypeExpense, "1", "Other", "a", bill),
			newTx(transaction.TypeExpense, "2", "Other", "b", bill),
		}, nil)

	res, err := export.NewService(transaction.NewService(repo)).Export(context.Background(), transaction.ListFilter{}, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "bill.pdf", filepath.Base(res.Items[0].FilePath))
	assert.Equal(t, "bill-2.pdf", filepath.Base(res.Items[1].FilePath))
}

func TestReport(t *testing.T) {
	items := []export.Item{
		{
			Transaction: newTx(transaction.TypeExpense, "12.5", "Utilities", "Hosting", nil),
			FilePath:    "/tmp/invoice.pdf",
		},
		{
			Transaction: newTx(transaction.TypeIncome, "5", "Other", "Refund", nil),
		},
	}

	body := export.Report(items)

	for _, want := range []string{
		"* 2025-01-27 | Utilities | Hosting | -$12.50 | invoice.pdf",
		"* 2025-01-27 | Other | Refund | +$5.00 | No bill",
	} {
		assert.True(t, strings.Contains(body, want), "missing %q in:\n%s", want, body)
	}
}
