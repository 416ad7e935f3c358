package csvfile_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/fintrack/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParser_FintrackFormat(t *testing.T) {
	csv := `date,type,amount,category,description,currency
2025-01-15,income,5000.00,Salary,Monthly salary,USD
2025-01-16,expense,1200.00,Rent,Monthly rent payment,EUR
2025-01-17,expense,85.50,Groceries,Weekly groceries,
`

	txs, err := csvfile.NewParser("GBP").Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, transaction.TypeIncome, txs[0].Type)
	assert.Equal(t, "5000", txs[0].Amount.String())
	assert.Equal(t, "Salary", txs[0].Category)
	assert.Equal(t, "Monthly salary", txs[0].Description)
	assert.Equal(t, date(2025, time.January, 15), txs[0].Date)
	assert.Equal(t, "USD", txs[0].Currency)

	assert.Equal(t, transaction.TypeExpense, txs[1].Type)
	assert.Equal(t, "EUR", txs[1].Currency)

	assert.Equal(t, "85.5", txs[2].Amount.String())
	assert.Equal(t, "GBP", txs[2].Currency, "empty currency cell falls back to the default")
}

func TestParser_SignedBankStatement(t *testing.T) {
	csv := `Account statement;31-01-2026
Holder;JOHN DOE

Date;Value date;Description;Amount;Balance
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
;;;Page 1/1;
`

	txs, err := csvfile.NewParser("EUR").Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, time.January, 30), txs[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", txs[0].Description)
	assert.Equal(t, "588.74", txs[0].Amount.String())
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.Empty(t, txs[0].Category)
	assert.Equal(t, "EUR", txs[0].Currency)

	assert.Equal(t, "8608.52", txs[1].Amount.String())
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
}

func TestParser_DebitCredit(t *testing.T) {
	csv := `Date ;Value date ;Description ;Debit ;Credit ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;REFUND AMAZON ; ;25,00 ;
`

	txs, err := csvfile.NewParser("EUR").Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.Equal(t, "64", txs[0].Amount.String())
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
	assert.Equal(t, "25", txs[1].Amount.String())
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
AMOUNT;Description;DATE;Ignored
-10,00;TEST_ORDER;2026-01-30;XXX
`

	txs, err := csvfile.NewParser("USD").Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "TEST_ORDER", txs[0].Description)
	assert.Equal(t, "10", txs[0].Amount.String())
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Date;Description;Amount\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	txs, err := csvfile.NewParser("EUR").Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "CAFÉ CENTRAL", txs[0].Description)
}

func TestParser_InvalidType(t *testing.T) {
	csv := "date,type,amount,description\n2025-01-15,transfer,10,Move\n"

	_, err := csvfile.NewParser("USD").Parse(strings.NewReader(csv))
	require.ErrorIs(t, err, transaction.ErrInvalidType)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := csvfile.NewParser("USD").Parse(strings.NewReader(""))
	require.ErrorIs(t, err, csvfile.ErrUnknownFormat)
}

func TestParser_HeaderOnly(t *testing.T) {
	txs, err := csvfile.NewParser("USD").Parse(strings.NewReader("Date;Description;Amount"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParser_Amounts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.234,56", want: "1234.56"},
		{in: "1,234.56", want: "1234.56"},
		{in: "-588,74", want: "588.74"},
		{in: "12,5", want: "12.5"},
		{in: "1,234", want: "1234"},
		{in: "1.234.567", want: "1234567"},
		{in: "+42.10", want: "42.1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			csv := "Date|Description|Amount\n2025-02-01|x|" + tt.in + "\n"
			csv = strings.ReplaceAll(csv, "|", "\t")

			txs, err := csvfile.NewParser("USD").Parse(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, tt.want, txs[0].Amount.String())
		})
	}
}
