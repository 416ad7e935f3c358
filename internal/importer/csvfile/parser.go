// Package csvfile parses transaction CSV files: fintrack's own export
// format and common bank statement layouts.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/fintrack/internal/encoding"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

var ErrUnknownFormat = errors.New("no supported CSV layout found: expected date, description and amount columns")

var delimiters = []rune{';', ',', '\t'}

// Parser reads CSV files into transaction params. Rows without a currency
// column get the parser's default currency; rows without a category column
// are left uncategorized.
type Parser struct {
	defaultCurrency string
}

func NewParser(defaultCurrency string) *Parser {
	return &Parser{defaultCurrency: defaultCurrency}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, _, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(data, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return p.parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownFormat
}

func readRows(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// detectProfile scans rows for a header that matches a known profile and
// returns it with the column map and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := normalize(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func (p *Parser) parseRows(profile *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	var (
		dateIdx     = cols.get(profile.DateCol)
		descIdx     = cols.get(profile.DescCol)
		categoryIdx = cols.get(categoryCol)
		currencyIdx = cols.get(currencyCol)
		txs         []transaction.CreateParams
	)

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		params, ok, err := rowAmount(profile, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		params.Date = date
		params.Description = cellValue(row, descIdx)
		params.Category = cellValue(row, categoryIdx)

		params.Currency = strings.ToUpper(cellValue(row, currencyIdx))
		if params.Currency == "" {
			params.Currency = p.defaultCurrency
		}

		txs = append(txs, params)
	}

	return txs, nil
}

// rowAmount fills Amount and Type from a row according to the profile.
// ok is false for rows that carry no amount, such as page footers.
func rowAmount(p *Profile, cols colIndex, row []string) (transaction.CreateParams, bool, error) {
	switch p.AmountMode {
	case amountSigned:
		return signedAmount(cellValue(row, cols.get(p.AmountCol)))
	case amountSplit:
		return splitAmount(cellValue(row, cols.get(p.DebitCol)), cellValue(row, cols.get(p.CreditCol)))
	case amountTyped:
		return typedAmount(cellValue(row, cols.get(p.AmountCol)), cellValue(row, cols.get(p.TypeCol)))
	}

	return transaction.CreateParams{}, false, nil
}

func signedAmount(s string) (transaction.CreateParams, bool, error) {
	if s == "" {
		return transaction.CreateParams{}, false, nil
	}

	amount, err := parseAmount(s)
	if err != nil || amount.IsZero() {
		return transaction.CreateParams{}, false, nil
	}

	if amount.IsNegative() {
		return transaction.CreateParams{Type: transaction.TypeExpense, Amount: amount.Neg()}, true, nil
	}

	return transaction.CreateParams{Type: transaction.TypeIncome, Amount: amount}, true, nil
}

func splitAmount(debit, credit string) (transaction.CreateParams, bool, error) {
	if debit != "" {
		if amount, err := parseAmount(debit); err == nil && !amount.IsZero() {
			return transaction.CreateParams{Type: transaction.TypeExpense, Amount: amount.Abs()}, true, nil
		}
	}

	if credit != "" {
		if amount, err := parseAmount(credit); err == nil && !amount.IsZero() {
			return transaction.CreateParams{Type: transaction.TypeIncome, Amount: amount.Abs()}, true, nil
		}
	}

	return transaction.CreateParams{}, false, nil
}

var typeAliases = map[string]transaction.Type{
	"income":  transaction.TypeIncome,
	"credit":  transaction.TypeIncome,
	"expense": transaction.TypeExpense,
	"debit":   transaction.TypeExpense,
}

func typedAmount(amountStr, typeStr string) (transaction.CreateParams, bool, error) {
	if amountStr == "" {
		return transaction.CreateParams{}, false, nil
	}

	typ, ok := typeAliases[normalize(typeStr)]
	if !ok {
		return transaction.CreateParams{}, false, fmt.Errorf("%w: %q", transaction.ErrInvalidType, typeStr)
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return transaction.CreateParams{}, false, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	if amount.IsNegative() {
		return transaction.CreateParams{}, false, transaction.ErrNegativeAmount
	}

	return transaction.CreateParams{Type: typ, Amount: amount}, true, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
