package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// CSVFileName is the name of the transaction listing written to every export.
const CSVFileName = "transactions.csv"

// Item links an exported transaction to its bill file, if any.
type Item struct {
	Transaction *transaction.Transaction
	FilePath    string
}

type Result struct {
	Dir     string
	CSVPath string
	Items   []Item
}

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service writes transactions and their attached bills to disk.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// Export writes the transactions matching filter to outputDir as a CSV file
// that the importer reads back, plus one file per attached bill.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, outputDir string) (*Result, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(txs))
	used := make(map[string]int)

	for _, tx := range txs {
		item := Item{Transaction: tx}

		if tx.Bill != nil && len(tx.Bill.Data) > 0 {
			path := filepath.Join(outputDir, uniqueName(used, billFilename(tx)))
			if err := os.WriteFile(path, tx.Bill.Data, 0o644); err != nil {
				return nil, fmt.Errorf("writing bill for transaction %s: %w", tx.ID, err)
			}

			item.FilePath = path
		}

		items = append(items, item)
	}

	csvPath := filepath.Join(outputDir, CSVFileName)
	if err := writeCSV(csvPath, items); err != nil {
		return nil, err
	}

	return &Result{Dir: outputDir, CSVPath: csvPath, Items: items}, nil
}

func writeCSV(path string, items []Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"date", "type", "amount", "category", "description", "currency", "bill"})

	for _, item := range items {
		tx := item.Transaction

		var bill string
		if item.FilePath != "" {
			bill = filepath.Base(item.FilePath)
		}

		_ = w.Write([]string{
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			tx.Amount.StringFixed(2),
			tx.Category,
			tx.Description,
			tx.Currency,
			bill,
		})
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return f.Close()
}

// billFilename keeps the uploaded name when there is one and otherwise
// derives YYYYMMDD_Description.ext from the transaction and the sniffed
// content type.
func billFilename(tx *transaction.Transaction) string {
	if name := filepath.Base(tx.Bill.FileName); tx.Bill.FileName != "" && name != "." && name != "/" {
		return strings.ReplaceAll(name, " ", "_")
	}

	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(http.DetectContentType(tx.Bill.Data)); len(exts) > 0 {
		ext = exts[0]
	}

	safeDesc := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, tx.Description)

	return fmt.Sprintf("%s_%s%s", tx.Date.Format("20060102"), safeDesc, ext)
}

// uniqueName suffixes repeated names with -2, -3 and so on.
func uniqueName(used map[string]int, name string) string {
	used[name]++
	if n := used[name]; n > 1 {
		ext := filepath.Ext(name)
		return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
	}

	return name
}

// Report renders one line per exported item, amounts in their own currency.
func Report(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		tx := item.Transaction

		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		bill := "No bill"
		if item.FilePath != "" {
			bill = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s%s | %s\n",
			tx.Date.Format(time.DateOnly), tx.Category, tx.Description, sign, currency.Format(tx.Amount, tx.Currency), bill)
	}

	return sb.String()
}
