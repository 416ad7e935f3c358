package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/export"
	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

const reportFileName = "report.txt"

type Handler struct {
	svc *export.Service
	dir string
	now func() time.Time
}

// NewHandler serves exports written below dir.
func NewHandler(svc *export.Service, dir string) *Handler {
	return &Handler{svc: svc, dir: dir, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.save)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (req exportRequest) filter() (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	for _, f := range []struct {
		value string
		dst   **time.Time
	}{
		{req.StartDate, &filter.StartDate},
		{req.EndDate, &filter.EndDate},
	} {
		if f.value == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, f.value)
		if err != nil {
			return filter, errors.New("dates must be YYYY-MM-DD")
		}

		*f.dst = new(t)
	}

	return filter, nil
}

type itemResponse struct {
	ID          uuid.UUID        `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Currency    string           `json:"currency"`
	BillFile    string           `json:"bill_file,omitempty"`
}

type exportResponse struct {
	Dir          string         `json:"dir"`
	CSV          string         `json:"csv"`
	Transactions []itemResponse `json:"transactions"`
	Report       string         `json:"report"`
}

func toItemResponse(item export.Item) itemResponse {
	tx := item.Transaction

	resp := itemResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.Format(time.DateOnly),
		Currency:    tx.Currency,
	}

	if item.FilePath != "" {
		resp.BillFile = filepath.Base(item.FilePath)
	}

	return resp
}

func decodeFilter(w http.ResponseWriter, r *http.Request) (transaction.ListFilter, bool) {
	var req exportRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return transaction.ListFilter{}, false
		}
	}

	filter, err := req.filter()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return transaction.ListFilter{}, false
	}

	return filter, true
}

// save writes the export to a timestamped directory under the configured
// export dir and returns the listing and report.
func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	filter, ok := decodeFilter(w, r)
	if !ok {
		return
	}

	outDir := filepath.Join(h.dir, "export_"+h.now().Format("20060102_150405"))

	result, err := h.svc.Export(r.Context(), filter, outDir)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	report := export.Report(result.Items)
	if err := os.WriteFile(filepath.Join(outDir, reportFileName), []byte(report), 0o644); err != nil {
		render.Error(w, r, fmt.Errorf("writing report: %w", err))
		return
	}

	items := make([]itemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toItemResponse(item))
	}

	render.JSON(w, http.StatusCreated, exportResponse{
		Dir:          result.Dir,
		CSV:          result.CSVPath,
		Transactions: items,
		Report:       report,
	})
}

// download streams the same export as a zip archive without keeping it on
// disk.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, ok := decodeFilter(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "fintrack-export-*")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	result, err := h.svc.Export(r.Context(), filter, tmpDir)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	report := export.Report(result.Items)
	if err := os.WriteFile(filepath.Join(tmpDir, reportFileName), []byte(report), 0o644); err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", h.now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.WalkDir(tmpDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		relPath, err := filepath.Rel(tmpDir, path)
		if err != nil {
			return err
		}

		zf, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
