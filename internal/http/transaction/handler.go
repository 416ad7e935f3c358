package transaction

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// maxBillSize caps uploaded bill images.
const maxBillSize = 5 << 20

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/bill", h.bill)
	r.Put("/{id}/bill", h.attachBill)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/", h.create)
		r.Put("/{id}", h.replace)
	})
}

type billRequest struct {
	FileName string `json:"file_name"`
	Data     []byte `json:"data"` // base64
}

type transactionRequest struct {
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Currency    string           `json:"currency"`
	Bill        *billRequest     `json:"bill,omitempty"`
}

func (req transactionRequest) params() (transaction.CreateParams, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("date must be YYYY-MM-DD: %w", transaction.ErrMissingDate)
	}

	p := transaction.CreateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Currency:    req.Currency,
	}

	if req.Bill != nil {
		p.Bill = &transaction.Bill{FileName: req.Bill.FileName, Data: req.Bill.Data}
	}

	return p, nil
}

func decodeParams(r *http.Request) (transaction.CreateParams, error) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return transaction.CreateParams{}, err
	}

	return req.params()
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(s)
	}

	for key, dst := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		s := q.Get(key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, key+" must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		*dst = new(t)
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	params, err := decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Replace(r.Context(), id, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

// attachBill takes a multipart "file" field and stores it as the
// transaction's bill, replacing any previous one.
func (h *Handler) attachBill(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxBillSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBillSize+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(data) > maxBillSize {
		http.Error(w, "bill exceeds "+strconv.Itoa(maxBillSize>>20)+" MiB", http.StatusRequestEntityTooLarge)
		return
	}

	existing, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	tx, err := h.svc.Replace(r.Context(), id, transaction.CreateParams{
		Type:        existing.Type,
		Amount:      existing.Amount,
		Category:    existing.Category,
		Description: existing.Description,
		Date:        existing.Date,
		Currency:    existing.Currency,
		Bill:        &transaction.Bill{FileName: header.Filename, Data: data},
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) bill(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if tx.Bill == nil {
		http.Error(w, "transaction has no bill", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(tx.Bill.Data))

	if tx.Bill.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", tx.Bill.FileName))
	}

	_, _ = w.Write(tx.Bill.Data)
}
