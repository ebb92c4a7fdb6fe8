package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/metrics"
	"github.com/tailwag/walkops/internal/middleware"
	"github.com/tailwag/walkops/internal/models"
)

const (
	defaultLedgerLimit = 20
	maxLedgerLimit     = 100
)

// ClientHandler müşteri, bakiye, ödeme ve fatura endpoint'leri
type ClientHandler struct {
	paymentService interfaces.PaymentServiceInterface
	invoiceService interfaces.InvoiceServiceInterface
}

func NewClientHandler(paymentService interfaces.PaymentServiceInterface, invoiceService interfaces.InvoiceServiceInterface) *ClientHandler {
	return &ClientHandler{
		paymentService: paymentService,
		invoiceService: invoiceService,
	}
}

// GetClient GET /api/v1/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid client id", nil)
		return
	}

	client, err := h.paymentService.GetClient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, client, "Müşteri bilgisi getirildi")
}

// GetLedger GET /api/v1/clients/{id}/ledger?limit=&offset=
func (h *ClientHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid client id", nil)
		return
	}

	limit, err := queryInt(r, "limit", defaultLedgerLimit)
	if err != nil || limit <= 0 || limit > maxLedgerLimit {
		middleware.WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLedgerLimit), nil)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		middleware.WriteError(w, r, http.StatusBadRequest, "offset must be zero or positive", nil)
		return
	}

	entries, err := h.paymentService.GetLedger(r.Context(), id, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
		"count":   len(entries),
	}, "Bakiye hareketleri getirildi")
}

// RecordPayment POST /api/v1/clients/{id}/payments
func (h *ClientHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid client id", nil)
		return
	}

	var req models.PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}

	resp, err := h.paymentService.RecordPayment(r.Context(), id, &req)
	if err != nil {
		metrics.PaymentsRecorded.WithLabelValues("api", paymentResult(err)).Inc()
		writeServiceError(w, r, err)
		return
	}
	metrics.PaymentsRecorded.WithLabelValues("api", "recorded").Inc()

	writeSuccess(w, http.StatusCreated, resp, "Ödeme kaydedildi")
}

// GetInvoice GET /api/v1/clients/{id}/invoice?format=json|pdf
func (h *ClientHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid client id", nil)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "pdf" {
		middleware.WriteError(w, r, http.StatusBadRequest, "format must be json or pdf", nil)
		return
	}

	doc, err := h.invoiceService.CompileInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if format == "json" {
		metrics.InvoicesCompiled.WithLabelValues(format).Inc()
		writeSuccess(w, http.StatusOK, doc, "Fatura derlendi")
		return
	}

	// PDF önce buffer'a yazılır, hata olursa yarım dosya gönderilmez
	var buf bytes.Buffer
	if err := h.invoiceService.WritePDF(doc, &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	metrics.InvoicesCompiled.WithLabelValues(format).Inc()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Number+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Int("client_id", id).Msg("PDF yazılamadı")
	}
}

func paymentResult(err error) string {
	switch {
	case errors.Is(err, models.ErrDuplicatePayment):
		return "duplicate"
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrClientNotFound):
		return "rejected"
	default:
		return "error"
	}
}
