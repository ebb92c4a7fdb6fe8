package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/invoice"
	"github.com/tailwag/walkops/internal/models"
)

var _ interfaces.InvoiceServiceInterface = (*InvoiceService)(nil)

// InvoiceService müşteri faturalarını derler ve PDF'e döker
type InvoiceService struct {
	clientRepo interfaces.ClientRepositoryInterface
	walkRepo   interfaces.WalkRepositoryInterface
	compiler   *invoice.Compiler
	now        func() time.Time
}

// NewInvoiceService yeni service oluşturur
func NewInvoiceService(clientRepo interfaces.ClientRepositoryInterface, walkRepo interfaces.WalkRepositoryInterface, compiler *invoice.Compiler) *InvoiceService {
	return &InvoiceService{
		clientRepo: clientRepo,
		walkRepo:   walkRepo,
		compiler:   compiler,
		now:        time.Now,
	}
}

// CompileInvoice müşterinin completed walk'larından fatura derler
func (s *InvoiceService) CompileInvoice(ctx context.Context, clientID int) (*models.InvoiceDocument, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	walks, err := s.walkRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("müşteri walk'ları alınamadı: %w", err)
	}

	doc := s.compiler.Compile(client, walks, s.now())

	log.Info().
		Int("client_id", clientID).
		Str("invoice", doc.Number).
		Int("lines", len(doc.Lines)).
		Int("pages", len(doc.Pages)).
		Str("total", doc.Total.StringFixed(2)).
		Msg("🧾 Fatura derlendi")

	return doc, nil
}

// WritePDF faturayı PDF olarak w'ya yazar
func (s *InvoiceService) WritePDF(doc *models.InvoiceDocument, w io.Writer) error {
	r := invoice.NewPDFRenderer()
	s.compiler.Draw(doc, r)
	if err := r.Output(w); err != nil {
		return fmt.Errorf("PDF yazılamadı: %w", err)
	}
	return nil
}

// SavePDF faturayı dosyaya kaydeder
func (s *InvoiceService) SavePDF(doc *models.InvoiceDocument, path string) error {
	return s.compiler.Render(doc, invoice.NewPDFRenderer(), path)
}
