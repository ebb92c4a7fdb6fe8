package invoice

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer Renderer backed by fpdf, A4 portrait in millimetres.
type PDFRenderer struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewPDFRenderer yeni PDF renderer oluşturur
func NewPDFRenderer() *PDFRenderer {
	pdf := fpdf.New("P", "mm", "A4", "")
	// pagination is decided by the compiler
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Invoice", true)
	return &PDFRenderer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *PDFRenderer) NewPage() {
	p.pdf.AddPage()
	p.pdf.SetFont("Helvetica", "", bodySize)
}

func (p *PDFRenderer) PlaceText(x, y, size float64, text string) {
	p.pdf.SetFontSize(size)
	p.pdf.Text(x, y, p.translate(text))
}

func (p *PDFRenderer) DrawRect(x, y, w, h float64) {
	p.pdf.Rect(x, y, w, h, "D")
}

// SaveAs PDF'i dosyaya yazar ve kapatır
func (p *PDFRenderer) SaveAs(path string) error {
	return p.pdf.OutputFileAndClose(path)
}

// Output PDF'i w'ya stream eder (HTTP yanıtı için)
func (p *PDFRenderer) Output(w io.Writer) error {
	return p.pdf.Output(w)
}
