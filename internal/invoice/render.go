package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/models"
)

// Renderer paged text/graphics backend. Coordinates are millimetres from the
// top-left corner of the current page.
type Renderer interface {
	NewPage()
	PlaceText(x, y, size float64, text string)
	DrawRect(x, y, w, h float64)
	SaveAs(path string) error
}

const (
	titleSize  = 18
	headerSize = 11
	bodySize   = 10
	footerSize = 8
)

// column x offsets relative to the left margin
var (
	colDate   = 2.0
	colDesc   = 28.0
	colWalker = 100.0
	colAmount = 145.0
)

// Draw lays every page of doc out on r. It does not save.
func (c *Compiler) Draw(doc *models.InvoiceDocument, r Renderer) {
	l := c.layout
	left := l.Margin
	width := l.PageWidth - 2*l.Margin

	for _, page := range doc.Pages {
		r.NewPage()
		y := l.Margin

		if page.HasHeader {
			r.PlaceText(left, y+8, titleSize, doc.BusinessName)
			r.PlaceText(left, y+16, headerSize, "Invoice "+doc.Number)
			r.PlaceText(left, y+23, bodySize, "Issued: "+c.normalizer.Key(doc.IssuedAt))
			r.PlaceText(left, y+32, headerSize, "Bill to: "+doc.ClientName)
			if doc.ClientEmail != "" {
				r.PlaceText(left, y+39, bodySize, doc.ClientEmail)
			}
			y += l.HeaderHeight
		}

		if page.LineCount > 0 || page.HasHeader {
			r.DrawRect(left, y, width, l.TableHeaderHeight)
			baseline := y + l.TableHeaderHeight - 3
			r.PlaceText(left+colDate, baseline, bodySize, "Date")
			r.PlaceText(left+colDesc, baseline, bodySize, "Description")
			r.PlaceText(left+colWalker, baseline, bodySize, "Walker")
			r.PlaceText(left+colAmount, baseline, bodySize, "Amount")
			y += l.TableHeaderHeight
		}

		for _, line := range doc.PageLines(page) {
			baseline := y + l.LineHeight - 2
			r.PlaceText(left+colDate, baseline, bodySize, line.Date)
			r.PlaceText(left+colDesc, baseline, bodySize, line.Description)
			r.PlaceText(left+colWalker, baseline, bodySize, line.WalkerName)
			r.PlaceText(left+colAmount, baseline, bodySize, formatMoney(line.Amount))
			y += l.LineHeight
		}

		if page.HasSummary {
			r.DrawRect(left, y, width, l.SummaryHeight)
			r.PlaceText(left+colWalker, y+8, headerSize, "Total")
			r.PlaceText(left+colAmount, y+8, headerSize, formatMoney(doc.Total))
			r.PlaceText(left+colWalker, y+16, bodySize, "Current balance")
			r.PlaceText(left+colAmount, y+16, bodySize, formatMoney(doc.Balance))
		}

		r.PlaceText(left, l.PageHeight-l.Margin/2, footerSize,
			fmt.Sprintf("Page %d of %d", page.Number, len(doc.Pages)))
	}
}

// Render draws doc and saves it to path.
func (c *Compiler) Render(doc *models.InvoiceDocument, r Renderer, path string) error {
	c.Draw(doc, r)
	if err := r.SaveAs(path); err != nil {
		return fmt.Errorf("save invoice %s: %w", doc.Number, err)
	}
	return nil
}

// formatMoney two decimals only at display time
func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
