// Package invoice compiles a client's completed walks into a paginated
// billing statement and draws it on a page renderer.
package invoice

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/models"
)

// Layout page geometry in millimetres. Defaults match A4 portrait.
type Layout struct {
	PageWidth         float64
	PageHeight        float64
	Margin            float64
	HeaderHeight      float64 // business/client block, first page only
	TableHeaderHeight float64 // column titles, every page with lines
	LineHeight        float64
	SummaryHeight     float64 // totals block
}

// DefaultLayout A4 portrait, 20mm margins
func DefaultLayout() Layout {
	return Layout{
		PageWidth:         210,
		PageHeight:        297,
		Margin:            20,
		HeaderHeight:      45,
		TableHeaderHeight: 10,
		LineHeight:        8,
		SummaryHeight:     22,
	}
}

func (l Layout) usable() float64 {
	return l.PageHeight - 2*l.Margin
}

// fits a page must hold the first-page header plus one line, and the summary on its own.
func (l Layout) fits() bool {
	if l.LineHeight <= 0 || l.PageWidth <= 2*l.Margin {
		return false
	}
	u := l.usable()
	return u >= l.HeaderHeight+l.TableHeaderHeight+l.LineHeight && u >= l.SummaryHeight
}

// Compiler fatura derleyici
type Compiler struct {
	normalizer   *dates.Normalizer
	layout       Layout
	businessName string
	newID        func() string
}

// NewCompiler yeni compiler oluşturur. A layout that cannot hold a single
// line falls back to DefaultLayout.
func NewCompiler(normalizer *dates.Normalizer, layout Layout, businessName string) *Compiler {
	if !layout.fits() {
		layout = DefaultLayout()
	}
	return &Compiler{
		normalizer:   normalizer,
		layout:       layout,
		businessName: businessName,
		newID:        uuid.NewString,
	}
}

// Layout compiler'ın sayfa geometrisi
func (c *Compiler) Layout() Layout {
	return c.layout
}

// Compile builds the invoice for client from its completed walks.
// Neither client nor walks are modified.
func (c *Compiler) Compile(client *models.Client, walks []*models.Walk, issuedAt time.Time) *models.InvoiceDocument {
	lines := c.buildLines(client.ID, walks)

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}

	return &models.InvoiceDocument{
		Number:       c.invoiceNumber(issuedAt),
		BusinessName: c.businessName,
		IssuedAt:     issuedAt,
		ClientID:     client.ID,
		ClientName:   client.Name,
		ClientEmail:  client.Email,
		Balance:      client.Balance,
		Lines:        lines,
		Total:        total,
		Pages:        Paginate(c.layout, len(lines)),
	}
}

func (c *Compiler) invoiceNumber(issuedAt time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(c.newID(), "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("INV-%s-%s", c.normalizer.Key(issuedAt), id)
}

func (c *Compiler) buildLines(clientID int, walks []*models.Walk) []models.InvoiceLine {
	lines := make([]models.InvoiceLine, 0)
	for _, w := range walks {
		if w == nil || w.ClientID != clientID || w.Status != models.WalkCompleted {
			continue
		}

		date := w.Date
		if key, err := c.normalizer.Normalize(w.Date); err == nil {
			date = key
		}

		// eksik tutar satırı bozmaz, 0 sayılır
		amount := decimal.Zero
		if w.BillingAmount != nil {
			amount = *w.BillingAmount
		}

		walker := w.WalkerName
		if walker == "" {
			walker = models.UnassignedWalkerName
		}

		lines = append(lines, models.InvoiceLine{
			WalkID:      w.ID,
			Date:        date,
			Description: describe(w),
			WalkerName:  walker,
			Amount:      amount,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Date != lines[j].Date {
			return lines[i].Date < lines[j].Date
		}
		return lines[i].WalkID < lines[j].WalkID
	})

	return lines
}

func describe(w *models.Walk) string {
	var label string
	if w.Duration.Overnight || w.Duration.Minutes > 0 {
		label = w.Duration.Label()
	}
	parts := []string{"Dog walk"}
	if label != "" {
		parts = append(parts, label)
	}
	if w.TimeSlot != "" {
		parts = append(parts, w.TimeSlot)
	}
	return strings.Join(parts, " - ")
}

// Paginate distributes lineCount table rows over pages. The first page starts
// with the header block, every page holding rows gets the column titles, and
// the totals block goes on the last page if it fits, else on a page of its own.
func Paginate(layout Layout, lineCount int) []models.InvoicePage {
	usable := layout.usable()

	pages := []models.InvoicePage{{Number: 1, HasHeader: true}}
	used := layout.HeaderHeight + layout.TableHeaderHeight

	for i := 0; i < lineCount; i++ {
		cur := &pages[len(pages)-1]
		if used+layout.LineHeight > usable && cur.LineCount > 0 {
			pages = append(pages, models.InvoicePage{Number: len(pages) + 1, FirstLine: i})
			used = layout.TableHeaderHeight
			cur = &pages[len(pages)-1]
		}
		if cur.LineCount == 0 {
			cur.FirstLine = i
		}
		cur.LineCount++
		used += layout.LineHeight
	}

	if used+layout.SummaryHeight > usable {
		pages = append(pages, models.InvoicePage{Number: len(pages) + 1, FirstLine: lineCount})
	}
	pages[len(pages)-1].HasSummary = true

	return pages
}
