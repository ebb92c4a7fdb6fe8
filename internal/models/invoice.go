package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine faturadaki tek walk satırı
type InvoiceLine struct {
	WalkID      int             `json:"walkId"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	WalkerName  string          `json:"walkerName"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoicePage lines [FirstLine, FirstLine+LineCount) of the document go on this page.
type InvoicePage struct {
	Number     int  `json:"number"`
	HasHeader  bool `json:"hasHeader"`
	FirstLine  int  `json:"firstLine"`
	LineCount  int  `json:"lineCount"`
	HasSummary bool `json:"hasSummary"`
}

// InvoiceDocument derlenmiş fatura. Built once by the compiler and only read afterwards.
type InvoiceDocument struct {
	Number       string          `json:"number"`
	BusinessName string          `json:"businessName"`
	IssuedAt     time.Time       `json:"issuedAt"`
	ClientID     int             `json:"clientId"`
	ClientName   string          `json:"clientName"`
	ClientEmail  string          `json:"clientEmail"`
	Balance      decimal.Decimal `json:"balance"`
	Lines        []InvoiceLine   `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	Pages        []InvoicePage   `json:"pages"`
}

// PageLines sayfaya düşen satırları döner
func (d *InvoiceDocument) PageLines(p InvoicePage) []InvoiceLine {
	return d.Lines[p.FirstLine : p.FirstLine+p.LineCount]
}
