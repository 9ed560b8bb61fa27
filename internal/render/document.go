// Package render turns a stored packing list into printable HTML and PDF.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"packing_tracker/internal/models"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var packingListTemplate = template.Must(
	template.New("packing_list.html").Funcs(template.FuncMap{
		"kg": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).ParseFS(templateFS, "templates/packing_list.html"),
)

// Document is a packing list laid out carton by carton.
type Document struct {
	PLNumber      string
	PONumber      string
	CreatedAt     time.Time
	TotalCartons  int
	TotalItems    int
	TotalQuantity int64
	TotalWeight   decimal.Decimal
	Cartons       []CartonGroup
}

// CartonGroup holds the rows printed under one merged carton cell.
type CartonGroup struct {
	Number int
	Type   string
	Weight decimal.Decimal
	Lines  []Line
}

type Line struct {
	ItemNumber  string
	Description string
	Color       string
	Quantity    string
}

// Rowspan is the number of table rows the carton cell spans.
func (g CartonGroup) Rowspan() int {
	if len(g.Lines) == 0 {
		return 1
	}
	return len(g.Lines)
}

// FromPackingList groups stored lines by carton. Lines must already be in
// carton order.
func FromPackingList(pl *models.PackingList) Document {
	doc := Document{
		PLNumber:      pl.PLNumber,
		PONumber:      pl.PONumber,
		CreatedAt:     pl.CreatedAt,
		TotalCartons:  pl.TotalCartons,
		TotalItems:    pl.TotalItems,
		TotalQuantity: pl.TotalQuantity,
		TotalWeight:   decimal.Zero,
	}
	for _, l := range pl.Lines {
		n := len(doc.Cartons)
		if n == 0 || doc.Cartons[n-1].Number != l.CartonNumber {
			doc.Cartons = append(doc.Cartons, CartonGroup{
				Number: l.CartonNumber,
				Type:   l.CartonType,
				Weight: l.CartonWeight,
			})
			doc.TotalWeight = doc.TotalWeight.Add(l.CartonWeight)
			n++
		}
		doc.Cartons[n-1].Lines = append(doc.Cartons[n-1].Lines, Line{
			ItemNumber:  l.ItemNumber,
			Description: l.Description,
			Color:       l.Color,
			Quantity:    l.Quantity,
		})
	}
	return doc
}

// HTML renders the document as a standalone page.
func HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := packingListTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
