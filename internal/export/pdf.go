package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// FilterLine renders the applied listing filters for the PDF header.
func FilterLine(search, minPrice, maxPrice, sortBy string) string {
	parts := []string{}
	if search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", search))
	}
	if minPrice != "" {
		parts = append(parts, "min="+minPrice)
	}
	if maxPrice != "" {
		parts = append(parts, "max="+maxPrice)
	}
	if sortBy != "" {
		parts = append(parts, "sort="+sortBy)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " | ")
}

// ProductsPDF writes the product list as a PDF table with the applied
// filters and item count in the header.
func ProductsPDF(w io.Writer, products []models.Product, filters string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Product List")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Filters: "+filters)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Items: %d", len(products)))
	pdf.Ln(10)

	widths := []float64{45, 25, 30, 30, 60}
	columns := []string{"Name", "Price", "Category", "Subcategory", "Description"}

	pdf.SetFont("Arial", "B", 9)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, p := range products {
		cells := []string{
			p.Name,
			fmt.Sprintf("Rs. %.2f", p.Price),
			p.Category,
			p.Subcategory,
			p.Description,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
