package export

import (
	"io"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/tealeg/xlsx"
)

// ProductsXLSX writes a spreadsheet of the given products.
func ProductsXLSX(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	// Header row
	headers := []string{"ID", "Name", "Description", "Price", "Category", "Subcategory", "Image", "CreatedAt"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	// Data rows
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.Hex())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Subcategory)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}
