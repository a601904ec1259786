package export

import (
	"fmt"

	"github.com/umkmhub/umkm-api/internal/application/backup"
	"github.com/xuri/excelize/v2"
)

const (
	sheetProducts = "Produk"
	sheetSales    = "Penjualan"
)

var (
	productHeader = []any{"ID", "Nama", "Kategori", "Harga", "Modal", "Stok", "Aktif", "Dibuat"}
	salesHeader   = []any{"ID", "Tanggal", "Produk", "Jumlah", "Harga", "Total"}
)

// Excel genera el libro con una hoja de productos y otra de ventas. Los montos van como número
// para que la hoja pueda sumarlos.
func (r *Renderer) Excel(rep *backup.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetProducts); err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	if _, err := f.NewSheet(sheetSales); err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	if err := writeRow(f, sheetProducts, 1, productHeader); err != nil {
		return nil, err
	}
	for i, p := range rep.Products {
		var price, cost any
		if p.Price.Valid {
			price = p.Price.Decimal.InexactFloat64()
		}
		if p.Cost.Valid {
			cost = p.Cost.Decimal.InexactFloat64()
		}
		active := "Tidak"
		if p.IsActive {
			active = "Ya"
		}
		row := []any{p.ID, p.Name, p.Category, price, cost, p.Stock, active, p.CreatedAt.Format("2006-01-02")}
		if err := writeRow(f, sheetProducts, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, sheetSales, 1, salesHeader); err != nil {
		return nil, err
	}
	for i, s := range rep.SalesRows {
		row := []any{
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.ProductName,
			s.Quantity,
			s.Price.InexactFloat64(),
			s.Total.InexactFloat64(),
		}
		if err := writeRow(f, sheetSales, i+2, row); err != nil {
			return nil, err
		}
	}

	for sheet, last := range map[string]string{sheetProducts: "H", sheetSales: "F"} {
		if err := f.SetCellStyle(sheet, "A1", last+"1", header); err != nil {
			return nil, fmt.Errorf("excel: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return nil, fmt.Errorf("excel: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("excel: fila %d de %s: %w", n, sheet, err)
	}
	return nil
}
