package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/umkmhub/umkm-api/internal/application/backup"
)

// Text reporte de texto plano: resumen de inventario, ventas del periodo y productos con stock bajo.
func (r *Renderer) Text(rep *backup.Report) ([]byte, error) {
	var b bytes.Buffer
	rule := strings.Repeat("=", 48)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "LAPORAN USAHA")
	fmt.Fprintln(&b, orDash(rep.BusinessName))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Dibuat  : %s\n", rep.GeneratedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Periode : %s - %s\n\n", rep.From.Format("02/01/2006"), rep.To.Format("02/01/2006"))

	fmt.Fprintln(&b, "RINGKASAN INVENTARIS")
	fmt.Fprintf(&b, "  Produk aktif      : %s\n", r.formatInt(rep.Inventory.ActiveProducts))
	fmt.Fprintf(&b, "  Total stok        : %s\n", r.formatInt(rep.Inventory.TotalStock))
	fmt.Fprintf(&b, "  Potensi omzet     : %s\n", r.FormatRupiah(rep.Inventory.Omzet))
	fmt.Fprintf(&b, "  Potensi laba      : %s\n\n", r.FormatRupiah(rep.Inventory.Laba))

	fmt.Fprintln(&b, "PENJUALAN")
	fmt.Fprintf(&b, "  Transaksi         : %s\n", r.formatInt(rep.Sales.Transactions))
	fmt.Fprintf(&b, "  Unit terjual      : %s\n", r.formatInt(rep.Sales.UnitsSold))
	fmt.Fprintf(&b, "  Pendapatan        : %s\n\n", r.FormatRupiah(rep.Sales.Revenue))

	if len(rep.TopProducts) > 0 {
		fmt.Fprintln(&b, "PRODUK TERLARIS")
		for i, p := range rep.TopProducts {
			fmt.Fprintf(&b, "  %2d. %-24s %6d unit  %s\n", i+1, truncate(orDash(p.ProductName), 24), p.UnitsSold, r.FormatRupiah(p.Revenue))
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "STOK MENIPIS")
	if len(rep.LowStock) == 0 {
		fmt.Fprintln(&b, "  Tidak ada")
	}
	for _, p := range rep.LowStock {
		fmt.Fprintf(&b, "  - %s (stok %d)\n", p.Name, p.Stock)
	}
	fmt.Fprintln(&b, rule)
	return b.Bytes(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
