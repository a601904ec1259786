// Package export implementa backup.ReportRenderer: libro Excel (excelize), reporte de texto plano
// y reporte PDF (Maroto v2). Los montos se formatean en Rupiah con separadores indonesios.
package export

import (
	"github.com/shopspring/decimal"
	"github.com/umkmhub/umkm-api/internal/application/backup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Verificar en tiempo de compilación que Renderer implementa ReportRenderer.
var _ backup.ReportRenderer = (*Renderer)(nil)

// Renderer agrupa los tres formatos de exportación.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer construye el renderer con formato numérico indonesio.
func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.Indonesian)}
}

// FormatRupiah "Rp 1.250.000" (redondeado a entero).
func (r *Renderer) FormatRupiah(d decimal.Decimal) string {
	return r.printer.Sprintf("Rp %d", d.Round(0).IntPart())
}

func (r *Renderer) formatInt(n int) string {
	return r.printer.Sprintf("%d", n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
