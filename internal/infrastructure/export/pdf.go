package export

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/umkmhub/umkm-api/internal/application/backup"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Layout A4:
//
//	HEADER: nombre del negocio + periodo
//	RESUMEN: potensi omzet / laba | pendapatan realisasi
//	TABLA: produk terlaris
//	TABLA: penjualan harian (solo días con ventas)
//	STOK MENIPIS

// PDF genera el reporte de ventas.
func (r *Renderer) PDF(rep *backup.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Laporan Penjualan", true).
		WithAuthor(orDash(rep.BusinessName), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(r.summaryRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PRODUK TERLARIS"))
	m.AddRows(tableHeader([]string{"Produk", "Unit", "Pendapatan"}, []int{6, 2, 4}))
	for _, p := range rep.TopProducts {
		m.AddRows(tableRow([]string{orDash(p.ProductName), r.formatInt(p.UnitsSold), r.FormatRupiah(p.Revenue)}, []int{6, 2, 4}))
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("PENJUALAN HARIAN"))
	m.AddRows(tableHeader([]string{"Tanggal", "Transaksi", "Unit", "Pendapatan"}, []int{3, 3, 2, 4}))
	for _, d := range rep.Daily {
		if d.Transactions == 0 {
			continue
		}
		m.AddRows(tableRow([]string{d.Date, r.formatInt(d.Transactions), r.formatInt(d.UnitsSold), r.FormatRupiah(d.Revenue)}, []int{3, 3, 2, 4}))
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("STOK MENIPIS"))
	if len(rep.LowStock) == 0 {
		m.AddRows(tableRow([]string{"Tidak ada"}, []int{12}))
	}
	for _, p := range rep.LowStock {
		m.AddRows(tableRow([]string{p.Name, fmt.Sprintf("stok %d", p.Stock)}, []int{8, 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) headerRow(rep *backup.Report) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(orDash(rep.BusinessName), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(orDash(rep.OwnerEmail), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("LAPORAN PENJUALAN", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s - %s", rep.From.Format("02/01/2006"), rep.To.Format("02/01/2006")), props.Text{
				Size: 8, Align: align.Right, Top: 8,
			}),
			text.New("Dibuat: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func (r *Renderer) summaryRow(rep *backup.Report) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 11, Top: top})
	}
	return row.New(22).Add(
		col.New(4).Add(label("POTENSI OMZET"), value(r.FormatRupiah(rep.Inventory.Omzet), 6),
			text.New(fmt.Sprintf("%s produk aktif", r.formatInt(rep.Inventory.ActiveProducts)), props.Text{Size: 7, Top: 14, Color: colorGray})),
		col.New(4).Add(label("POTENSI LABA"), value(r.FormatRupiah(rep.Inventory.Laba), 6)),
		col.New(4).Add(label("PENDAPATAN"), value(r.FormatRupiah(rep.Sales.Revenue), 6),
			text.New(fmt.Sprintf("%s transaksi", r.formatInt(rep.Sales.Transactions)), props.Text{Size: 7, Top: 14, Color: colorGray})),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}
