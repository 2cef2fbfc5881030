package infra

// pdf.go — Ledger export using go-pdf/fpdf.
// Renders an A4 report for one puesto: site header, date range, then one row
// per acta (date, time, classification, author, body).

import (
	"fmt"
	"io"

	"actalibro/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateLibroPDF writes the actas ledger of a puesto to w.
// actas are expected newest-first; rango is a preformatted label ("01/05/2026 – 31/05/2026")
// or empty for the full history.
func GenerateLibroPDF(w io.Writer, barrio *model.Barrio, puesto *model.Puesto, actas []model.Acta, rango string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Libro de Actas", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s — %s", barrio.Nombre, puesto.Nombre), "", 1, "C", false, 0, "")
	if rango != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 5, rango, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Column layout ─────────────────────────────────────────────────────────
	colFecha := contentW * 0.13
	colHora := contentW * 0.08
	colClasif := contentW * 0.20
	colAutor := contentW * 0.19
	colCuerpo := contentW - colFecha - colHora - colClasif - colAutor

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colFecha, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colHora, 6, "Hora", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colClasif, 6, "Clasificación", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colAutor, 6, "Autor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCuerpo, 6, "Descripción", "B", 1, "L", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, a := range actas {
		autor := ""
		if a.Autor != nil {
			autor = a.Autor.NombreCompleto
		}
		y := pdf.GetY()
		pdf.CellFormat(colFecha, 5, a.FechaEvento.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colHora, 5, a.HoraEvento, "", 0, "L", false, 0, "")
		pdf.CellFormat(colClasif, 5, truncate(a.Clasificacion, 26), "", 0, "L", false, 0, "")
		pdf.CellFormat(colAutor, 5, truncate(autor, 24), "", 0, "L", false, 0, "")
		// Body wraps over multiple lines; the other cells stay on the first.
		pdf.MultiCell(colCuerpo, 5, a.Cuerpo, "", "L", false)
		if pdf.GetY() < y+5 {
			pdf.SetY(y + 5)
		}
		pdf.Ln(1)
	}

	if len(actas) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 8, "Sin actas registradas en el período.", "", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

// truncate shortens s to at most n runes, never cutting a multi-byte
// character in half.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
