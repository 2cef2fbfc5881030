package infra

// excel.go — Ledger export as an XLSX workbook using excelize.
// One sheet per export with a frozen header row; columns mirror the PDF report.

import (
	"fmt"
	"io"

	"actalibro/internal/model"

	"github.com/xuri/excelize/v2"
)

// GenerateLibroXLSX writes the actas ledger of a puesto to w as a spreadsheet.
func GenerateLibroXLSX(w io.Writer, barrio *model.Barrio, puesto *model.Puesto, actas []model.Acta) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Actas"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("excel: new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Fecha", "Hora", "Clasificación", "Autor", "Descripción", "Adjunto"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("excel: header: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for row, a := range actas {
		autor := ""
		if a.Autor != nil {
			autor = a.Autor.NombreCompleto
		}
		adjunto := ""
		if a.Adjunto != nil {
			adjunto = *a.Adjunto
		}
		values := []interface{}{
			a.FechaEvento.Format("02/01/2006"),
			a.HoraEvento,
			a.Clasificacion,
			autor,
			a.Cuerpo,
			adjunto,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("excel: row %d: %w", row+2, err)
			}
		}
	}

	// Readable column widths for the free-text columns.
	_ = f.SetColWidth(sheet, "A", "B", 12)
	_ = f.SetColWidth(sheet, "C", "D", 24)
	_ = f.SetColWidth(sheet, "E", "E", 60)
	_ = f.SetColWidth(sheet, "F", "F", 30)

	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Libro de Actas — %s / %s", barrio.Nombre, puesto.Nombre),
		Creator: "ActaLibro",
	})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel: write: %w", err)
	}
	return nil
}
