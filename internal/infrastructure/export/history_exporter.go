// Package export serializa el historial de transacciones de un artículo a
// formatos descargables (CSV y XLSX).
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var historyHeaders = []string{
	"Fecha", "Tipo", "Cantidad", "Precio unitario", "Precio total",
	"Referencia", "Motivo", "Registrado por",
}

const dateLayout = "2006-01-02 15:04"

// WriteCSV escribe el historial como CSV con encabezados en la primera fila.
func WriteCSV(w io.Writer, txns []*entity.StockTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeaders); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, t := range txns {
		row := []string{
			t.Date.Format(dateLayout),
			string(t.Type),
			t.Quantity.String(),
			decimalString(t.UnitPrice),
			decimalString(t.TotalPrice),
			t.Reference,
			t.Reason,
			t.CreatedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX genera un libro XLSX con una hoja "Historial" y devuelve sus bytes.
func WriteXLSX(item *entity.Item, txns []*entity.StockTransaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Historial"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Historial de movimientos: %s (%s)", item.Name, item.SKU))
	for i, h := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, t := range txns {
		values := []any{
			t.Date.Format(dateLayout),
			string(t.Type),
			t.Quantity.InexactFloat64(),
			decimalString(t.UnitPrice),
			decimalString(t.TotalPrice),
			t.Reference,
			t.Reason,
			t.CreatedBy,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
