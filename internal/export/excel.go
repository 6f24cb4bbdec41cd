// Package export renders reservation reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

var headerColumns = []string{"Room", "Date", "Start", "End", "Requester"}

// Writer builds an Excel workbook with one sheet per room, rows sorted
// by date and start time.
type Writer struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewWriter creates an empty workbook.
func NewWriter() *Writer {
	return &Writer{file: excelize.NewFile()}
}

// WriteReport writes a full reservation report grouped by room.
func (w *Writer) WriteReport(reservations []models.Reservation) error {
	byRoom := make(map[string][]models.Reservation)
	var rooms []string
	for _, r := range reservations {
		if _, ok := byRoom[r.Room]; !ok {
			rooms = append(rooms, r.Room)
		}
		byRoom[r.Room] = append(byRoom[r.Room], r)
	}
	sort.Strings(rooms)

	for _, room := range rooms {
		rows := byRoom[room]
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].Date.Equal(rows[j].Date) {
				return rows[i].Date.Before(rows[j].Date)
			}
			return rows[i].Start < rows[j].Start
		})

		if err := w.addSheet(room); err != nil {
			return err
		}
		if err := w.writeHeader(); err != nil {
			return err
		}
		for _, r := range rows {
			row := []interface{}{
				r.Room,
				r.Date.Format(models.DisplayDateLayout),
				r.Start.String(),
				r.End.String(),
				r.Requester,
			}
			if err := w.writeRow(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) addSheet(name string) error {
	// Excel caps sheet names at 31 chars
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *Writer) writeHeader() error {
	for i, col := range headerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(headerColumns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

func (w *Writer) writeRow(row []interface{}) error {
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// Save writes the workbook to wr.
func (w *Writer) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *Writer) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

// Close releases workbook resources.
func (w *Writer) Close() error {
	return w.file.Close()
}
