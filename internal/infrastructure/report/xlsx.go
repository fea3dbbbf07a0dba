// Package report renders dashboard data as downloadable spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

const (
	sheetName    = "Attendance"
	defaultSheet = "Sheet1"
)

var userHeader = []any{"Name", "Email", "Status", "Entry", "Exit", "Hours", "Outside schedule"}

// XLSXExporter writes DailyStats as a single-sheet workbook: a summary block
// followed by one row per user.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string {
	return "xlsx"
}

func (XLSXExporter) WriteDailyStats(w io.Writer, stats *ports.DailyStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	summary := [][]any{
		{"Date", stats.Date},
		{"Total users", stats.TotalUsers},
		{"Present", stats.Present},
		{"In progress", stats.InProgress},
		{"Completed", stats.Completed},
		{"Incomplete", stats.Incomplete},
		{"Absent", stats.Absent},
		{"Outside schedule", stats.OutsideSchedule},
		{"Total hours", stats.TotalHours},
		{"Average hours", stats.AverageHours},
	}

	row := 1
	for _, values := range summary {
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	headerRow := row
	if err := setRow(f, row, userHeader); err != nil {
		return err
	}
	for _, u := range stats.Users {
		row++
		outside := "No"
		if u.OutsideSchedule {
			outside = "Yes"
		}
		if err := setRow(f, row, []any{u.Name, u.Email, u.Status, u.EntryTime, u.ExitTime, u.HoursWorked, outside}); err != nil {
			return err
		}
	}

	if err := styleHeader(f, headerRow); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", "G", 18); err != nil {
		return fmt.Errorf("xlsx width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("xlsx row %d: %w", row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, row int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	from, _ := excelize.CoordinatesToCellName(1, row)
	to, _ := excelize.CoordinatesToCellName(len(userHeader), row)
	if err := f.SetCellStyle(sheetName, from, to, style); err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	return nil
}
