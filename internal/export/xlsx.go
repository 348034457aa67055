// Package export renders inventory listings as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

var equipmentHeader = []string{
	"Name",
	"Type",
	"Condition",
	"Serial Number",
	"Purchase Date",
	"Location",
	"Region",
	"County",
	"Sub-County",
	"Created",
}

var staffHeader = []string{
	"Surname",
	"First Name",
	"Other Names",
	"Gender",
	"Personal Number",
	"Job Title",
	"Job Group",
	"CSG",
	"Terms of Service",
	"Date Hired",
	"Location",
	"Region",
	"County",
	"Sub-County",
}

// EquipmentXLSX renders the equipment listing as a single-sheet workbook.
func EquipmentXLSX(items []models.Equipment) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, e := range items {
		rows = append(rows, []any{
			e.Name,
			string(e.Type),
			string(e.Condition),
			strOrEmpty(e.SerialNumber),
			dateOrEmpty(e.PurchaseDate),
			string(e.Location),
			strOrEmpty(e.RegionID),
			strOrEmpty(e.CountyID),
			strOrEmpty(e.SubCountyID),
			e.CreatedAt.Format("2006-01-02"),
		})
	}
	return sheet("Equipment", equipmentHeader, rows)
}

// StaffXLSX renders the staff listing as a single-sheet workbook.
func StaffXLSX(items []models.Staff) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, s := range items {
		rows = append(rows, []any{
			s.Surname,
			s.FirstName,
			strOrEmpty(s.OtherNames),
			string(s.Gender),
			s.PersonalNumber,
			s.JobTitle,
			s.JobGroup,
			s.CSG,
			string(s.TermsOfService),
			s.DateHired.Format("2006-01-02"),
			string(s.Location),
			strOrEmpty(s.RegionID),
			strOrEmpty(s.CountyID),
			strOrEmpty(s.SubCountyID),
		})
	}
	return sheet("Staff", staffHeader, rows)
}

func sheet(name string, header []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(name)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// Freeze the header row.
	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
