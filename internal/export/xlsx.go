// Package export renders quotes as XLSX workbooks, for download over the API
// or for writing to disk from the CLI.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/heizplus/pricing-api/internal/quote"
)

const sheetName = "Angebot"

// Workbook builds an XLSX workbook with the full quote breakdown. Callers
// own the returned file and must Close it.
func Workbook(q quote.Quote) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	f.SetCellValue(sheetName, "A1", "Heizung+ Angebot")
	f.SetCellValue(sheetName, "A2", "Quote ID")
	f.SetCellValue(sheetName, "B2", q.ID)
	f.SetCellValue(sheetName, "A3", "Bundle")
	f.SetCellValue(sheetName, "B3", q.Bundle.Kind)
	f.SetCellValue(sheetName, "A4", "Wohneinheiten")
	f.SetCellValue(sheetName, "B4", q.Input.UnitCount)
	f.SetCellValue(sheetName, "A5", "Wohnfläche (m²)")
	f.SetCellValue(sheetName, "B5", q.Input.AreaM2)

	headers := []string{"Product", "Original Price", "After 20% Discount", "Förderung", "Final Price"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 7)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, row := range q.Rows {
		values := []any{row.Product, row.Original, row.Discounted, row.Subsidy, row.Final}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+8)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	totalsRow := len(q.Rows) + 9
	totals := []struct {
		label string
		value string
	}{
		{"Full Price", q.Summary.FullPrice},
		{"User Pays", q.Summary.UserPays},
		{"Förderung", q.Summary.Subsidy},
		{"Rabatt", q.Summary.DiscountNote},
		{"Investitionsgrenze", q.Bundle.InvestmentCeiling.String()},
	}
	for i, entry := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(1, totalsRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, totalsRow+i)
		f.SetCellValue(sheetName, labelCell, entry.label)
		f.SetCellValue(sheetName, valueCell, entry.value)
	}

	noteCell, _ := excelize.CoordinatesToCellName(1, totalsRow+len(totals)+1)
	f.SetCellValue(sheetName, noteCell, q.Disclosure.Text)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}
	f.SetCellStyle(sheetName, "A1", "A5", bold)
	f.SetCellStyle(sheetName, "A7", "E7", bold)
	lastLabel, _ := excelize.CoordinatesToCellName(1, totalsRow+len(totals)-1)
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalsRow), lastLabel, bold)

	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "B", "E", 20)

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	return f, nil
}

// Save writes the workbook for the quote to the given path.
func Save(q quote.Quote, path string) error {
	f, err := Workbook(q)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Filename names the download after the building parameters.
func Filename(q quote.Quote) string {
	return fmt.Sprintf("heizung-plus-angebot-%dwe-%dm2.xlsx", q.Input.UnitCount, q.Input.AreaM2)
}
