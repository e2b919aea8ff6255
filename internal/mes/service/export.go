package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var checkExportHeaders = []string{
	"ID", "Order ID", "Parameter", "Value", "Spec Min", "Spec Max", "Passed", "Checked At",
}

// Export renders the quality checks of one order (or all checks when
// orderID is 0) into a spreadsheet.
func (s *QualityCheckService) Export(ctx context.Context, orderID uint) (*excelize.File, string, error) {
	checks, err := s.List(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Quality Checks"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range checkExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, check := range checks {
		row := rowIdx + 2
		result := "FAIL"
		if check.Passed {
			result = "PASS"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), check.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), check.OrderID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), check.Parameter)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), check.Value)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), check.SpecificationMin)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), check.SpecificationMax)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), result)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), check.CheckedAt.Format(time.RFC3339))
	}

	filename := fmt.Sprintf("quality-checks-%s.xlsx", time.Now().Format("20060102"))
	if orderID != 0 {
		filename = fmt.Sprintf("quality-checks-order-%d-%s.xlsx", orderID, time.Now().Format("20060102"))
	}
	return f, filename, nil
}
