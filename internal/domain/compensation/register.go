package compensation

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Salaries"

var registerColumns = []string{
	"Staff", "Period start", "Period end", "Hours", "Hourly total", "Fixed salary",
	"Commission base", "Commission %", "Commission total", "Bonuses", "Deductions", "Net pay", "Status",
}

// ExportRegister writes the filtered salary records as an xlsx workbook.
func (s *Service) ExportRegister(ctx context.Context, filter Filter) ([]byte, error) {
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return RenderRegister(records)
}

func RenderRegister(records []SalaryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, col := range registerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(registerSheet, cell, col); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		end, _ := excelize.CoordinatesToCellName(len(registerColumns), 1)
		_ = f.SetCellStyle(registerSheet, "A1", end, style)
	}

	for r, rec := range records {
		hours := ""
		if rec.HoursWorked != nil {
			hours = rec.HoursWorked.String()
		}
		row := []any{
			rec.StaffName, rec.PeriodStart.String(), rec.PeriodEnd.String(), hours,
			rec.HourlyTotal.Float64(), rec.FixedSalary.Float64(), rec.CommissionBase.Float64(),
			rec.CommissionRatePercent.String(), rec.CommissionTotal.Float64(), rec.BonusTotal.Float64(),
			rec.DeductionTotal.Float64(), rec.NetPay.Float64(), string(rec.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
