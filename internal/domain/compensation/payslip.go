package compensation

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

func (s *Service) Payslip(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return RenderPayslip(rec, s.Currency)
}

// RenderPayslip draws a single-page A4 payslip for rec.
func RenderPayslip(rec SalaryRecord, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Staff: %s", rec.StaffName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", rec.PeriodStart, rec.PeriodEnd))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", rec.Status))
	pdf.Ln(10)

	line := func(label, value string) {
		pdf.CellFormat(110, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, value+" "+currency, "", 1, "R", false, 0, "")
	}
	if rec.HoursWorked != nil && rec.HourlyRate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Hours: %s at %s %s", rec.HoursWorked.String(), rec.HourlyRate, currency))
		pdf.Ln(7)
	}
	line("Hourly pay", rec.HourlyTotal.String())
	line("Fixed salary", rec.FixedSalary.String())
	line(fmt.Sprintf("Commission (%s%% of %s)", rec.CommissionRatePercent.String(), rec.CommissionBase), rec.CommissionTotal.String())
	for _, b := range rec.Bonuses {
		line("Bonus: "+b.Label, b.Amount.String())
	}
	for _, d := range rec.Deductions {
		line("Deduction: "+d.Label, "-"+d.Amount.String())
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	line("Net pay", rec.NetPay.String())

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip %s: %w", rec.ID, err)
	}
	return buf.Bytes(), nil
}
