package payroll

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var registerHeader = []string{
	"Employee ID", "Employee", "Salary Type", "Base Salary",
	"Overtime Pay", "Allowances", "Deductions", "Gross", "Net",
}

func registerCells(row RegisterRow) []string {
	return []string{
		row.EmployeeID,
		row.EmployeeName,
		row.SalaryType,
		money(row.BaseSalary),
		money(row.OvertimePay),
		money(row.Allowances),
		money(row.Deductions),
		money(row.Gross),
		money(row.Net),
	}
}

// RegisterCSV streams the payroll register for a period as CSV.
func (s *Service) RegisterCSV(ctx context.Context, periodID string, w io.Writer) error {
	rows, err := s.registerRows(ctx, periodID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(registerHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(registerCells(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// RegisterXLSX streams the payroll register for a period as a spreadsheet.
func (s *Service) RegisterXLSX(ctx context.Context, periodID string, w io.Writer) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	rows, err := s.store.RegisterRows(ctx, periodID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := fmt.Sprintf("%04d-%02d", period.Year, period.Month)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, title := range registerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for i, row := range rows {
		values := []interface{}{
			row.EmployeeID, row.EmployeeName, row.SalaryType,
			row.BaseSalary, row.OvertimePay, row.Allowances,
			row.Deductions, row.Gross, row.Net,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// RegisterPDF streams the payroll register for a period as a PDF table.
func (s *Service) RegisterPDF(ctx context.Context, periodID string, w io.Writer) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	rows, err := s.store.RegisterRows(ctx, periodID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Payroll Register %04d-%02d", period.Year, period.Month))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s  Status: %s",
		period.PeriodStart.Format("2006-01-02"), period.PeriodEnd.Format("2006-01-02"), period.Status))
	pdf.Ln(10)

	widths := []float64{22, 52, 26, 28, 28, 28, 28, 28, 28}
	pdf.SetFont("Helvetica", "B", 9)
	for i, title := range registerHeader {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		cells := registerCells(row)
		cells[0] = shortID(row.EmployeeID)
		for i, cell := range cells {
			align := "R"
			if i < 3 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3]+widths[4]+widths[5]+widths[6], 7, "Totals", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[7], 7, money(period.TotalGross), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[8], 7, money(period.TotalNet), "1", 0, "R", false, 0, "")

	return pdf.Output(w)
}

// PayslipPDF streams a single employee's payslip for a period.
func (s *Service) PayslipPDF(ctx context.Context, itemID string, w io.Writer) error {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	period, err := s.store.GetPeriod(ctx, item.PeriodID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", item.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		period.PeriodStart.Format("2006-01-02"), period.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Salary type: %s", item.SalaryType))
	pdf.Ln(10)

	line := func(label string, amount float64) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, money(amount), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	line("Base salary", item.BaseSalary)
	if item.OvertimePay != 0 {
		line(fmt.Sprintf("Overtime (%d min)", item.OvertimeMinutes), item.OvertimePay)
	}
	for _, allowance := range item.Allowances {
		line(allowance.Name, allowance.Amount)
	}
	for _, deduction := range item.Deductions {
		line(deduction.Name, -deduction.Amount)
	}
	if item.AdjustmentAmount != 0 {
		label := "Adjustment"
		if item.AdjustmentReason != "" {
			label = fmt.Sprintf("Adjustment (%s)", item.AdjustmentReason)
		}
		line(label, item.AdjustmentAmount)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	line("Gross", item.Gross)
	line("Net", item.Net)

	return pdf.Output(w)
}

func (s *Service) registerRows(ctx context.Context, periodID string) ([]RegisterRow, error) {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return s.store.RegisterRows(ctx, periodID)
}

func money(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
