package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tokenworks/servicepos-app/models"
	"github.com/xuri/excelize/v2"
)

// buildEntriesWorkbook menyusun workbook xlsx satu row per entry dengan urutan
// kolom tetap. Versi manager menambah kolom Employee dan Status; versi
// employee memakai jam saja karena semua row dari hari yang sama.
func buildEntriesWorkbook(entries []models.FormEntry, managerExport bool, emails map[uint]string) ([]byte, string, error) {
	var headers []string
	var sheet, filename string

	today := time.Now().Format("2006-01-02")
	if managerExport {
		sheet = "All Entries"
		filename = fmt.Sprintf("All_Data_%s.xlsx", today)
		headers = []string{"Date/Time", "Employee", "Token ID", "Customer Name",
			"Service Type", "Status", "Payment Method", "Service Charge",
			"Bank Charge", "Total Amount"}
	} else {
		sheet = "Today's Work"
		filename = fmt.Sprintf("My_Work_%s.xlsx", today)
		headers = []string{"Time", "Token ID", "Customer Name", "Service Type",
			"Payment Method", "Service Charge", "Bank Charge", "Total Amount"}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	for i, entry := range entries {
		tokenUsed := entry.TokenUsed
		if tokenUsed == "" {
			tokenUsed = "-"
		}

		var values []interface{}
		if managerExport {
			employee := emails[entry.EmployeeID]
			if employee == "" {
				employee = "Unknown"
			}
			values = []interface{}{
				entry.SubmittedAt.Format("2006-01-02 15:04"),
				employee,
				tokenUsed,
				entry.CustomerName,
				entry.ServiceType,
				entry.Status,
				entry.PaymentMethod,
				entry.ServiceCharge,
				entry.BankCharge,
				entry.TotalAmount(),
			}
		} else {
			values = []interface{}{
				entry.SubmittedAt.Format("15:04"),
				tokenUsed,
				entry.CustomerName,
				entry.ServiceType,
				entry.PaymentMethod,
				entry.ServiceCharge,
				entry.BankCharge,
				entry.TotalAmount(),
			}
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), filename, nil
}
