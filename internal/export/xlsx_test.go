package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
)

func TestWriteXLSX(t *testing.T) {
	records := []core.FinancialRecord{
		{
			ID:          "rec-1",
			Amount:      core.Money{Paisa: 150000},
			Currency:    core.NPR,
			Kind:        core.Income,
			Category:    "Salary",
			SubCategory: "Monthly",
			Note:        "April pay",
			OccurredOn:  core.NewDate(2025, 4, 14),
			Scope:       core.Personal,
		},
		{
			ID:         "rec-2",
			Amount:     core.Money{Paisa: 30050},
			Currency:   core.NPR,
			Kind:       core.Expense,
			Category:   "Groceries",
			OccurredOn: core.NewDate(2025, 4, 15),
			Scope:      core.Shared,
		},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Date (AD)" || rows[0][1] != "Date (BS)" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "2025-04-14" {
		t.Errorf("AD date = %q", rows[1][0])
	}
	// 2025-04-14 is Baisakh 1, 2082.
	if rows[1][1] != "2082-01-01" {
		t.Errorf("BS date = %q", rows[1][1])
	}
	if rows[1][2] != "income" || rows[1][3] != "Salary" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][6] != "300.5" {
		t.Errorf("amount cell = %q, want 300.5", rows[2][6])
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
}
