package extract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claim.xlsx")

	f := excelize.NewFile()
	cells := map[string]string{
		"A1": "Claim Number", "B1": "CLM-2024-55100",
		"A2": "Policy Number", "B2": "POL-AUT-9087",
		"A3": "Date of Loss", "B3": "2024-03-02",
		"A4": "Type of Loss", "B4": "Vehicle Collision",
	}
	for cell, value := range cells {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	e := New()
	rec, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := strOrEmpty(rec.ClaimNumber); got != "CLM-2024-55100" {
		t.Errorf("claim number: got %q", got)
	}
	if got := strOrEmpty(rec.PolicyNumber); got != "POL-AUT-9087" {
		t.Errorf("policy number: got %q", got)
	}
	if got := strOrEmpty(rec.DateOfLoss); got != "2024-03-02" {
		t.Errorf("date of loss: got %q", got)
	}
	if rec.LossType != LossAuto {
		t.Errorf("loss type: got %q, want auto", rec.LossType)
	}
}
