package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/dest81/aid-coordinator/internal/testutil"
)

func TestEquipmentImportUpsertsOnBrandModel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewEquipmentService(repository.NewEquipmentRepository(db))
	ctx := context.Background()

	first := "brand,model,width,height,depth,weight\n" +
		"Lenovo,T480,33.6,2.0,23.3,1.58\n" +
		"Dell,E7450,33.1,2.1,23.1,1.57\n"
	result, err := svc.ImportCSV(ctx, strings.NewReader(first))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created != 2 || result.Updated != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Re-import with changed weight updates instead of duplicating
	second := "brand,model,width,height,depth,weight\n" +
		"Lenovo,T480,33.6,2.0,23.3,1.70\n"
	result, err = svc.ImportCSV(ctx, strings.NewReader(second))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("expected pure update, got %+v", result)
	}

	rows, _, err := svc.List(ctx, repository.EquipmentListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 catalog rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Brand == "Lenovo" && row.Weight != 1.70 {
			t.Errorf("weight not updated, got %v", row.Weight)
		}
	}
}

func TestEquipmentImportCollectsRowErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewEquipmentService(repository.NewEquipmentRepository(db))

	// BOM prefix, one bad numeric row, one row missing the key
	input := "\xEF\xBB\xBFbrand,model,width,height,depth,weight\n" +
		"Lenovo,T480,33.6,2.0,23.3,1.58\n" +
		"HP,840,not-a-number,2.0,23.0,1.5\n" +
		",NoBrand,1,1,1,1\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("valid rows should still be applied, got created=%d", result.Created)
	}
	if result.Failed != 2 || len(result.Errors) != 2 {
		t.Errorf("expected 2 reported failures, got %+v", result)
	}
}

func TestEquipmentExportColumnOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewEquipmentService(repository.NewEquipmentRepository(db))
	ctx := context.Background()

	input := "brand,model,width,height,depth,weight\nLenovo,T480,33.6,2.0,23.3,1.58\n"
	if _, err := svc.ImportCSV(ctx, strings.NewReader(input)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	wantHeader := []string{"brand", "model", "width", "height", "depth", "weight"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("column %d: got %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "Lenovo" || records[1][5] != "1.58" {
		t.Errorf("unexpected data row: %v", records[1])
	}
}
