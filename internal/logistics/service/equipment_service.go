package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// equipmentColumns is the import/export contract: fixed order, keyed on
// brand+model.
var equipmentColumns = []string{"brand", "model", "width", "height", "depth", "weight"}

type EquipmentService struct {
	equipmentRepo *repository.EquipmentRepository
}

func NewEquipmentService(equipmentRepo *repository.EquipmentRepository) *EquipmentService {
	return &EquipmentService{equipmentRepo: equipmentRepo}
}

func (s *EquipmentService) List(ctx context.Context, params repository.EquipmentListParams) ([]entity.EquipmentData, int64, error) {
	return s.equipmentRepo.List(ctx, params)
}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportCSV upserts catalog rows keyed on brand+model. Bad rows are reported
// and skipped; valid rows are still applied.
func (s *EquipmentService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	// Strip a UTF-8 BOM if the file carries one
	utf8Reader := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(utf8Reader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range equipmentColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column: %s", name)
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		brand := strings.TrimSpace(record[col["brand"]])
		model := strings.TrimSpace(record[col["model"]])
		if brand == "" || model == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: brand and model are required", line))
			continue
		}
		dims, err := parseDimensions(record, col)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		existing, findErr := s.equipmentRepo.FindByBrandModel(ctx, brand, model)
		now := time.Now()
		eq := &entity.EquipmentData{
			ID:        uuid.New().String(),
			Brand:     brand,
			Model:     model,
			Width:     dims[0],
			Height:    dims[1],
			Depth:     dims[2],
			Weight:    dims[3],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if findErr == nil {
			eq.ID = existing.ID
			eq.CreatedAt = existing.CreatedAt
		}
		if err := s.equipmentRepo.Upsert(ctx, eq); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if findErr == nil {
			result.Updated++
		} else {
			result.Created++
		}
	}
	return result, nil
}

func parseDimensions(record []string, col map[string]int) ([4]float64, error) {
	var out [4]float64
	for i, name := range []string{"width", "height", "depth", "weight"} {
		raw := strings.TrimSpace(record[col[name]])
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, fmt.Errorf("invalid %s: %q", name, raw)
		}
		out[i] = v
	}
	return out, nil
}

// ExportCSV writes the whole catalog in the import column order.
func (s *EquipmentService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.equipmentRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load equipment: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(equipmentColumns); err != nil {
		return err
	}
	for _, eq := range rows {
		record := []string{
			eq.Brand,
			eq.Model,
			formatFloat(eq.Width),
			formatFloat(eq.Height),
			formatFloat(eq.Depth),
			formatFloat(eq.Weight),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportXLSX writes the catalog as a spreadsheet with the same columns.
func (s *EquipmentService) ExportXLSX(ctx context.Context) (*excelize.File, error) {
	rows, err := s.equipmentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range equipmentColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
	}
	for idx, eq := range rows {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), eq.Brand)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), eq.Model)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), eq.Width)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), eq.Height)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), eq.Depth)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), eq.Weight)
	}
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
