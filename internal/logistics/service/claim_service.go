package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// claimReportColumns is the report contract consumed by the coordinators'
// spreadsheets.
var claimReportColumns = []string{
	"amount", "type", "brand", "model", "shipment",
	"donor_first_name", "donor_last_name", "donor_email", "donor_organisation",
	"requester_first_name", "requester_last_name", "requester_email", "requester_organisation",
}

type ClaimService struct {
	claimRepo *repository.ClaimRepository
}

func NewClaimService(claimRepo *repository.ClaimRepository) *ClaimService {
	return &ClaimService{claimRepo: claimRepo}
}

func (s *ClaimService) Get(ctx context.Context, id string) (*entity.Claim, error) {
	return s.claimRepo.FindByID(ctx, id)
}

func (s *ClaimService) List(ctx context.Context, params repository.ClaimListParams) ([]entity.Claim, int64, error) {
	return s.claimRepo.List(ctx, params)
}

type SaveClaimInput struct {
	RequestedItemID string `json:"requested_item_id" binding:"required"`
	OfferedItemID   string `json:"offered_item_id" binding:"required"`
	Amount          int    `json:"amount" binding:"required,gt=0"`
	ShipmentID      string `json:"shipment_id"`
}

func (s *ClaimService) Create(ctx context.Context, input *SaveClaimInput) (*entity.Claim, error) {
	claim := &entity.Claim{
		ID:              uuid.New().String(),
		RequestedItemID: input.RequestedItemID,
		OfferedItemID:   input.OfferedItemID,
		Amount:          input.Amount,
	}
	if input.ShipmentID != "" {
		claim.ShipmentID = &input.ShipmentID
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}
	return claim, nil
}

func (s *ClaimService) Delete(ctx context.Context, id string) error {
	return s.claimRepo.Delete(ctx, id)
}

// claimReportRow flattens one claim with its donor and requester chains.
func claimReportRow(claim *entity.Claim) []string {
	row := make([]string, len(claimReportColumns))
	row[0] = strconv.Itoa(claim.Amount)
	if item := claim.OfferedItem; item != nil {
		row[1] = item.Type
		row[2] = item.Brand
		row[3] = item.Model
		if item.Offer != nil && item.Offer.Contact != nil {
			donor := item.Offer.Contact
			row[5] = donor.FirstName
			row[6] = donor.LastName
			row[7] = donor.Email
			if donor.Organisation != nil {
				row[8] = donor.Organisation.Name
			}
		}
	}
	if claim.Shipment != nil {
		row[4] = claim.Shipment.Name
	}
	if item := claim.RequestedItem; item != nil && item.Request != nil && item.Request.Contact != nil {
		requester := item.Request.Contact
		row[9] = requester.FirstName
		row[10] = requester.LastName
		row[11] = requester.Email
		if requester.Organisation != nil {
			row[12] = requester.Organisation.Name
		}
	}
	return row
}

// ExportCSV writes the claim report with donor and requester details.
func (s *ClaimService) ExportCSV(ctx context.Context, w io.Writer) error {
	claims, err := s.claimRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load claims: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(claimReportColumns); err != nil {
		return err
	}
	for idx := range claims {
		if err := writer.Write(claimReportRow(&claims[idx])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportXLSX writes the claim report as a spreadsheet.
func (s *ClaimService) ExportXLSX(ctx context.Context) (*excelize.File, error) {
	claims, err := s.claimRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range claimReportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
	}
	for idx := range claims {
		values := claimReportRow(&claims[idx])
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, idx+2), v)
		}
	}
	return f, nil
}
