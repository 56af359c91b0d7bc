package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/supply/perm"
	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestService struct {
	requestRepo *repository.RequestRepository
	changeLog   *ChangeLogService
}

func NewRequestService(requestRepo *repository.RequestRepository, changeLog *ChangeLogService) *RequestService {
	return &RequestService{requestRepo: requestRepo, changeLog: changeLog}
}

func (s *RequestService) Get(ctx context.Context, id string) (*entity.Request, error) {
	return s.requestRepo.FindByID(ctx, id)
}

func (s *RequestService) List(ctx context.Context, params repository.RequestListParams) ([]entity.Request, int64, error) {
	return s.requestRepo.List(ctx, params)
}

// RequestOwnership derives the permission ownership of a request.
func RequestOwnership(request *entity.Request) perm.Ownership {
	o := perm.Ownership{ContactID: request.ContactID}
	if request.Contact != nil && request.Contact.OrganisationID != nil {
		o.OrganisationID = *request.Contact.OrganisationID
	}
	return o
}

type RequestItemInput struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Amount         int    `json:"amount" binding:"required,gt=0"`
	UpTo           bool   `json:"up_to"`
	Notes          string `json:"notes"`
	AlternativeFor string `json:"alternative_for"`
}

type SaveRequestInput struct {
	Goal          string             `json:"goal" binding:"required"`
	Description   string             `json:"description"`
	InternalNotes string             `json:"internal_notes"`
	Items         []RequestItemInput `json:"items"`
}

// Create stores a new request with its items and logs an ADD audit entry in
// the same transaction.
func (s *RequestService) Create(ctx context.Context, actor perm.Actor, input *SaveRequestInput) (*entity.Request, error) {
	now := time.Now()
	request := &entity.Request{
		ID:          uuid.New().String(),
		ContactID:   actor.ID,
		Goal:        input.Goal,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor.IsSuperuser {
		request.InternalNotes = input.InternalNotes
	}

	items, err := buildRequestItems(request.ID, nil, input.Items, actor.IsSuperuser, now)
	if err != nil {
		return nil, err
	}
	request.Items = items

	err = s.requestRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return s.changeLog.Record(tx, actor.ID, entity.ChangeActionAdd, entity.ChangeTypeRequest,
			request.String(), "", request.ChangeLogEntry())
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Update replaces the request's fields and item set, logging a CHANGE entry
// only when the rendered snapshot differs.
func (s *RequestService) Update(ctx context.Context, actor perm.Actor, request *entity.Request, input *SaveRequestInput) (*entity.Request, error) {
	before := request.ChangeLogEntry()
	now := time.Now()

	request.Goal = input.Goal
	request.Description = input.Description
	if actor.IsSuperuser {
		request.InternalNotes = input.InternalNotes
	}
	request.UpdatedAt = now

	items, err := buildRequestItems(request.ID, request.Items, input.Items, actor.IsSuperuser, now)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(items))
	for idx := range items {
		keep[items[idx].ID] = true
	}

	err = s.requestRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for idx := range request.Items {
			if !keep[request.Items[idx].ID] {
				if err := tx.Where("id = ?", request.Items[idx].ID).Delete(&entity.RequestItem{}).Error; err != nil {
					return fmt.Errorf("delete request item: %w", err)
				}
			}
		}
		for idx := range items {
			if err := tx.Save(&items[idx]).Error; err != nil {
				return fmt.Errorf("save request item: %w", err)
			}
		}
		if err := tx.Omit("Items").Save(request).Error; err != nil {
			return fmt.Errorf("save request: %w", err)
		}
		request.Items = items
		return s.changeLog.Record(tx, actor.ID, entity.ChangeActionChange, entity.ChangeTypeRequest,
			request.String(), before, request.ChangeLogEntry())
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Delete removes the request with its items and always logs a DELETE entry.
func (s *RequestService) Delete(ctx context.Context, actor perm.Actor, request *entity.Request) error {
	before := request.ChangeLogEntry()
	return s.requestRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", request.ID).Delete(&entity.RequestItem{}).Error; err != nil {
			return fmt.Errorf("delete request items: %w", err)
		}
		if err := tx.Delete(&entity.Request{}, "id = ?", request.ID).Error; err != nil {
			return fmt.Errorf("delete request: %w", err)
		}
		return s.changeLog.Record(tx, actor.ID, entity.ChangeActionDelete, entity.ChangeTypeRequest,
			request.String(), before, "")
	})
}

// buildRequestItems merges the submitted item lines with the existing ones and
// validates the alternatives chains. alternative_for may only point at another
// item of the same request and must not close a cycle.
func buildRequestItems(requestID string, existing []entity.RequestItem, inputs []RequestItemInput, superuser bool, now time.Time) ([]entity.RequestItem, error) {
	prev := make(map[string]*entity.RequestItem, len(existing))
	for idx := range existing {
		prev[existing[idx].ID] = &existing[idx]
	}

	var items []entity.RequestItem
	for _, in := range inputs {
		var item entity.RequestItem
		if p, ok := prev[in.ID]; in.ID != "" && ok {
			item = *p
		} else {
			item = entity.RequestItem{
				ID:        uuid.New().String(),
				RequestID: requestID,
				CreatedAt: now,
			}
			if in.ID != "" {
				item.ID = in.ID
			}
		}
		itemType := in.Type
		if itemType == "" {
			itemType = entity.ItemTypeHardware
		}
		if !entity.ValidItemType(itemType) {
			return nil, fmt.Errorf("invalid item type: %s", in.Type)
		}
		item.Type = itemType
		item.Brand = in.Brand
		item.Model = in.Model
		item.Amount = in.Amount
		item.UpTo = in.UpTo
		if superuser {
			item.Notes = in.Notes
		}
		if in.AlternativeFor != "" {
			alt := in.AlternativeFor
			item.AlternativeFor = &alt
		} else {
			item.AlternativeFor = nil
		}
		item.UpdatedAt = now
		items = append(items, item)
	}

	if err := validateAlternativesChains(items); err != nil {
		return nil, err
	}
	return items, nil
}

// validateAlternativesChains rejects alternative_for references that point
// outside the item set or close a cycle.
func validateAlternativesChains(items []entity.RequestItem) error {
	byID := make(map[string]*entity.RequestItem, len(items))
	for idx := range items {
		byID[items[idx].ID] = &items[idx]
	}
	for idx := range items {
		item := &items[idx]
		if item.AlternativeFor == nil {
			continue
		}
		if _, ok := byID[*item.AlternativeFor]; !ok {
			return fmt.Errorf("alternative_for must reference an item of the same request")
		}
		// Walk up the chain; revisiting the starting item means a cycle.
		seen := map[string]bool{item.ID: true}
		current := byID[*item.AlternativeFor]
		for current != nil {
			if seen[current.ID] {
				return fmt.Errorf("alternative_for chain contains a cycle")
			}
			seen[current.ID] = true
			if current.AlternativeFor == nil {
				break
			}
			current = byID[*current.AlternativeFor]
		}
	}
	return nil
}

// ItemSummary renders the request's items with alternatives folded into
// "A or B" lines, as shown in the request list.
func (s *RequestService) ItemSummary(ctx context.Context, requestID string) ([]string, error) {
	items, err := s.requestRepo.ListItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return entity.RenderItemLines(items), nil
}

func (s *RequestService) GetItem(ctx context.Context, id string) (*entity.RequestItem, error) {
	return s.requestRepo.FindItemByID(ctx, id)
}

func (s *RequestService) ListItems(ctx context.Context, params repository.RequestItemListParams) ([]entity.RequestItem, int64, error) {
	return s.requestRepo.ListItems(ctx, params)
}

// RequestItemOwnership derives the permission ownership of a request item.
func RequestItemOwnership(item *entity.RequestItem) perm.Ownership {
	if item.Request == nil {
		return perm.Ownership{}
	}
	return RequestOwnership(item.Request)
}

// SetItemsType bulk-retypes request items, mirroring the admin actions.
func (s *RequestService) SetItemsType(ctx context.Context, ids []string, itemType string) (int, error) {
	if !entity.ValidItemType(itemType) {
		return 0, fmt.Errorf("invalid item type: %s", itemType)
	}
	count := 0
	for _, id := range ids {
		item, err := s.requestRepo.FindItemByID(ctx, id)
		if err != nil {
			return count, fmt.Errorf("request item %s not found: %w", id, err)
		}
		item.Type = itemType
		item.UpdatedAt = time.Now()
		if err := s.requestRepo.UpdateItem(ctx, item); err != nil {
			return count, fmt.Errorf("update request item: %w", err)
		}
		count++
	}
	return count, nil
}

// MoveItems reparents request items onto another request. Alternative links
// are cleared because they may only point within one request.
func (s *RequestService) MoveItems(ctx context.Context, ids []string, targetRequestID string) (int, error) {
	if _, err := s.requestRepo.FindByID(ctx, targetRequestID); err != nil {
		return 0, fmt.Errorf("target request not found: %w", err)
	}
	count := 0
	for _, id := range ids {
		item, err := s.requestRepo.FindItemByID(ctx, id)
		if err != nil {
			return count, fmt.Errorf("request item %s not found: %w", id, err)
		}
		item.RequestID = targetRequestID
		item.Request = nil
		item.AlternativeFor = nil
		item.UpdatedAt = time.Now()
		if err := s.requestRepo.UpdateItem(ctx, item); err != nil {
			return count, fmt.Errorf("move request item: %w", err)
		}
		count++
	}
	return count, nil
}
