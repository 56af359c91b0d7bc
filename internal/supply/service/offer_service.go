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

type OfferService struct {
	offerRepo *repository.OfferRepository
	changeLog *ChangeLogService
}

func NewOfferService(offerRepo *repository.OfferRepository, changeLog *ChangeLogService) *OfferService {
	return &OfferService{offerRepo: offerRepo, changeLog: changeLog}
}

func (s *OfferService) Get(ctx context.Context, id string) (*entity.Offer, error) {
	return s.offerRepo.FindByID(ctx, id)
}

func (s *OfferService) List(ctx context.Context, params repository.OfferListParams) ([]entity.Offer, int64, error) {
	return s.offerRepo.List(ctx, params)
}

// Ownership derives the permission ownership of an offer.
func OfferOwnership(offer *entity.Offer) perm.Ownership {
	o := perm.Ownership{ContactID: offer.ContactID}
	if offer.Contact != nil && offer.Contact.OrganisationID != nil {
		o.OrganisationID = *offer.Contact.OrganisationID
	}
	return o
}

type OfferItemInput struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Amount    int    `json:"amount" binding:"required,gt=0"`
	Notes     string `json:"notes"`
	Received  bool   `json:"received"`
	Rejected  bool   `json:"rejected"`
	ClaimedBy string `json:"claimed_by"`
}

type SaveOfferInput struct {
	Description    string           `json:"description" binding:"required"`
	LocationID     string           `json:"location_id"`
	DeliveryMethod string           `json:"delivery_method"`
	InternalNotes  string           `json:"internal_notes"`
	Items          []OfferItemInput `json:"items"`
}

// Create stores a new offer with its items and logs an ADD audit entry in the
// same transaction.
func (s *OfferService) Create(ctx context.Context, actor perm.Actor, input *SaveOfferInput) (*entity.Offer, error) {
	now := time.Now()
	offer := &entity.Offer{
		ID:             uuid.New().String(),
		Description:    input.Description,
		ContactID:      actor.ID,
		DeliveryMethod: input.DeliveryMethod,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.LocationID != "" {
		offer.LocationID = &input.LocationID
	}
	if actor.IsSuperuser {
		offer.InternalNotes = input.InternalNotes
	}
	for _, in := range input.Items {
		item, err := buildOfferItem(offer.ID, in, actor.IsSuperuser)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = now
		item.UpdatedAt = now
		offer.Items = append(offer.Items, *item)
	}

	err := s.offerRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(offer).Error; err != nil {
			return fmt.Errorf("create offer: %w", err)
		}
		return s.changeLog.Record(tx, actor.ID, entity.ChangeActionAdd, entity.ChangeTypeOffer,
			offer.String(), "", offer.ChangeLogEntry())
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Update replaces the offer's fields and item set, logging a CHANGE entry only
// when the rendered snapshot actually differs.
func (s *OfferService) Update(ctx context.Context, actor perm.Actor, offer *entity.Offer, input *SaveOfferInput) (*entity.Offer, error) {
	before := offer.ChangeLogEntry()
	now := time.Now()

	offer.Description = input.Description
	offer.DeliveryMethod = input.DeliveryMethod
	if input.LocationID != "" {
		offer.LocationID = &input.LocationID
	} else {
		offer.LocationID = nil
	}
	if actor.IsSuperuser {
		offer.InternalNotes = input.InternalNotes
	}
	offer.UpdatedAt = now

	existing := make(map[string]*entity.OfferItem, len(offer.Items))
	for idx := range offer.Items {
		existing[offer.Items[idx].ID] = &offer.Items[idx]
	}

	var items []entity.OfferItem
	keep := make(map[string]bool, len(input.Items))
	for _, in := range input.Items {
		if prev, ok := existing[in.ID]; in.ID != "" && ok {
			if err := applyOfferItem(prev, in, actor.IsSuperuser); err != nil {
				return nil, err
			}
			prev.UpdatedAt = now
			keep[in.ID] = true
			items = append(items, *prev)
			continue
		}
		item, err := buildOfferItem(offer.ID, in, actor.IsSuperuser)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = now
		item.UpdatedAt = now
		items = append(items, *item)
	}

	err := s.offerRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id := range existing {
			if !keep[id] {
				if err := tx.Where("id = ?", id).Delete(&entity.OfferItem{}).Error; err != nil {
					return fmt.Errorf("delete offer item: %w", err)
				}
			}
		}
		for idx := range items {
			if err := tx.Save(&items[idx]).Error; err != nil {
				return fmt.Errorf("save offer item: %w", err)
			}
		}
		if err := tx.Omit("Items").Save(offer).Error; err != nil {
			return fmt.Errorf("save offer: %w", err)
		}
		offer.Items = items
		return s.changeLog.Record(tx, actor.ID, entity.ChangeActionChange, entity.ChangeTypeOffer,
			offer.String(), before, offer.ChangeLogEntry())
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Delete removes the offer with its items and always logs a DELETE entry with
// an empty after snapshot.
func (s *OfferService) Delete(ctx context.Context, actor perm.Actor, offer *entity.Offer) error {
	before := offer.ChangeLogEntry()
	return s.offerRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&entity.OfferItem{}).Error; err != nil {
			return fmt.Errorf("delete offer items: %w", err)
		}
		if err := tx.Delete(&entity.Offer{}, "id = ?", offer.ID).Error; err != nil {
			return fmt.Errorf("delete offer: %w", err)
		}
		return s.changeLog.Record(tx, actor.ID, entity.ChangeActionDelete, entity.ChangeTypeOffer,
			offer.String(), before, "")
	})
}

func buildOfferItem(offerID string, in OfferItemInput, superuser bool) (*entity.OfferItem, error) {
	item := &entity.OfferItem{
		ID:      uuid.New().String(),
		OfferID: offerID,
	}
	if err := applyOfferItem(item, in, superuser); err != nil {
		return nil, err
	}
	return item, nil
}

func applyOfferItem(item *entity.OfferItem, in OfferItemInput, superuser bool) error {
	itemType := in.Type
	if itemType == "" {
		itemType = entity.ItemTypeHardware
	}
	if !entity.ValidItemType(itemType) {
		return fmt.Errorf("invalid item type: %s", in.Type)
	}
	item.Type = itemType
	item.Brand = in.Brand
	item.Model = in.Model
	item.Amount = in.Amount
	item.Notes = in.Notes
	// Received and claimed_by are staff-managed flags
	if superuser {
		item.Received = in.Received
		item.Rejected = in.Rejected
		if in.ClaimedBy != "" {
			item.ClaimedBy = &in.ClaimedBy
		} else {
			item.ClaimedBy = nil
		}
	}
	return nil
}

func (s *OfferService) GetItem(ctx context.Context, id string) (*entity.OfferItem, error) {
	return s.offerRepo.FindItemByID(ctx, id)
}

func (s *OfferService) ListItems(ctx context.Context, params repository.OfferItemListParams) ([]entity.OfferItem, int64, error) {
	return s.offerRepo.ListItems(ctx, params)
}

// OfferItemOwnership derives the permission ownership of an offer item.
func OfferItemOwnership(item *entity.OfferItem) perm.Ownership {
	if item.Offer == nil {
		return perm.Ownership{}
	}
	return OfferOwnership(item.Offer)
}

// SetItemsType bulk-retypes offer items, mirroring the admin actions.
func (s *OfferService) SetItemsType(ctx context.Context, ids []string, itemType string) (int, error) {
	if !entity.ValidItemType(itemType) {
		return 0, fmt.Errorf("invalid item type: %s", itemType)
	}
	count := 0
	for _, id := range ids {
		item, err := s.offerRepo.FindItemByID(ctx, id)
		if err != nil {
			return count, fmt.Errorf("offer item %s not found: %w", id, err)
		}
		item.Type = itemType
		item.UpdatedAt = time.Now()
		if err := s.offerRepo.UpdateItem(ctx, item); err != nil {
			return count, fmt.Errorf("update offer item: %w", err)
		}
		count++
	}
	return count, nil
}

// MoveItems reparents offer items onto another offer.
func (s *OfferService) MoveItems(ctx context.Context, ids []string, targetOfferID string) (int, error) {
	if _, err := s.offerRepo.FindByID(ctx, targetOfferID); err != nil {
		return 0, fmt.Errorf("target offer not found: %w", err)
	}
	count := 0
	for _, id := range ids {
		item, err := s.offerRepo.FindItemByID(ctx, id)
		if err != nil {
			return count, fmt.Errorf("offer item %s not found: %w", id, err)
		}
		item.OfferID = targetOfferID
		item.Offer = nil
		item.UpdatedAt = time.Now()
		if err := s.offerRepo.UpdateItem(ctx, item); err != nil {
			return count, fmt.Errorf("move offer item: %w", err)
		}
		count++
	}
	return count, nil
}
