package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"gorm.io/gorm"
)

// Subqueries used to annotate offer item rows. total_claimed sums the claims
// earmarking the item; available subtracts the root shipment ledger rows from
// the offered amount. Both are recomputed on every query, never cached.
const offerItemSelect = `offer_items.*,
	(SELECT COALESCE(SUM(c.amount), 0) FROM claims c WHERE c.offered_item_id = offer_items.id) AS total_claimed,
	offer_items.amount - (SELECT COALESCE(SUM(si.amount), 0) FROM shipment_items si
		WHERE si.offered_item_id = offer_items.id AND si.parent_shipment_item_id IS NULL) AS available`

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*entity.Offer, error) {
	var offer entity.Offer
	err := r.db.WithContext(ctx).
		Preload("Contact.Organisation").
		Preload("Items").
		Where("id = ?", id).First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *OfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *OfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *OfferRepository) Delete(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&entity.OfferItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(offer).Error
	})
}

type OfferListParams struct {
	OrganisationID string
	Keyword        string
	// OwnerContactID/OwnerOrganisationID restrict the result to the caller's
	// own offers; both empty means no restriction (superuser).
	OwnerContactID      string
	OwnerOrganisationID string
	Page                int
	Size                int
}

func (r *OfferRepository) List(ctx context.Context, params OfferListParams) ([]entity.Offer, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Offer{}).
		Joins("JOIN contacts ON contacts.id = offers.contact_id")
	if params.OrganisationID != "" {
		query = query.Where("contacts.organisation_id = ?", params.OrganisationID)
	}
	if params.OwnerContactID != "" || params.OwnerOrganisationID != "" {
		if params.OwnerOrganisationID != "" {
			query = query.Where("offers.contact_id = ? OR contacts.organisation_id = ?",
				params.OwnerContactID, params.OwnerOrganisationID)
		} else {
			query = query.Where("offers.contact_id = ?", params.OwnerContactID)
		}
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where(`offers.description ILIKE ?
			OR contacts.first_name ILIKE ? OR contacts.last_name ILIKE ?
			OR EXISTS (SELECT 1 FROM organisations o WHERE o.id = contacts.organisation_id AND o.name ILIKE ?)
			OR EXISTS (SELECT 1 FROM offer_items i WHERE i.offer_id = offers.id
				AND (i.brand ILIKE ? OR i.model ILIKE ? OR i.notes ILIKE ?))`,
			kw, kw, kw, kw, kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var offers []entity.Offer
	err := query.Preload("Contact.Organisation").Preload("Items").
		Order("offers.created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&offers).Error
	return offers, total, err
}

func (r *OfferRepository) FindItemByID(ctx context.Context, id string) (*entity.OfferItem, error) {
	var item entity.OfferItem
	err := r.db.WithContext(ctx).Select(offerItemSelect).
		Preload("Offer.Contact").
		Where("offer_items.id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *OfferRepository) CreateItem(ctx context.Context, item *entity.OfferItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *OfferRepository) UpdateItem(ctx context.Context, item *entity.OfferItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *OfferRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.OfferItem{}).Error
}

type OfferItemListParams struct {
	OfferID        string
	Type           string
	Received       *bool
	ClaimedBy      string
	Brand          string
	OrganisationID string
	Keyword        string
	Page           int
	Size           int
}

func (r *OfferRepository) ListItems(ctx context.Context, params OfferItemListParams) ([]entity.OfferItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.OfferItem{}).
		Joins("JOIN offers ON offers.id = offer_items.offer_id").
		Joins("JOIN contacts ON contacts.id = offers.contact_id")
	if params.OfferID != "" {
		query = query.Where("offer_items.offer_id = ?", params.OfferID)
	}
	if params.Type != "" {
		query = query.Where("offer_items.type = ?", params.Type)
	}
	if params.Received != nil {
		query = query.Where("offer_items.received = ?", *params.Received)
	}
	if params.ClaimedBy != "" {
		query = query.Where("offer_items.claimed_by = ?", params.ClaimedBy)
	}
	if params.Brand != "" {
		query = query.Where("offer_items.brand = ?", params.Brand)
	}
	if params.OrganisationID != "" {
		query = query.Where("contacts.organisation_id = ?", params.OrganisationID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where(`offer_items.brand ILIKE ? OR offer_items.model ILIKE ? OR offer_items.notes ILIKE ?
			OR offers.description ILIKE ? OR contacts.last_name ILIKE ?
			OR EXISTS (SELECT 1 FROM organisations o WHERE o.id = contacts.organisation_id AND o.name ILIKE ?)`,
			kw, kw, kw, kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.OfferItem
	err := query.Select(offerItemSelect).Preload("Offer.Contact.Organisation").
		Order("offer_items.brand, offer_items.model").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// DB returns the underlying handle for transactional service code.
func (r *OfferRepository) DB() *gorm.DB {
	return r.db
}
