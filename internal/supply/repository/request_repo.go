package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*entity.Request, error) {
	var request entity.Request
	err := r.db.WithContext(ctx).
		Preload("Contact.Organisation").
		Preload("Items").
		Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) Create(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *RequestRepository) Update(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *RequestRepository) Delete(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", request.ID).Delete(&entity.RequestItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(request).Error
	})
}

type RequestListParams struct {
	OrganisationID      string
	Keyword             string
	OwnerContactID      string
	OwnerOrganisationID string
	Page                int
	Size                int
}

func (r *RequestRepository) List(ctx context.Context, params RequestListParams) ([]entity.Request, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Request{}).
		Joins("JOIN contacts ON contacts.id = requests.contact_id")
	if params.OrganisationID != "" {
		query = query.Where("contacts.organisation_id = ?", params.OrganisationID)
	}
	if params.OwnerContactID != "" || params.OwnerOrganisationID != "" {
		if params.OwnerOrganisationID != "" {
			query = query.Where("requests.contact_id = ? OR contacts.organisation_id = ?",
				params.OwnerContactID, params.OwnerOrganisationID)
		} else {
			query = query.Where("requests.contact_id = ?", params.OwnerContactID)
		}
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where(`requests.goal ILIKE ? OR requests.description ILIKE ?
			OR contacts.first_name ILIKE ? OR contacts.last_name ILIKE ?
			OR EXISTS (SELECT 1 FROM organisations o WHERE o.id = contacts.organisation_id AND o.name ILIKE ?)
			OR EXISTS (SELECT 1 FROM request_items i WHERE i.request_id = requests.id
				AND (i.brand ILIKE ? OR i.model ILIKE ? OR i.notes ILIKE ?))`,
			kw, kw, kw, kw, kw, kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var requests []entity.Request
	err := query.Preload("Contact.Organisation").Preload("Items").
		Order("requests.created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&requests).Error
	return requests, total, err
}

func (r *RequestRepository) FindItemByID(ctx context.Context, id string) (*entity.RequestItem, error) {
	var item entity.RequestItem
	err := r.db.WithContext(ctx).Preload("Request.Contact").
		Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RequestRepository) CreateItem(ctx context.Context, item *entity.RequestItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *RequestRepository) UpdateItem(ctx context.Context, item *entity.RequestItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *RequestRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RequestItem{}).Error
}

type RequestItemListParams struct {
	RequestID      string
	Type           string
	Brand          string
	OrganisationID string
	Keyword        string
	Page           int
	Size           int
}

func (r *RequestRepository) ListItems(ctx context.Context, params RequestItemListParams) ([]entity.RequestItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.RequestItem{}).
		Joins("JOIN requests ON requests.id = request_items.request_id").
		Joins("JOIN contacts ON contacts.id = requests.contact_id")
	if params.RequestID != "" {
		query = query.Where("request_items.request_id = ?", params.RequestID)
	}
	if params.Type != "" {
		query = query.Where("request_items.type = ?", params.Type)
	}
	if params.Brand != "" {
		query = query.Where("request_items.brand = ?", params.Brand)
	}
	if params.OrganisationID != "" {
		query = query.Where("contacts.organisation_id = ?", params.OrganisationID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("request_items.brand ILIKE ? OR request_items.model ILIKE ? OR request_items.notes ILIKE ?",
			kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.RequestItem
	err := query.Preload("Request.Contact.Organisation").
		Order("request_items.brand, request_items.model").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// ListItemsByRequest loads all items of one request for alternatives rendering.
func (r *RequestRepository) ListItemsByRequest(ctx context.Context, requestID string) ([]entity.RequestItem, error) {
	var items []entity.RequestItem
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).
		Order("created_at").Find(&items).Error
	return items, err
}

// DB returns the underlying handle for transactional service code.
func (r *RequestRepository) DB() *gorm.DB {
	return r.db
}
