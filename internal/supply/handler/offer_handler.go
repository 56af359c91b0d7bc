package handler

import (
	"net/http"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/middleware"
	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/supply/perm"
	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/dest81/aid-coordinator/internal/supply/service"
	"github.com/gin-gonic/gin"
)

// actorFrom builds the permission actor from the JWT claims.
func actorFrom(c *gin.Context) perm.Actor {
	claims := middleware.Claims(c)
	if claims == nil {
		return perm.Actor{}
	}
	return perm.Actor{
		ID:             claims.UserID,
		IsSuperuser:    claims.IsSuperuser,
		IsDonor:        claims.IsDonor,
		IsRequester:    claims.IsRequester,
		OrganisationID: claims.OrganisationID,
	}
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"code": 40302, "message": "Permission denied"})
}

type OfferHandler struct {
	svc *service.OfferService
}

func NewOfferHandler(svc *service.OfferService) *OfferHandler {
	return &OfferHandler{svc: svc}
}

// stripOfferInternals hides staff-only fields from non-superusers.
func stripOfferInternals(offer *entity.Offer, actor perm.Actor) {
	if actor.IsSuperuser {
		return
	}
	offer.InternalNotes = ""
}

func (h *OfferHandler) List(c *gin.Context) {
	actor := actorFrom(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.OfferListParams{
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	if actor.IsSuperuser {
		params.OrganisationID = c.Query("organisation_id")
	} else {
		params.OwnerContactID = actor.ID
		params.OwnerOrganisationID = actor.OrganisationID
	}
	offers, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	for idx := range offers {
		stripOfferInternals(&offers[idx], actor)
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": offers, "total": total, "page": page, "size": size}})
}

func (h *OfferHandler) Get(c *gin.Context) {
	actor := actorFrom(c)
	offer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanViewAggregate(actor, service.OfferOwnership(offer)) {
		forbidden(c)
		return
	}
	stripOfferInternals(offer, actor)
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": offer})
}

func (h *OfferHandler) Create(c *gin.Context) {
	var input service.SaveOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	offer, err := h.svc.Create(c.Request.Context(), actorFrom(c), &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": offer})
}

func (h *OfferHandler) Update(c *gin.Context) {
	actor := actorFrom(c)
	offer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanEditAggregate(actor, service.OfferOwnership(offer)) {
		forbidden(c)
		return
	}
	var input service.SaveOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), actor, offer, &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": updated})
}

func (h *OfferHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)
	offer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanEditAggregate(actor, service.OfferOwnership(offer)) {
		forbidden(c)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actor, offer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *OfferHandler) ListItems(c *gin.Context) {
	actor := actorFrom(c)
	if !perm.CanViewOfferItems(actor) {
		forbidden(c)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.OfferItemListParams{
		Type:    c.Query("type"),
		Brand:   c.Query("brand"),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	// Non-superusers only get the public filters
	if actor.IsSuperuser {
		params.OfferID = c.Query("offer_id")
		params.ClaimedBy = c.Query("claimed_by")
		params.OrganisationID = c.Query("organisation_id")
		if v := c.Query("received"); v != "" {
			received := v == "true"
			params.Received = &received
		}
	}
	items, total, err := h.svc.ListItems(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": page, "size": size}})
}

func (h *OfferHandler) GetItem(c *gin.Context) {
	actor := actorFrom(c)
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanViewOfferItem(actor, service.OfferItemOwnership(item)) {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": item})
}

// UpdateItem edits one item through the owning offer so the audit snapshot
// covers the whole aggregate.
func (h *OfferHandler) UpdateItem(c *gin.Context) {
	actor := actorFrom(c)
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanChangeOfferItem(actor, service.OfferItemOwnership(item)) {
		forbidden(c)
		return
	}
	offer, err := h.svc.Get(c.Request.Context(), item.OfferID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	var input service.OfferItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	input.ID = item.ID

	merged := service.SaveOfferInput{
		Description:    offer.Description,
		DeliveryMethod: offer.DeliveryMethod,
		InternalNotes:  offer.InternalNotes,
	}
	if offer.LocationID != nil {
		merged.LocationID = *offer.LocationID
	}
	for idx := range offer.Items {
		existing := &offer.Items[idx]
		if existing.ID == item.ID {
			merged.Items = append(merged.Items, input)
			continue
		}
		line := service.OfferItemInput{
			ID:       existing.ID,
			Type:     existing.Type,
			Brand:    existing.Brand,
			Model:    existing.Model,
			Amount:   existing.Amount,
			Notes:    existing.Notes,
			Received: existing.Received,
			Rejected: existing.Rejected,
		}
		if existing.ClaimedBy != nil {
			line.ClaimedBy = *existing.ClaimedBy
		}
		merged.Items = append(merged.Items, line)
	}

	updated, err := h.svc.Update(c.Request.Context(), actor, offer, &merged)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": updated})
}

type bulkTypeRequest struct {
	IDs  []string `json:"ids" binding:"required,min=1"`
	Type string   `json:"type" binding:"required"`
}

func (h *OfferHandler) SetItemsType(c *gin.Context) {
	if !actorFrom(c).IsSuperuser {
		forbidden(c)
		return
	}
	var req bulkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	count, err := h.svc.SetItemsType(c.Request.Context(), req.IDs, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"count": count}})
}

type moveItemsRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	TargetID string   `json:"target_id" binding:"required"`
}

func (h *OfferHandler) MoveItems(c *gin.Context) {
	if !actorFrom(c).IsSuperuser {
		forbidden(c)
		return
	}
	var req moveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	count, err := h.svc.MoveItems(c.Request.Context(), req.IDs, req.TargetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"count": count}})
}
