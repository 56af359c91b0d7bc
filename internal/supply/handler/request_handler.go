package handler

import (
	"net/http"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/supply/perm"
	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/dest81/aid-coordinator/internal/supply/service"
	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

func stripRequestInternals(request *entity.Request, actor perm.Actor) {
	if actor.IsSuperuser {
		return
	}
	request.InternalNotes = ""
	for idx := range request.Items {
		request.Items[idx].Notes = ""
	}
}

func (h *RequestHandler) List(c *gin.Context) {
	actor := actorFrom(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.RequestListParams{
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
	requests, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	for idx := range requests {
		stripRequestInternals(&requests[idx], actor)
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": requests, "total": total, "page": page, "size": size}})
}

func (h *RequestHandler) Get(c *gin.Context) {
	actor := actorFrom(c)
	request, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanViewAggregate(actor, service.RequestOwnership(request)) {
		forbidden(c)
		return
	}
	stripRequestInternals(request, actor)
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": request})
}

// Summary returns the request's item lines with alternatives folded into
// "A or B" form.
func (h *RequestHandler) Summary(c *gin.Context) {
	actor := actorFrom(c)
	request, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanViewAggregate(actor, service.RequestOwnership(request)) {
		forbidden(c)
		return
	}
	lines, err := h.svc.ItemSummary(c.Request.Context(), request.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"lines": lines}})
}

func (h *RequestHandler) Create(c *gin.Context) {
	var input service.SaveRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	request, err := h.svc.Create(c.Request.Context(), actorFrom(c), &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": request})
}

func (h *RequestHandler) Update(c *gin.Context) {
	actor := actorFrom(c)
	request, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanEditAggregate(actor, service.RequestOwnership(request)) {
		forbidden(c)
		return
	}
	var input service.SaveRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), actor, request, &input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": updated})
}

func (h *RequestHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)
	request, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanEditAggregate(actor, service.RequestOwnership(request)) {
		forbidden(c)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actor, request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *RequestHandler) ListItems(c *gin.Context) {
	actor := actorFrom(c)
	if !perm.CanViewRequestItems(actor) {
		forbidden(c)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.RequestItemListParams{
		Type:    c.Query("type"),
		Brand:   c.Query("brand"),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	if actor.IsSuperuser {
		params.RequestID = c.Query("request_id")
		params.OrganisationID = c.Query("organisation_id")
	}
	items, total, err := h.svc.ListItems(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	if !actor.IsSuperuser {
		for idx := range items {
			items[idx].Notes = ""
		}
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": page, "size": size}})
}

func (h *RequestHandler) GetItem(c *gin.Context) {
	actor := actorFrom(c)
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if !perm.CanViewRequestItem(actor, service.RequestItemOwnership(item)) {
		forbidden(c)
		return
	}
	if !actor.IsSuperuser {
		item.Notes = ""
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": item})
}

func (h *RequestHandler) SetItemsType(c *gin.Context) {
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

func (h *RequestHandler) MoveItems(c *gin.Context) {
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
