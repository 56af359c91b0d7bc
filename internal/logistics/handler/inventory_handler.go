package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/dest81/aid-coordinator/internal/logistics/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventory  *service.InventoryService
	assignment *service.AssignmentService
}

func NewInventoryHandler(inventory *service.InventoryService, assignment *service.AssignmentService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, assignment: assignment}
}

func shipmentItemParams(c *gin.Context) repository.ShipmentItemListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ShipmentItemListParams{
		LastLocationID: c.Query("last_location"),
		ShipmentID:     c.Query("shipment"),
		OfferedItemID:  c.Query("offered_item"),
		OrganisationID: c.Query("organisation_id"),
		Keyword:        c.Query("keyword"),
		Page:           page,
		Size:           size,
	}
	if v := c.Query("delivered"); v != "" {
		delivered := v == "true"
		params.Delivered = &delivered
	}
	return params
}

// ListRows GET /shipment-items: the raw ledger.
func (h *InventoryHandler) ListRows(c *gin.Context) {
	params := shipmentItemParams(c)
	items, total, err := h.inventory.ListRows(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": params.Page, "size": params.Size}})
}

// ListPool GET /items: rows with quantity still available for assignment.
func (h *InventoryHandler) ListPool(c *gin.Context) {
	params := shipmentItemParams(c)
	items, total, err := h.inventory.ListPool(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": params.Page, "size": params.Size}})
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": item})
}

type previewRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required,min=1"`
}

// Preview POST /items/assignment/preview: validates the selection and lists
// the shipments it could join. Nothing is written.
func (h *InventoryHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	result, err := h.assignment.Preview(c.Request.Context(), req.ItemIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

// Assign POST /items/assignment: commits the selection onto a shipment.
func (h *InventoryHandler) Assign(c *gin.Context) {
	var input service.AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	created, err := h.assignment.Assign(c.Request.Context(), &input)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrDifferentLocations) || errors.Is(err, service.ErrNotDelivered) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": gin.H{"items": created}})
}

// Receive POST /offer-items/:id/receive: books the offered quantity into the
// ledger at the default donor location.
func (h *InventoryHandler) Receive(c *gin.Context) {
	root, err := h.assignment.Receive(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": root})
}
