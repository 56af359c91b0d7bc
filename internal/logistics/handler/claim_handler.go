package handler

import (
	"net/http"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/dest81/aid-coordinator/internal/logistics/service"
	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	svc *service.ClaimService
}

func NewClaimHandler(svc *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

func (h *ClaimHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ClaimListParams{
		OfferedItemID:   c.Query("offered_item"),
		RequestedItemID: c.Query("requested_item"),
		ShipmentID:      c.Query("shipment"),
		Page:            page,
		Size:            size,
	}
	claims, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": claims, "total": total, "page": page, "size": size}})
}

func (h *ClaimHandler) Create(c *gin.Context) {
	var input service.SaveClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	claim, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": claim})
}

func (h *ClaimHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// Export GET /claims/export?format=csv|xlsx: the claim report.
func (h *ClaimHandler) Export(c *gin.Context) {
	if c.DefaultQuery("format", "csv") == "xlsx" {
		f, err := h.svc.ExportXLSX(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
			return
		}
		defer f.Close()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=\"claims.xlsx\"")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "write xlsx: " + err.Error()})
		}
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=\"claims.csv\"")
	if err := h.svc.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}
