package handler

import (
	"net/http"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/dest81/aid-coordinator/internal/logistics/service"
	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	svc *service.EquipmentService
}

func NewEquipmentHandler(svc *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{svc: svc}
}

func (h *EquipmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.EquipmentListParams{
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	rows, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": rows, "total": total, "page": page, "size": size}})
}

// Import POST /equipment/import, multipart field "file", CSV with columns
// brand,model,width,height,depth,weight.
func (h *EquipmentHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "upload a csv file"})
		return
	}
	defer file.Close()

	result, err := h.svc.ImportCSV(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

// Export GET /equipment/export?format=csv|xlsx
func (h *EquipmentHandler) Export(c *gin.Context) {
	if c.DefaultQuery("format", "csv") == "xlsx" {
		f, err := h.svc.ExportXLSX(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
			return
		}
		defer f.Close()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=\"equipment.xlsx\"")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "write xlsx: " + err.Error()})
		}
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=\"equipment.csv\"")
	if err := h.svc.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}
