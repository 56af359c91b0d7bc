package handler

import (
	"net/http"
	"strconv"

	"github.com/dest81/aid-coordinator/internal/supply/perm"
	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/dest81/aid-coordinator/internal/supply/service"
	"github.com/gin-gonic/gin"
)

type ChangeHandler struct {
	svc *service.ChangeLogService
}

func NewChangeHandler(svc *service.ChangeLogService) *ChangeHandler {
	return &ChangeHandler{svc: svc}
}

// List returns the audit log, newest first. Read-only and superuser-only.
func (h *ChangeHandler) List(c *gin.Context) {
	if !perm.CanViewChanges(actorFrom(c)) {
		forbidden(c)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ChangeListParams{
		Action: c.Query("action"),
		Type:   c.Query("type"),
		WhoID:  c.Query("who"),
		Page:   page,
		Size:   size,
	}
	changes, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": changes, "total": total, "page": page, "size": size}})
}
