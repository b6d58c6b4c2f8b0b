package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
)

// CheckpointController manages the patrol-point catalog. Creation is
// Super Admin only (enforced by routing).
type CheckpointController struct {
	Coord *syncer.Coordinator
}

func (cc *CheckpointController) List(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Coord.Checkpoints())
}

type checkpointRequest struct {
	Location string `json:"location" binding:"required"`
}

func (cc *CheckpointController) Create(c *gin.Context) {
	var req checkpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cp := models.Checkpoint{
		Code:     checkpointCode(req.Location),
		Location: req.Location,
	}
	err := cc.Coord.AddCheckpoint(c.Request.Context(), &cp)
	if errors.Is(err, syncer.ErrRemoteWrite) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gagal menambahkan: " + err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// checkpointCode derives a stable scannable code from the location name
// plus the creation timestamp.
func checkpointCode(location string) string {
	loc := strings.ToUpper(strings.Join(strings.Fields(location), "_"))
	return fmt.Sprintf("QR_%s_%d", loc, time.Now().UnixMilli())
}
