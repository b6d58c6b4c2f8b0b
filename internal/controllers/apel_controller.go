package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikura/sipola_backend_v1/internal/middleware"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
)

type ApelController struct {
	Coord *syncer.Coordinator
}

func (a *ApelController) List(c *gin.Context) {
	c.JSON(http.StatusOK, a.Coord.RollCalls())
}

type apelRequest struct {
	Shift  string         `json:"shift" binding:"required"`
	Counts map[string]int `json:"counts" binding:"required"`
}

// Create submits one roll-call. The total is computed from the
// per-block per-floor counts, never taken from the client.
func (a *ApelController) Create(c *gin.Context) {
	var req apelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidShift(req.Shift) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift"})
		return
	}

	claims, _ := middleware.CurrentClaims(c)
	now := time.Now()
	rec := models.RollCallRecord{
		ID:    models.NewID(),
		PIC:   claims.Name,
		Shift: req.Shift,
		Total: models.SumCounts(req.Counts),
		Time:  models.ClockHM(now),
		Date:  models.DateISO(now),
	}

	err := a.Coord.AddRollCall(c.Request.Context(), middleware.SessionFromClaims(claims), rec)
	if errors.Is(err, syncer.ErrRemoteWrite) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gagal menyimpan data: " + err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}
