package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andikura/sipola_backend_v1/internal/scan"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
)

// ScanController drives the checkpoint-visit workflow over HTTP. The
// device runs the camera; decoded codes arrive here as plain strings.
// One cycle is active at a time.
type ScanController struct {
	Workflow *scan.Workflow
	Coord    *syncer.Coordinator
}

func (s *ScanController) History(c *gin.Context) {
	c.JSON(http.StatusOK, s.Coord.Scans())
}

func (s *ScanController) Start(c *gin.Context) {
	s.Workflow.Start()
	s.Status(c)
}

type codeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *ScanController) Code(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Workflow.HandleCode(req.Code)
	s.Status(c)
}

type classifyRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (s *ScanController) Submit(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "" {
		if err := s.Workflow.SetStatus(req.Status); err != nil {
			s.rejectState(c, err)
			return
		}
	}
	if req.Notes != "" {
		if err := s.Workflow.SetNotes(req.Notes); err != nil {
			s.rejectState(c, err)
			return
		}
	}

	err := s.Workflow.Submit(c.Request.Context())
	if errors.Is(err, syncer.ErrRemoteWrite) {
		// The form is retained; the operator retries or cancels.
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gagal menyimpan: " + err.Error()})
		return
	}
	if err != nil {
		s.rejectState(c, err)
		return
	}
	s.Status(c)
}

func (s *ScanController) Cancel(c *gin.Context) {
	s.Workflow.Cancel()
	s.Status(c)
}

// Status reports the machine state so the screen can render the right
// overlay: scanning frame, classification form or result toast.
func (s *ScanController) Status(c *gin.Context) {
	resp := gin.H{
		"state":    s.Workflow.State().String(),
		"scanning": s.Workflow.Scanning(),
	}
	if cp, ok := s.Workflow.Checkpoint(); ok {
		status, notes := s.Workflow.Form()
		resp["checkpoint"] = cp
		resp["status"] = status
		resp["notes"] = notes
	}
	if r := s.Workflow.LastResult(); r != nil {
		resp["result"] = r
	}
	c.JSON(http.StatusOK, resp)
}

func (s *ScanController) rejectState(c *gin.Context, err error) {
	if errors.Is(err, scan.ErrBadState) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
