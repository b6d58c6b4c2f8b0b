package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikura/sipola_backend_v1/internal/annotate"
	"github.com/andikura/sipola_backend_v1/internal/middleware"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
)

type ActivityController struct {
	Coord *syncer.Coordinator
	Blobs annotate.Uploader
}

func (a *ActivityController) List(c *gin.Context) {
	c.JSON(http.StatusOK, a.Coord.Activities())
}

// Create accepts a multipart form: fields time, name, desc plus any
// number of photos under "images". Photos run through the annotation
// pipeline before the record is written through.
func (a *ActivityController) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := c.PostForm("name")
	desc := c.PostForm("desc")
	if desc == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Isi uraian kegiatan!"})
		return
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Isi nama yang bersangkutan!"})
		return
	}

	now := time.Now()
	timeStr := c.PostForm("time")
	if timeStr == "" {
		timeStr = models.ClockHM(now)
	}

	var raws [][]byte
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		raws = append(raws, raw)
	}

	images, err := annotate.Process(c.Request.Context(), a.Blobs, raws, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if images == nil {
		images = []string{}
	}

	claims, _ := middleware.CurrentClaims(c)
	rec := models.ActivityRecord{
		ID:     models.NewID(),
		Time:   timeStr,
		Name:   name,
		Desc:   desc,
		User:   claims.Name,
		Images: images,
		Date:   models.DateISO(now),
	}

	err = a.Coord.AddActivity(c.Request.Context(), middleware.SessionFromClaims(claims), rec)
	if errors.Is(err, syncer.ErrRemoteWrite) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gagal menyimpan: " + err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}
