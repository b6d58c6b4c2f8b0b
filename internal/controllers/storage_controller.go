package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BlobFetcher serves previously uploaded activity photos.
type BlobFetcher interface {
	FetchImage(ctx context.Context, name string) ([]byte, string, error)
}

// StorageController exposes the blob bucket. In local-only mode photos
// are embedded inline in the records, so Blobs is nil and everything
// 404s.
type StorageController struct {
	Blobs BlobFetcher
}

func (s *StorageController) Get(c *gin.Context) {
	if s.Blobs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	data, contentType, err := s.Blobs.FetchImage(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
