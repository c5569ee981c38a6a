package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/heart-area-tools/internal/report"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// handleAnalyze accepts multipart "image" and "json" files and responds with
// the pie chart PNG, or the JSON result when ?format=json is given.
func (s *Server) handleAnalyze(c *gin.Context) {
	imageFile, jsonFile, err := s.uploadedFiles(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	jsonR, err := jsonFile.Open()
	if err != nil {
		s.fail(c, fmt.Errorf("failed to open annotation upload: %w", err))
		return
	}
	defer jsonR.Close()

	imageR, err := imageFile.Open()
	if err != nil {
		s.fail(c, fmt.Errorf("failed to open image upload: %w", err))
		return
	}
	defer imageR.Close()

	res, _, err := s.analyzer.AnalyzeReaders(c.Request.Context(), jsonR, imageR)
	if err != nil {
		s.fail(c, err)
		return
	}
	log.Printf("[%s] analyzed %s (%dx%d): %v", c.GetString(RequestIDHeader), imageFile.Filename, res.Width, res.Height, res.Areas)

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, res)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPieChart(&buf, res.Percentages, s.chartOpts); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// uploadedFiles applies the request checks in order: both parts present,
// image extension, annotation extension.
func (s *Server) uploadedFiles(c *gin.Context) (image, annotation *multipart.FileHeader, err error) {
	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, &ValidationError{
				Status:  http.StatusRequestEntityTooLarge,
				Message: fmt.Sprintf("Upload exceeds %d bytes.", tooLarge.Limit),
			}
		}
		return nil, nil, badRequest(msgFilesRequired)
	}

	image, imgErr := c.FormFile("image")
	annotation, jsonErr := c.FormFile("json")
	if imgErr != nil || jsonErr != nil || image.Filename == "" || annotation.Filename == "" {
		return nil, nil, badRequest(msgFilesRequired)
	}

	if !imageExts[strings.ToLower(filepath.Ext(image.Filename))] {
		return nil, nil, badRequest(msgBadImageExt)
	}
	if strings.ToLower(filepath.Ext(annotation.Filename)) != ".json" {
		return nil, nil, badRequest(msgBadJSONExt)
	}
	return image, annotation, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] analyze failed: %v", c.GetString(RequestIDHeader), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
