package handlers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/horseradish/comparebot/internal/config"
	"github.com/horseradish/comparebot/internal/middleware"
	"github.com/horseradish/comparebot/internal/services"
	"github.com/horseradish/comparebot/pkg/response"
)

type ReportHandler struct {
	reportService *services.ReportService
	maxUploadSize int64
}

func NewReportHandler(reportService *services.ReportService, uploadCfg *config.UploadConfig) *ReportHandler {
	maxMB := uploadCfg.MaxSizeMB
	if maxMB <= 0 {
		maxMB = 20
	}
	return &ReportHandler{
		reportService: reportService,
		maxUploadSize: int64(maxMB) << 20,
	}
}

// Upload stores a weekly report PDF
// POST /api/reports/upload (multipart: client_id, week_number, file)
func (h *ReportHandler) Upload(c *gin.Context) {
	clientID := c.PostForm("client_id")
	if clientID == "" {
		response.BadRequest(c, "client_id is required")
		return
	}

	weekNumber, err := strconv.Atoi(c.PostForm("week_number"))
	if err != nil {
		response.BadRequest(c, "week_number must be an integer")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.BadRequest(c, fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxUploadSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, response.NewServerError("failed to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, response.NewServerError("failed to read uploaded file"))
		return
	}

	result, err := h.reportService.Upload(c.Request.Context(), middleware.GetClientID(c), &services.UploadRequest{
		ClientID:   clientID,
		WeekNumber: weekNumber,
		Filename:   fileHeader.Filename,
		Data:       data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Compare returns the AI comparison between week N and week N-1
// GET /api/reports/compare?client_id=...&week_number=N
func (h *ReportHandler) Compare(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		response.BadRequest(c, "client_id is required")
		return
	}

	weekNumber, err := strconv.Atoi(c.Query("week_number"))
	if err != nil {
		response.BadRequest(c, "week_number must be an integer")
		return
	}

	result, err := h.reportService.Compare(c.Request.Context(), middleware.GetClientID(c), clientID, weekNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List returns report metadata for a client, newest week first
// GET /api/reports?client_id=...
func (h *ReportHandler) List(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		response.BadRequest(c, "client_id is required")
		return
	}

	metas, err := h.reportService.List(middleware.GetClientID(c), clientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, metas)
}
