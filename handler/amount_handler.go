package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medbill/amount-detection/dto"
	"github.com/medbill/amount-detection/service"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

type AmountHandler struct {
	extractionService *service.ExtractionService
	maxFileSize       int64
	classifierReady   bool
}

func NewAmountHandler(extractionService *service.ExtractionService, maxFileSize int64, classifierReady bool) *AmountHandler {
	return &AmountHandler{
		extractionService: extractionService,
		maxFileSize:       maxFileSize,
		classifierReady:   classifierReady,
	}
}

// ExtractAmounts handles POST /amounts/extract: multipart file upload or a
// "text" form field.
func (h *AmountHandler) ExtractAmounts(c *gin.Context) {
	log.Println("Received amount extraction request")

	fileHeader, fileErr := c.FormFile("file")
	text := c.PostForm("text")

	if fileErr != nil && text == "" {
		h.sendError(c, http.StatusBadRequest, dto.ErrNoInput)
		return
	}

	var result dto.PipelineResult
	var err error

	if fileErr == nil {
		if vErr := h.validateUpload(fileHeader); vErr != nil {
			h.sendError(c, http.StatusBadRequest, vErr)
			return
		}
		data, rErr := readUpload(fileHeader)
		if rErr != nil {
			h.sendError(c, http.StatusInternalServerError, rErr)
			return
		}
		log.Printf("Processing uploaded file %s (%d bytes)", fileHeader.Filename, len(data))
		result, err = h.extractionService.ExtractFromFile(c.Request.Context(), data, fileHeader.Filename)
	} else {
		log.Printf("Processing direct text input (%d characters)", len(text))
		result, err = h.extractionService.ExtractFromText(c.Request.Context(), text)
	}

	h.respond(c, result, err)
}

// ExtractAmountsJSON handles POST /amounts/extract-text with a JSON body
func (h *AmountHandler) ExtractAmountsJSON(c *gin.Context) {
	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.extractionService.ExtractFromText(c.Request.Context(), req.Text)
	h.respond(c, result, err)
}

// DebugTokens exposes the stage-1 output for inspection
func (h *AmountHandler) DebugTokens(c *gin.Context) {
	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": h.extractionService.Tokens(req.Text)})
}

// DebugNormalize exposes the stage-2 output for inspection
func (h *AmountHandler) DebugNormalize(c *gin.Context) {
	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, err)
		return
	}
	amounts, rejected := h.extractionService.Normalized(req.Text)
	c.JSON(http.StatusOK, gin.H{"normalized_amounts": amounts, "rejected": rejected})
}

// DebugLabel exposes the stage-3 output for inspection
func (h *AmountHandler) DebugLabel(c *gin.Context) {
	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labeled_amounts": h.extractionService.Labeled(req.Text)})
}

// Health reports service and dependency readiness
func (h *AmountHandler) Health(c *gin.Context) {
	classifier := "rule_fallback_only"
	if h.classifierReady {
		classifier = "ready"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Medical Amount Detection",
		"dependencies": gin.H{
			"extraction_service": "ready",
			"classifier":         classifier,
		},
	})
}

func (h *AmountHandler) respond(c *gin.Context, result dto.PipelineResult, err error) {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Printf("Request aborted: %v", err)
			c.Abort()
			return
		}
		h.sendError(c, http.StatusInternalServerError, err)
		return
	}

	resp := result.ToResponse()
	log.Printf("Extraction completed: %d amounts, status=%s", len(resp.Amounts), resp.Status)
	c.JSON(http.StatusOK, resp)
}

func (h *AmountHandler) validateUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > h.maxFileSize {
		return dto.ErrFileTooLarge
	}
	ext := strings.ToLower(fileHeader.Filename)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i:]
	}
	if !allowedExtensions[ext] {
		return dto.ErrBadFileType
	}
	return nil
}

// sendError converts any failure into the structured error envelope; no raw
// error ever reaches the client unwrapped.
func (h *AmountHandler) sendError(c *gin.Context, statusCode int, err error) {
	log.Printf("Error: %v", err)
	c.JSON(statusCode, dto.ErrorResponse{
		Status: dto.StatusError,
		Reason: err.Error(),
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
