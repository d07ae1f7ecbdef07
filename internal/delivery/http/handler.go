package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/listafacil/backend/internal/domain"
	"github.com/listafacil/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	quotes    *usecase.QuoteService
	ingestion *usecase.IngestionController
	matcher   *usecase.Matcher
	pipeline  *usecase.MatchPipeline
}

// NewHandler creates a new HTTP handler
func NewHandler(
	quotes *usecase.QuoteService,
	ingestion *usecase.IngestionController,
	matcher *usecase.Matcher,
	pipeline *usecase.MatchPipeline,
) *Handler {
	return &Handler{
		quotes:    quotes,
		ingestion: ingestion,
		matcher:   matcher,
		pipeline:  pipeline,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "listafacil-backend",
		"version": "1.0.0",
	})
}

// CreateQuote handles an uploaded supplies-list document and returns the
// matched, quoted items.
func (h *Handler) CreateQuote(c *gin.Context) {
	upload, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNoFile.Error()})
		return
	}

	result, err := h.quotes.ProcessDocument(c.Request.Context(), upload)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNoItemsExtracted), errors.Is(err, domain.ErrNoMatches):
			// Distinct user-facing messages: a blurry photo is not a server
			// fault.
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrExtractorFailure):
			log.Printf("[HTTP] extraction failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "document extraction is temporarily unavailable, please retry"})
		default:
			log.Printf("[HTTP] quote processing error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// UploadCatalog handles a catalog CSV upload and bulk-loads it into the
// index.
func (h *Handler) UploadCatalog(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNoFile.Error()})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "text/csv" && !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrWrongFileType.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNoFile.Error()})
		return
	}
	defer f.Close()

	count, err := h.ingestion.IngestCSV(c.Request.Context(), f)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingColumns),
			errors.Is(err, domain.ErrEmptyCatalog),
			errors.Is(err, domain.ErrCatalogParse),
			errors.Is(err, domain.ErrReadOnlyCatalog):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[HTTP] catalog ingestion error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"processedCount": count})
}

// matchProductRequest is the tool-call payload from the normalization
// collaborator.
type matchProductRequest struct {
	Query string `json:"query" binding:"required"`
}

// MatchProduct returns the top-ranked catalog candidate for a free-text
// query, or an empty object when nothing matched. A failed index lookup
// also degrades to an empty object so one probe cannot fail the
// collaborator's whole batch.
func (h *Handler) MatchProduct(c *gin.Context) {
	var req matchProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	product, err := h.matcher.FindMatchingProduct(c.Request.Context(), req.Query)
	if err != nil {
		log.Printf("[HTTP] product match degraded to empty result: %v", err)
		product = nil
	}
	if product == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productId":   product.ProductID,
		"productName": product.ProductName,
	})
}

// matchItemsRequest carries a batch of extracted item names. An absent
// list is an empty batch, which legitimately yields zero matched items.
type matchItemsRequest struct {
	ExtractedItems []string `json:"extractedItems"`
}

// MatchItems runs the match pipeline over a batch of extracted item names,
// returning one MatchedItem per input in the same order.
func (h *Handler) MatchItems(c *gin.Context) {
	var req matchItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	matched := h.pipeline.MatchItems(c.Request.Context(), req.ExtractedItems)
	c.JSON(http.StatusOK, gin.H{"matchedItems": matched})
}

// readUpload pulls the multipart "file" field into a DocumentUpload.
func readUpload(c *gin.Context) (*domain.DocumentUpload, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
