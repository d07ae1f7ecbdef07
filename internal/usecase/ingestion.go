package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/listafacil/backend/internal/domain"
)

const (
	// batchCeiling is the document store's transactional write limit.
	// Chunks never exceed it and are committed sequentially, each awaited
	// before the next.
	batchCeiling = 500

	columnProductID   = "productId"
	columnProductName = "productName"
)

// IngestionController bulk-loads catalog rows into the index: keywords are
// generated per row and written through full-overwrite upserts, so re-running
// an ingestion on the same rows converges to the same end state.
type IngestionController struct {
	index              domain.CatalogIndex
	enableDebugLogging bool
}

// NewIngestionController creates an ingestion controller over the index.
func NewIngestionController(index domain.CatalogIndex, enableDebugLogging bool) *IngestionController {
	return &IngestionController{
		index:              index,
		enableDebugLogging: enableDebugLogging,
	}
}

// IngestCSV parses a whole catalog CSV and writes it to the index. Header
// validation and parsing happen before any write: a malformed file, a
// missing required column, or an empty row set aborts with zero side
// effects. Returns the number of rows written.
func (c *IngestionController) IngestCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := parseCatalogCSV(r)
	if err != nil {
		return 0, err
	}
	return c.Ingest(ctx, rows)
}

// Ingest applies parsed rows in chunks of at most batchCeiling, one
// transactional batch per chunk. Rows missing productId or productName are
// skipped silently and not counted.
func (c *IngestionController) Ingest(ctx context.Context, rows []domain.CatalogRow) (int, error) {
	processed := 0
	for start := 0; start < len(rows); start += batchCeiling {
		end := start + batchCeiling
		if end > len(rows) {
			end = len(rows)
		}

		batch := make([]domain.Product, 0, end-start)
		for _, row := range rows[start:end] {
			if row.ProductID == "" || row.ProductName == "" {
				continue
			}
			batch = append(batch, domain.Product{
				ProductID:      row.ProductID,
				ProductName:    row.ProductName,
				SearchKeywords: GenerateKeywords(row.ProductName),
			})
		}
		if len(batch) == 0 {
			continue
		}

		if err := c.index.UpsertBatch(ctx, batch); err != nil {
			return processed, fmt.Errorf("catalog batch write: %w", err)
		}
		processed += len(batch)

		if c.enableDebugLogging {
			log.Printf("[INGEST] committed batch of %d products", len(batch))
		}
	}
	return processed, nil
}

// parseCatalogCSV reads the full file up front. Required header columns are
// productId and productName; extra columns are ignored. Quoting follows
// standard CSV rules.
func parseCatalogCSV(r io.Reader) ([]domain.CatalogRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogParse, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	idCol, nameCol := -1, -1
	for i, column := range records[0] {
		switch strings.TrimSpace(column) {
		case columnProductID:
			idCol = i
		case columnProductName:
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, domain.ErrMissingColumns
	}

	rows := make([]domain.CatalogRow, 0, len(records)-1)
	for _, record := range records[1:] {
		var row domain.CatalogRow
		if idCol < len(record) {
			row.ProductID = strings.TrimSpace(record[idCol])
		}
		if nameCol < len(record) {
			row.ProductName = strings.TrimSpace(record[nameCol])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return rows, nil
}
