package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listafacil/backend/internal/domain"
	"github.com/listafacil/backend/internal/infrastructure/catalogstore"
)

type fakeCache struct {
	entries map[string]*domain.CachedQuote
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.CachedQuote)}
}

func (f *fakeCache) Get(ctx context.Context, fileHash string) (*domain.CachedQuote, error) {
	if entry, ok := f.entries[fileHash]; ok {
		return entry, nil
	}
	return nil, domain.ErrCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, fileHash string, quote *domain.CachedQuote) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[fileHash] = quote
	return nil
}

type fakeExtractor struct {
	items []string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractItems(ctx context.Context, documentDataURI string) ([]string, error) {
	f.calls++
	return f.items, f.err
}

type fakeFileStore struct {
	saves int
	err   error
}

func (f *fakeFileStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	f.saves++
	if f.err != nil {
		return "", f.err
	}
	return "file:///uploads/" + name, nil
}

func newQuoteService(t *testing.T, cache domain.QuoteCache, files domain.FileStore, ext domain.DocumentExtractor) *QuoteService {
	t.Helper()
	index := catalogstore.NewMemoryIndex()
	controller := NewIngestionController(index, false)
	rows := []domain.CatalogRow{
		{ProductID: "prod-001", ProductName: "Cuaderno Profesional 100 Hojas Raya"},
		{ProductID: "prod-003", ProductName: "Lápiz Mirado No. 2"},
	}
	if _, err := controller.Ingest(context.Background(), rows); err != nil {
		t.Fatalf("seed ingest failed: %v", err)
	}

	pipeline := NewMatchPipeline(NewMatcher(index, false), PipelineConfig{})
	return NewQuoteService(cache, files, ext, pipeline, QuoteServiceConfig{})
}

func testUpload() *domain.DocumentUpload {
	return &domain.DocumentUpload{
		Filename:    "lista.pdf",
		ContentType: "application/pdf",
		Content:     []byte("contenido del documento"),
	}
}

func TestProcessDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a missing upload", func(t *testing.T) {
		svc := newQuoteService(t, newFakeCache(), &fakeFileStore{}, &fakeExtractor{})
		if _, err := svc.ProcessDocument(ctx, nil); !errors.Is(err, domain.ErrNoFile) {
			t.Errorf("error = %v, want ErrNoFile", err)
		}
	})

	t.Run("returns the cached quote without calling the extractor", func(t *testing.T) {
		cache := newFakeCache()
		upload := testUpload()
		cache.entries[contentHash(upload.Content)] = &domain.CachedQuote{
			QuoteData: []domain.MatchedItem{{NormalizedName: "cuaderno", ProductID: "prod-001", Confidence: 0.9}},
			CreatedAt: time.Now(),
		}
		ext := &fakeExtractor{}
		svc := newQuoteService(t, cache, &fakeFileStore{}, ext)

		result, err := svc.ProcessDocument(ctx, upload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.FromCache {
			t.Error("FromCache = false, want true")
		}
		if ext.calls != 0 {
			t.Errorf("extractor called %d time(s), want 0", ext.calls)
		}
		if len(result.MatchedItems) != 1 || result.MatchedItems[0].ProductID != "prod-001" {
			t.Errorf("MatchedItems = %+v", result.MatchedItems)
		}
	})

	t.Run("maps extractor failure to ErrExtractorFailure", func(t *testing.T) {
		ext := &fakeExtractor{err: errors.New("timeout")}
		svc := newQuoteService(t, newFakeCache(), &fakeFileStore{}, ext)

		_, err := svc.ProcessDocument(ctx, testUpload())
		if !errors.Is(err, domain.ErrExtractorFailure) {
			t.Errorf("error = %v, want ErrExtractorFailure", err)
		}
	})

	t.Run("reports zero extracted items distinctly", func(t *testing.T) {
		ext := &fakeExtractor{items: []string{}}
		svc := newQuoteService(t, newFakeCache(), &fakeFileStore{}, ext)

		_, err := svc.ProcessDocument(ctx, testUpload())
		if !errors.Is(err, domain.ErrNoItemsExtracted) {
			t.Errorf("error = %v, want ErrNoItemsExtracted", err)
		}
	})

	t.Run("reports zero matched items distinctly", func(t *testing.T) {
		ext := &fakeExtractor{items: []string{"articulo inexistente qqq"}}
		cache := newFakeCache()
		svc := newQuoteService(t, cache, &fakeFileStore{}, ext)

		_, err := svc.ProcessDocument(ctx, testUpload())
		if !errors.Is(err, domain.ErrNoMatches) {
			t.Errorf("error = %v, want ErrNoMatches", err)
		}
		if cache.sets != 0 {
			t.Error("an unmatched quote must not be cached")
		}
	})

	t.Run("matches, caches and preserves item count", func(t *testing.T) {
		ext := &fakeExtractor{items: []string{
			"cuaderno profesional raya",
			"algo que no existe",
			"lapiz mirado",
		}}
		cache := newFakeCache()
		files := &fakeFileStore{}
		svc := newQuoteService(t, cache, files, ext)

		result, err := svc.ProcessDocument(ctx, testUpload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.FromCache {
			t.Error("FromCache = true, want false")
		}
		if len(result.MatchedItems) != 3 {
			t.Fatalf("got %d matched items, want 3", len(result.MatchedItems))
		}
		if result.MatchedItems[0].ProductID != "prod-001" {
			t.Errorf("item 0 ProductID = %q, want prod-001", result.MatchedItems[0].ProductID)
		}
		if result.MatchedItems[1].ProductID != "" {
			t.Errorf("item 1 should not carry product identity: %+v", result.MatchedItems[1])
		}
		if cache.sets != 1 || files.saves != 1 {
			t.Errorf("cache sets = %d, file saves = %d, want 1 and 1", cache.sets, files.saves)
		}

		// Second processing of identical content comes from the cache
		again, err := svc.ProcessDocument(ctx, testUpload())
		if err != nil {
			t.Fatalf("unexpected error on re-process: %v", err)
		}
		if !again.FromCache {
			t.Error("re-processed quote should come from the cache")
		}
		if ext.calls != 1 {
			t.Errorf("extractor called %d time(s), want 1", ext.calls)
		}
	})

	t.Run("treats cache and file store failures as best-effort", func(t *testing.T) {
		ext := &fakeExtractor{items: []string{"cuaderno profesional raya"}}
		cache := newFakeCache()
		cache.setErr = errors.New("disk full")
		files := &fakeFileStore{err: errors.New("disk full")}
		svc := newQuoteService(t, cache, files, ext)

		result, err := svc.ProcessDocument(ctx, testUpload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.MatchedItems) != 1 {
			t.Errorf("got %d matched items, want 1", len(result.MatchedItems))
		}
	})
}
