package catalogwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listafacil/backend/internal/infrastructure/catalogstore"
	"github.com/listafacil/backend/internal/usecase"
)

func TestWatcher_IngestsDroppedCSV(t *testing.T) {
	dir := t.TempDir()
	index := catalogstore.NewMemoryIndex()
	controller := usecase.NewIngestionController(index, false)

	watcher, err := New(dir, controller)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)

	csvData := "productId,productName\nprod-001,Cuaderno Profesional 100 Hojas Raya\nprod-008,Tijeras Escolares Punta Roma\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalogo.csv"), []byte(csvData), 0644))

	// The watcher waits settleDelay before reading; poll past it.
	deadline := time.After(5 * time.Second)
	for index.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("catalog not ingested, index has %d product(s)", index.Len())
		case <-time.After(50 * time.Millisecond):
		}
	}

	product, ok := index.Get("prod-008")
	require.True(t, ok)
	assert.Equal(t, "Tijeras Escolares Punta Roma", product.ProductName)
}

func TestWatcher_IgnoresNonCSVFiles(t *testing.T) {
	dir := t.TempDir()
	index := catalogstore.NewMemoryIndex()
	controller := usecase.NewIngestionController(index, false)

	watcher, err := New(dir, controller)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("productId,productName\nprod-001,Cuaderno\n"), 0644))

	time.Sleep(settleDelay + 200*time.Millisecond)
	assert.Equal(t, 0, index.Len())
}

func TestWatcher_RejectsMissingDir(t *testing.T) {
	index := catalogstore.NewMemoryIndex()
	controller := usecase.NewIngestionController(index, false)

	_, err := New(filepath.Join(t.TempDir(), "missing"), controller)
	assert.Error(t, err)
}
