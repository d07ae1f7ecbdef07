// Package catalogwatch ingests catalog CSV files dropped into a watched
// directory, so operators can bulk-load without going through the HTTP
// endpoint. Re-processing a file is harmless: ingestion upserts are full
// overwrites, so repeats converge to the same index state.
package catalogwatch

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Ingestor is the slice of the ingestion controller the watcher needs.
type Ingestor interface {
	IngestCSV(ctx context.Context, r io.Reader) (int, error)
}

// settleDelay gives the writer time to finish before the file is read.
// CSV drops are usually a single atomic copy, but editors and scp are not.
const settleDelay = 500 * time.Millisecond

// Watcher watches one directory for catalog CSV files.
type Watcher struct {
	dir       string
	ingestor  Ingestor
	fsWatcher *fsnotify.Watcher
	done      chan struct{}
}

// New creates a watcher on dir. Start must be called to begin processing.
func New(dir string, ingestor Ingestor) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		dir:       dir,
		ingestor:  ingestor,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}, nil
}

// Start launches the event loop. It returns immediately; the loop runs
// until Close is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
				continue
			}
			w.ingestFile(ctx, event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCH] watcher error: %v", err)
		}
	}
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return
	case <-w.done:
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("[WATCH] open %s: %v", path, err)
		return
	}
	defer f.Close()

	count, err := w.ingestor.IngestCSV(ctx, f)
	if err != nil {
		log.Printf("[WATCH] ingest %s failed: %v", path, err)
		return
	}
	log.Printf("[WATCH] ingested %d product(s) from %s", count, path)
}
