package trainer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
)

// Trainer retrains the model
type Trainer interface {
	Train(ctx context.Context) error
}

// Watcher retrains the model when any of the watched files is changed.
// Bursts of changes are collapsed into a single retrain after Delay.
type Watcher struct {
	Files     []string
	Trainer   Trainer
	Delay     time.Duration
	OnTrained func() // called after each successful retrain, optional
}

// Run watches files until ctx is canceled. Directories of the files are watched,
// so files created or replaced after the start are picked up too.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	files := map[string]bool{}
	errs := new(multierror.Error)
	for _, f := range w.Files {
		abs, e := filepath.Abs(f)
		if e != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to resolve %s: %w", f, e))
			continue
		}
		files[abs] = true
		if e = watcher.Add(filepath.Dir(abs)); e != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to add %s to watcher: %w", filepath.Dir(abs), e))
		}
	}
	if err = errs.ErrorOrNil(); err != nil {
		return err
	}
	log.Printf("[INFO] watching %d sample files for changes", len(files))

	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping samples watcher, %v", ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(event.Name)] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Printf("[DEBUG] samples file event: %s", event)
			timer.Reset(delay)
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		case <-timer.C:
			if e := w.Trainer.Train(ctx); e != nil {
				log.Printf("[WARN] failed to retrain on samples change: %v", e)
				continue
			}
			log.Printf("[INFO] model retrained on samples change")
			if w.OnTrained != nil {
				w.OnTrained()
			}
		}
	}
}
