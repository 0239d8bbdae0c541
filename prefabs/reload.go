package prefabs

import (
	"context"
	"log"
	"path/filepath"
)

// Reload is one hot-reload result. Library is nil when only a script
// changed.
type Reload struct {
	Library *Library
	Script  string
}

// WatchLibrary turns watcher events into reloads on out until ctx is done
// or the watcher closes. A library that fails to load or validate is
// logged and skipped so the running one stays in place.
func WatchLibrary(ctx context.Context, w *Watcher, out chan<- Reload) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("prefabs: watch: %v", err)
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			r := Reload{}
			switch change.Kind {
			case ChangeScript:
				r.Script = filepath.Base(change.Name)
			default:
				lib, err := LoadLibrary()
				if err != nil {
					log.Printf("prefabs: reload %s: %v", filepath.Base(change.Name), err)
					continue
				}
				r.Library = lib
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
