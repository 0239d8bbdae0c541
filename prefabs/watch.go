package prefabs

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

type ChangeKind uint8

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
)

// Change names one prefab or script file that changed on disk.
type Change struct {
	Name string
	Kind ChangeKind
}

// Watcher reports prefab and script changes under a prefab directory.
// Bursts of writes to one file collapse into one Change.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewWatcher watches dir and, when it exists, dir/scripts.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	scripts := filepath.Join(dir, "scripts")
	if err := fsw.Add(scripts); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher; Changes and Errors are closed once it returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Changes)

	seen := make(map[string]time.Time)
	for {
		select {
		case <-w.stop:
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			kind, ok := Classify(event)
			if !ok {
				continue
			}
			now := time.Now()
			if at, dup := seen[event.Name]; dup && now.Sub(at) < reloadDebounce {
				continue
			}
			seen[event.Name] = now
			select {
			case w.Changes <- Change{Name: event.Name, Kind: kind}:
			case <-w.stop:
				return
			}
		}
	}
}

// Classify reports which kind of reload a filesystem event calls for.
// Chmod-only events and unrelated files are ignored.
func Classify(event fsnotify.Event) (ChangeKind, bool) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return 0, false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
