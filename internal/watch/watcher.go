package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dtnitsch/seo-tagger/internal/common"
)

// DefaultDebounce is how long a draft must stay quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// DefaultExtensions lists the draft types watched when none are given.
var DefaultExtensions = []string{".md", ".markdown", ".txt", ".html", ".htm"}

// Handler processes one changed draft. hash is the sha256 of its content.
type Handler func(ctx context.Context, path, hash string) error

// Config configures a Watcher.
type Config struct {
	Dir        string
	Extensions []string
	Debounce   time.Duration
	// Ignore holds directories whose contents never trigger the handler,
	// typically the output directory.
	Ignore []string
}

// Watcher regenerates drafts as they are created or written. Events for the
// same path are coalesced until the path has been quiet for Debounce.
type Watcher struct {
	dir        string
	debounce   time.Duration
	extensions map[string]bool
	ignore     []string
	handle     Handler
	logger     *slog.Logger
	fsw        *fsnotify.Watcher

	// Owned by the Run goroutine.
	pending map[string]time.Time
	hashes  map[string]string
}

// New creates a watcher on cfg.Dir and every directory below it.
func New(cfg Config, handle Handler, logger *slog.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: watch directory is required", common.ErrNoInput)
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrNoInput, cfg.Dir)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}
	var ignore []string
	for _, d := range cfg.Ignore {
		if d == "" {
			continue
		}
		if abs, err := filepath.Abs(d); err == nil {
			ignore = append(ignore, abs)
		}
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	for _, d := range ignore {
		if dir == d || strings.HasPrefix(dir, d+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s is inside ignored directory %s", common.ErrNoInput, dir, d)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		dir:        dir,
		debounce:   debounce,
		extensions: extensions,
		ignore:     ignore,
		handle:     handle,
		logger:     logger.With("component", "watch"),
		fsw:        fsw,
		pending:    make(map[string]time.Time),
		hashes:     make(map[string]string),
	}
	if err := w.addRecursive(dir, false); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is done, processing drafts as they settle.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.logger.Info("Watching drafts", "dir", w.dir, "debounce", w.debounce.String())
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	path := event.Name
	if w.ignored(path) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// Files written before the watch was added are picked up by the walk.
			if err := w.addRecursive(path, true); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}
	if !w.wanted(path) {
		return
	}
	w.pending[path] = time.Now()
	w.logger.Debug("Draft change detected", "path", path, "op", event.Op.String())
}

// flush hands every path that has been quiet for the debounce window to
// the handler, skipping content that was already processed.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if ctx.Err() != nil {
			return
		}

		content, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				w.logger.Warn("Failed to read draft", "path", path, "error", err)
			}
			continue
		}
		hash := common.ContentHash(content)
		if w.hashes[path] == hash {
			w.logger.Debug("Draft unchanged", "path", path)
			continue
		}
		w.hashes[path] = hash

		if err := w.handle(ctx, path, hash); err != nil {
			w.logger.Error("Failed to process draft", "path", path, "error", err)
		}
	}
}

// addRecursive watches root and its subdirectories. When queue is set,
// files already present are marked pending.
func (w *Watcher) addRecursive(root string, queue bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if queue && w.wanted(path) && !w.ignored(path) {
				w.pending[path] = time.Now()
			}
			return nil
		}
		if (path != root && hidden(d.Name())) || w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

func (w *Watcher) wanted(path string) bool {
	name := filepath.Base(path)
	if hidden(name) || strings.HasSuffix(name, "~") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(name))]
}

func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "#")
}
