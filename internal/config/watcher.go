package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cloud-cli-mcp/pkg/logging"
)

const (
	// DefaultReloadDebounce is how long the watcher waits after the last
	// change to config.yaml before reloading it.
	DefaultReloadDebounce = 300 * time.Millisecond

	// DefaultPollInterval is used when fsnotify cannot watch the directory.
	DefaultPollInterval = 5 * time.Second
)

// Watcher reloads config.yaml whenever it changes and passes the result to
// OnReload. Files that fail to load are logged and skipped, so the previous
// configuration stays in effect.
type Watcher struct {
	mu sync.Mutex

	configPath   string
	onReload     func(Config)
	debounce     time.Duration
	pollInterval time.Duration

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	lastModTime time.Time
	timer       *time.Timer
}

// NewWatcher creates a watcher for the config.yaml inside configPath.
func NewWatcher(configPath string, onReload func(Config)) *Watcher {
	return &Watcher{
		configPath:   configPath,
		onReload:     onReload,
		debounce:     DefaultReloadDebounce,
		pollInterval: DefaultPollInterval,
	}
}

// Start begins watching. It never fails hard: when fsnotify is unavailable
// or the directory cannot be watched the watcher polls the file instead.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	w.stopCh = make(chan struct{})
	w.running = true

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("ConfigWatcher", "fsnotify not available, polling %s: %v", w.configPath, err)
		go w.poll(w.stopCh)
		return nil
	}
	if err := fsw.Add(w.configPath); err != nil {
		logging.Warn("ConfigWatcher", "Cannot watch %s, polling instead: %v", w.configPath, err)
		fsw.Close()
		go w.poll(w.stopCh)
		return nil
	}

	w.fsWatcher = fsw
	go w.processEvents(w.stopCh, fsw.Events, fsw.Errors)

	logging.Info("ConfigWatcher", "Watching %s for changes", ConfigFilePath(w.configPath))
	return nil
}

func (w *Watcher) processEvents(stopCh <-chan struct{}, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			// Editors often replace the file with a rename, so Create counts too.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug("ConfigWatcher", "Config file event: %s", event)
			w.scheduleReload()
		case err, ok := <-errs:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "fsnotify error")
		}
	}
}

func (w *Watcher) poll(stopCh <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.modifiedSinceLastCheck()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if w.modifiedSinceLastCheck() {
				w.scheduleReload()
			}
		}
	}
}

func (w *Watcher) modifiedSinceLastCheck() bool {
	info, err := os.Stat(ConfigFilePath(w.configPath))
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := !w.lastModTime.IsZero() && info.ModTime().After(w.lastModTime)
	w.lastModTime = info.ModTime()
	return changed
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	cfg, err := LoadConfig(w.configPath)
	if err != nil {
		logging.Error("ConfigWatcher", err, "Ignoring invalid configuration change")
		return
	}
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Stop ends watching. Pending reloads are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			logging.Warn("ConfigWatcher", "Error closing fsnotify watcher: %v", err)
		}
		w.fsWatcher = nil
	}
}
