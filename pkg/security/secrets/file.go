package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider loads credentials from individual files in a directory, the
// layout used by Kubernetes and Docker secret mounts.
//
// A credential named "OPENAI_API_KEY" is read from "<dir>/OPENAI_API_KEY" or,
// failing that, "<dir>/openai-api-key". Files must be 0600 or 0400 and their
// contents are trimmed. Values are cached until Refresh; with Watch set the
// cache is dropped whenever the directory changes.
type FileProvider struct {
	BasePath string
	Watch    bool

	mu      sync.RWMutex
	cache   map[string]string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}
	logger  *slog.Logger
}

// NewFileProvider creates a new file-based secret provider.
func NewFileProvider(basePath string, watch bool) (*FileProvider, error) {
	p := &FileProvider{
		BasePath: basePath,
		Watch:    watch,
		cache:    make(map[string]string),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		logger:   slog.Default().With("component", "secrets.file"),
	}

	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	if !watch {
		close(p.done)
		p.logger.Debug("file secret provider started", "path", basePath, "watch", false)
		return p, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	p.watcher = watcher
	go p.watchLoop()

	p.logger.Debug("file secret provider started", "path", basePath, "watch", true)

	return p, nil
}

// GetSecret retrieves a secret from a file.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	if value, ok := p.cache[name]; ok {
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	var lastErr error
	for _, candidate := range fileCandidates(name) {
		value, err := p.readSecret(candidate)
		if err != nil {
			// a real problem with one candidate beats "not found" on the other
			if lastErr == nil || errors.Is(lastErr, ErrNotFound) {
				lastErr = err
			}
			continue
		}

		p.mu.Lock()
		p.cache[name] = value
		p.mu.Unlock()

		return value, nil
	}

	return "", lastErr
}

// readSecret reads one candidate file below BasePath.
func (p *FileProvider) readSecret(filename string) (string, error) {
	path := filepath.Join(p.BasePath, filename)

	absBase, err := filepath.Abs(p.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret path: directory traversal detected")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no file for %s", ErrNotFound, filename)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", filename)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path is confined to BasePath above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, filename)
	}

	return value, nil
}

// fileCandidates lists the filenames tried for name, exact name first.
func fileCandidates(name string) []string {
	name = strings.TrimSpace(name)
	alt := strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	if alt == name {
		return []string{name}
	}
	return []string{name, alt}
}

// ListSecrets returns all regular file names in the base directory.
func (p *FileProvider) ListSecrets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}

// Supports reports whether a file exists for name.
func (p *FileProvider) Supports(name string) bool {
	for _, candidate := range fileCandidates(name) {
		info, err := os.Stat(filepath.Join(p.BasePath, candidate))
		if err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}

// Refresh clears the cache, forcing secrets to be re-read from files.
func (p *FileProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache = make(map[string]string)
	return nil
}

// Close stops the file watcher.
func (p *FileProvider) Close() error {
	if p.watcher == nil {
		return nil
	}

	select {
	case <-p.stopCh:
		return nil
	default:
	}

	close(p.stopCh)
	err := p.watcher.Close()
	<-p.done
	return err
}

// watchLoop drops the cache on any change in the directory. Kubernetes
// rotates mounted secrets by swapping a symlink, which shows up as
// Create/Remove/Rename rather than Write.
func (p *FileProvider) watchLoop() {
	defer close(p.done)

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			p.logger.Debug("secret directory changed, refreshing",
				"file", filepath.Base(event.Name),
				"op", event.Op.String(),
			)
			_ = p.Refresh(context.Background())

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("file watcher error", "error", err)

		case <-p.stopCh:
			return
		}
	}
}
