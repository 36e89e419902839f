package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/lingua/logger"
)

// Registry maps language names and file extensions to providers.
//
// The contract is register-at-startup, read-after; the RWMutex keeps the
// registry safe if that contract is ever stretched.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Provider
	byExt  map[string]Provider
	logger *zap.SugaredLogger
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Provider),
		byExt:  make(map[string]Provider),
		logger: logger.ComponentLogger("lang.registry"),
	}
}

// Register adds a provider, upserting its name and extension claims.
// Re-registering a name replaces the previous provider. An extension already
// claimed by another language is taken over by the newcomer with a warning;
// registration itself never fails.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(p.Name())
	if prev, exists := r.byName[name]; exists && prev != p {
		r.logger.Warnw("replacing registered provider", logger.FieldLanguage, name)
	}
	r.byName[name] = p

	for _, ext := range p.Extensions() {
		ext = normalizeExt(ext)
		if prev, exists := r.byExt[ext]; exists && prev.Name() != name {
			r.logger.Warnw("extension reassigned",
				"extension", ext,
				"from", prev.Name(),
				"to", name)
		}
		r.byExt[ext] = p
	}
}

// Get retrieves a provider by language name (case-insensitive).
func (r *Registry) Get(language string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[strings.ToLower(language)]
	return p, ok
}

// GetForFile retrieves the provider claiming the file's extension.
func (r *Registry) GetForFile(path string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return p, ok
}

// SupportedLanguages returns all registered language names in sorted order.
func (r *Registry) SupportedLanguages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedExtensions returns all claimed extensions in sorted order.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
