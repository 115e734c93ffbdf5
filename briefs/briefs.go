// Package briefs loads supporting documents (market notes, board memos)
// from a local directory and offers them as prompt context. While the
// server runs, a file watcher keeps the in-memory set current.
package briefs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// maxBriefSize bounds a single brief file.
	maxBriefSize = 256 * 1024

	// maxDigestChars bounds how much brief content one prompt carries.
	maxDigestChars = 4000
)

// Brief is one loaded supporting document.
type Brief struct {
	// Name is the path relative to the briefs directory.
	Name string `json:"name"`

	// Content is the document text.
	Content string `json:"content"`

	// LoadedAt is when the file was last read.
	LoadedAt time.Time `json:"loaded_at"`
}

// Config configures brief loading.
type Config struct {
	// Dir is the briefs directory. Empty disables briefs.
	Dir string `yaml:"dir"`

	// Include lists glob patterns (doublestar syntax) for files to
	// load, relative to Dir.
	Include []string `yaml:"include"`

	// ExcludeDirs lists directory names to skip.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// DebounceDelay is how long to wait for more changes before reloading.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// DefaultConfig returns the default brief configuration.
func DefaultConfig() Config {
	return Config{
		Include:       []string{"**/*.md", "**/*.txt"},
		ExcludeDirs:   []string{".git", "node_modules"},
		DebounceDelay: 500 * time.Millisecond,
	}
}

// Library holds the loaded briefs. Safe for concurrent readers while
// the watcher reloads in the background.
type Library struct {
	config Config
	logger *slog.Logger

	mu     sync.RWMutex
	briefs map[string]Brief
}

// NewLibrary creates a library and performs the initial load.
func NewLibrary(config Config, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(config.Include) == 0 {
		config.Include = DefaultConfig().Include
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultConfig().DebounceDelay
	}

	lib := &Library{
		config: config,
		logger: logger,
		briefs: make(map[string]Brief),
	}

	if config.Dir != "" {
		if err := lib.Reload(); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Reload rescans the briefs directory.
func (l *Library) Reload() error {
	if l.config.Dir == "" {
		return nil
	}

	entries, err := l.scan()
	if err != nil {
		return fmt.Errorf("scan briefs dir: %w", err)
	}

	l.mu.Lock()
	l.briefs = entries
	l.mu.Unlock()

	l.logger.Debug("Briefs reloaded", "dir", l.config.Dir, "count", len(entries))
	return nil
}

// scan walks the directory and loads matching files.
func (l *Library) scan() (map[string]Brief, error) {
	entries := make(map[string]Brief)

	err := filepath.WalkDir(l.config.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if l.excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(l.config.Dir, path)
		if err != nil {
			return err
		}
		if !l.matches(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxBriefSize {
			l.logger.Warn("Skipping oversized brief", "path", rel, "size", info.Size())
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		entries[rel] = Brief{
			Name:     rel,
			Content:  string(content),
			LoadedAt: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// matches checks a relative path against the include patterns.
func (l *Library) matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range l.config.Include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// excluded checks a directory name against the exclude list.
func (l *Library) excluded(name string) bool {
	for _, ex := range l.config.ExcludeDirs {
		if name == ex {
			return true
		}
	}
	return false
}

// List returns the loaded briefs sorted by name.
func (l *Library) List() []Brief {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Brief, 0, len(l.briefs))
	for _, b := range l.briefs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Digest renders the loaded briefs as one bounded prompt block.
// Implements advisor.BriefSource.
func (l *Library) Digest() string {
	var b strings.Builder
	for _, brief := range l.List() {
		section := fmt.Sprintf("### %s\n\n%s\n\n", brief.Name, strings.TrimSpace(brief.Content))
		if b.Len()+len(section) > maxDigestChars {
			break
		}
		b.WriteString(section)
	}
	return strings.TrimSpace(b.String())
}
