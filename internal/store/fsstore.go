package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"piccolo/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// indexEntry records the creation sequence for a single key so ListPrefix
// can recover ascending creation order across process restarts, the same
// guarantee Memory gives for free from insertion order.
type indexEntry struct {
	Key string `json:"key"`
	Seq uint64 `json:"seq"`
}

// FS is a directory-of-files KV adapter, grounded directly on the teacher's
// config.Storage Save/Load/Delete/List + filename sanitization, extended
// with a root-level ".index" file that preserves creation order and an
// optional fsnotify watch so externally-edited files drive the same
// reconciliation path as a programmatic Put.
type FS struct {
	mu   sync.Mutex
	root string
	seq  uint64
	idx  map[string]uint64 // key -> seq, mirrors the on-disk index
}

// NewFS creates an FS-backed store rooted at dir, loading any existing
// index so a restarted process preserves prior creation order.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fs := &FS{root: dir, idx: make(map[string]uint64)}
	if err := fs.loadIndex(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FS) indexPath() string {
	return filepath.Join(f.root, ".index")
}

func (f *FS) loadIndex() error {
	data, err := os.ReadFile(f.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		f.idx[e.Key] = e.Seq
		if e.Seq > f.seq {
			f.seq = e.Seq
		}
	}
	return nil
}

// saveIndex must be called with f.mu held.
func (f *FS) saveIndex() error {
	entries := make([]indexEntry, 0, len(f.idx))
	for k, seq := range f.idx {
		entries = append(entries, indexEntry{Key: k, Seq: seq})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(f.indexPath(), data, 0o644)
}

// filePath maps a logical key to an on-disk path, sanitizing path
// separators and reserved characters the way config.Storage does for
// entity names.
func (f *FS) filePath(key string) string {
	sanitized := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_",
	).Replace(key)
	return filepath.Join(f.root, sanitized+".yaml")
}

func (f *FS) Put(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.WriteFile(f.filePath(key), value, 0o644); err != nil {
		return err
	}
	if _, exists := f.idx[key]; !exists {
		f.seq++
		f.idx[key] = f.seq
	}
	return f.saveIndex()
}

func (f *FS) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(key)
		}
		return nil, err
	}
	return data, nil
}

func (f *FS) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	delete(f.idx, key)
	return f.saveIndex()
}

func (f *FS) DeletePrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	keys := make([]string, 0)
	for k := range f.idx {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	f.mu.Unlock()

	for _, k := range keys {
		if err := f.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (f *FS) ListPrefix(_ context.Context, prefix string) ([]Entry, error) {
	f.mu.Lock()
	type keyed struct {
		key string
		seq uint64
	}
	matches := make([]keyed, 0)
	for k, seq := range f.idx {
		if strings.HasPrefix(k, prefix) {
			matches = append(matches, keyed{k, seq})
		}
	}
	f.mu.Unlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].seq < matches[j].seq })

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(f.filePath(m.key))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		entries = append(entries, Entry{Key: m.key, Value: data})
	}
	return entries, nil
}

// keyForFile recovers the logical key a sanitized on-disk filename came
// from by scanning the known index, since filePath's sanitization isn't
// invertible in general. A file with no matching index entry (created
// directly on disk rather than through Put) is reported under its
// unsanitized base name, the best recovery available.
func (f *FS) keyForFile(base string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	want := filepath.Join(f.root, base)
	for key := range f.idx {
		if f.filePath(key) == want {
			return key, true
		}
	}
	return strings.TrimSuffix(base, ".yaml"), true
}

// Watch starts an fsnotify watch on the store root and invokes onChange
// with the logical key whenever a file is created, written, or removed,
// whether by Put/Delete or from outside the store (e.g. an operator
// editing a Scenario file by hand). It runs until ctx is cancelled.
func (f *FS) Watch(ctx context.Context, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(f.root); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				base := filepath.Base(event.Name)
				if base == ".index" || !strings.HasSuffix(base, ".yaml") {
					continue
				}
				key, ok := f.keyForFile(base)
				if !ok {
					continue
				}
				onChange(key)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("FSStore", "watch error on %s: %v", f.root, err)
			}
		}
	}()
	return nil
}
