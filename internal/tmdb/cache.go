package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mrocha/cineplug/internal/catalog"
)

// store is the two-tier metadata cache: an in-process map for the lifetime
// of one invocation, backed by one JSON file per entity. A file is valid
// only while its mtime is within the TTL window; expired files stay on disk
// until a successful fetch overwrites them, so they can still serve as a
// last resort when the network is down.
type store struct {
	dir string
	ttl time.Duration

	mu  sync.Mutex
	mem map[string]catalog.Item
}

func newStore(dir string, ttl time.Duration) *store {
	return &store{
		dir: dir,
		ttl: ttl,
		mem: make(map[string]catalog.Item),
	}
}

func movieKey(id int64) string             { return fmt.Sprintf("movie_%d", id) }
func tvKey(id int64) string                { return fmt.Sprintf("tv_%d", id) }
func seasonKey(id int64, n int) string     { return fmt.Sprintf("tv_%d_season_%d", id, n) }
func episodeKey(id int64, n, m int) string { return fmt.Sprintf("tv_%d_S%dE%d", id, n, m) }

// get returns a valid cache entry, consulting memory before disk. A disk
// hit populates the memory tier.
func (s *store) get(key string) (catalog.Item, bool) {
	if key == "" {
		return nil, false
	}
	s.mu.Lock()
	item, ok := s.mem[key]
	s.mu.Unlock()
	if ok {
		return item, true
	}

	path := filepath.Join(s.dir, key+".json")
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(fi.ModTime()) > s.ttl {
		return nil, false
	}
	item, err = readItem(path)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	s.mem[key] = item
	s.mu.Unlock()
	return item, true
}

// stale returns whatever is on disk for the key, expired or not.
func (s *store) stale(key string) (catalog.Item, bool) {
	s.mu.Lock()
	item, ok := s.mem[key]
	s.mu.Unlock()
	if ok {
		return item, true
	}
	item, err := readItem(filepath.Join(s.dir, key+".json"))
	if err != nil {
		return nil, false
	}
	return item, true
}

// put overwrites both tiers. The file is written pretty-printed through a
// temp file and rename so a reader never sees a half-written entry.
func (s *store) put(key string, item catalog.Item) error {
	if key == "" {
		return errors.New("empty cache key")
	}
	s.mu.Lock()
	s.mem[key] = item
	s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, key+".json")
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(item); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Clear removes every cached entry file. Used when the API key or locale
// configuration changes.
func (s *store) clear() error {
	s.mu.Lock()
	s.mem = make(map[string]catalog.Item)
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, entry.Name()))
	}
	return nil
}

// entries walks the on-disk cache and yields every parseable record,
// expired ones included. The recent-releases menu builds on this.
func (s *store) entries() []catalog.Item {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var out []catalog.Item
	for _, entry := range dirEntries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		item, err := readItem(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

func readItem(path string) (catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var item catalog.Item
	if err := json.NewDecoder(f).Decode(&item); err != nil {
		return nil, err
	}
	return item, nil
}
