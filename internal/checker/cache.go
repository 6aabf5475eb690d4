package checker

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bump when Entry changes shape
const cacheSchemaVersion uint16 = 1

// Key identifies one checker run: the command and the content of every
// checked file.
type Key [32]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Entry is the cached outcome of a run.
type Entry struct {
	Schema  uint16
	Command []string
	Files   []string
	Report  []byte
	Created int64 // unix seconds
}

// Cache stores reports on disk, one msgpack file per key.
// Safe for concurrent use. A nil *Cache never hits.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultCacheDir is $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenCache creates dir if needed.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, "reports", key.String()+".mp")
}

// Put writes an entry atomically: encode into a temp file, then rename.
func (c *Cache) Put(key Key, e *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	e.Schema = cacheSchemaVersion
	if e.Created == 0 {
		e.Created = time.Now().Unix()
	}
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get loads the entry for key. Entries of another schema are misses.
func (c *Cache) Get(key Key) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, err
	}
	if e.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// DropAll removes every cached report.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "reports"))
}

// keyFor hashes the command line and, for every target, its path and
// content. Directories contribute every .py file below them.
func keyFor(args []string, targets []string) (Key, error) {
	h := sha256.New()
	for _, a := range args {
		h.Write([]byte(a))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, t := range targets {
		files, err := pythonFiles(t)
		if err != nil {
			return Key{}, err
		}
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return Key{}, err
			}
			sum := sha256.Sum256(data)
			h.Write([]byte(f))
			h.Write([]byte{0})
			h.Write(sum[:])
		}
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}
