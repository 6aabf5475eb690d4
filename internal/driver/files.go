package driver

import (
	"crypto/sha256"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"fixo/internal/pyfile"
	"fixo/internal/source"
)

// DefaultFileCacheSize bounds the number of parsed files kept in memory.
const DefaultFileCacheSize = 256

type fileKey struct {
	path string
	sum  [32]byte
}

type parsed struct {
	file *pyfile.File
	err  error
}

// FileCache loads and parses Python files, keeping recent results keyed by
// path and content hash. An edited file is parsed again. Safe for concurrent use.
type FileCache struct {
	lru *lru.Cache[fileKey, parsed]
}

// NewFileCache returns a cache holding up to size files (DefaultFileCacheSize if size <= 0).
func NewFileCache(size int) *FileCache {
	if size <= 0 {
		size = DefaultFileCacheSize
	}
	c, err := lru.New[fileKey, parsed](size)
	if err != nil {
		// size is positive here
		panic(err)
	}
	return &FileCache{lru: c}
}

// File reads path and returns its parsed form. Syntax errors are cached
// with the file, like successful parses.
func (c *FileCache) File(path string) (*pyfile.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Parse(path, data)
}

// Parse returns the parsed form of data, read from path.
func (c *FileCache) Parse(path string, data []byte) (*pyfile.File, error) {
	key := fileKey{path: path, sum: sha256.Sum256(data)}
	if c != nil {
		if hit, ok := c.lru.Get(key); ok {
			return hit.file, hit.err
		}
	}
	fs := source.NewFileSet()
	pf, err := pyfile.Parse(fs.Get(fs.Add(path, data, 0)))
	if c != nil {
		c.lru.Add(key, parsed{file: pf, err: err})
	}
	return pf, err
}

// Len reports the number of cached files.
func (c *FileCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Load parses a single file without caching; used by the inspection commands.
func Load(path string) (*pyfile.File, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return pyfile.Parse(fs.Get(id))
}
