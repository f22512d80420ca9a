package modules

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// cacheFormat is bumped when the stored catalog layout changes so stale rows
// miss instead of decoding into the wrong shape.
const cacheFormat = "catalog-v1"

// Cache keeps validated catalog files in SQLite, keyed by a hash of the raw
// file contents. Writers hold a file lock next to the database so concurrent
// processes do not race on the rebuild.
type Cache struct {
	path string
	db   *sql.DB
	lock *flock.Flock
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	c := &Cache{path: path, db: db, lock: flock.New(path + ".lock")}
	if err := c.withLock(func() error {
		_, err := db.Exec(`CREATE TABLE IF NOT EXISTS catalogs (
			key     TEXT PRIMARY KEY,
			source  TEXT NOT NULL,
			data    BLOB NOT NULL,
			created INTEGER NOT NULL
		)`)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return c, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes catalog contents.
func Key(data []byte) string {
	h := xxh3.New()
	h.WriteString(cacheFormat)
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached entry for key.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRow(`SELECT data FROM catalogs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}
	return data, true, nil
}

// Put stores data under key, replacing any previous entry.
func (c *Cache) Put(key, source string, data []byte) error {
	return c.withLock(func() error {
		_, err := c.db.Exec(`INSERT OR REPLACE INTO catalogs (key, source, data, created) VALUES (?, ?, ?, ?)`,
			key, source, data, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("writing cache: %w", err)
		}
		return nil
	})
}

// Prune removes entries whose source no longer hashes to them, keeping only
// the newest entry per source.
func (c *Cache) Prune() (int64, error) {
	var removed int64
	err := c.withLock(func() error {
		res, err := c.db.Exec(`DELETE FROM catalogs WHERE created < (
			SELECT MAX(created) FROM catalogs AS newer WHERE newer.source = catalogs.source)`)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return removed, nil
}

func (c *Cache) withLock(fn func() error) error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer c.lock.Unlock()
	return fn()
}

// loadCatalog returns the parsed catalog for data, parsing and storing it on
// a miss. A cache failure falls back to parsing.
func (c *Cache) loadCatalog(data []byte, source string) (*catalogFile, error) {
	key := Key(data)
	if cached, ok, err := c.Get(key); err == nil && ok {
		var f catalogFile
		if err := yaml.Unmarshal(cached, &f); err == nil {
			return &f, nil
		}
	}
	f, err := parseCatalogFile(data, source)
	if err != nil {
		return nil, err
	}
	if normalized, err := yaml.Marshal(f); err == nil {
		_ = c.Put(key, source, normalized)
	}
	return f, nil
}
