// Package snapshot caches rendered resolutions per environment snapshot, so a
// resolution only reruns when one of the watched variables changes.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tmaxmax/crosscc/internal/render"
	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// A Key identifies an environment snapshot.
type Key [sha256.Size]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Fingerprint hashes the presence and value of every named variable, followed
// by the settings that shape a resolution besides the environment.
// Set-but-empty and unset variables produce different keys.
func Fingerprint(env toolchain.Env, names []string, settings ...string) Key {
	h := sha256.New()
	fmt.Fprintf(h, "schema=%d\n", schemaVersion)
	for _, name := range names {
		value, ok := env.LookupEnv(name)
		fmt.Fprintf(h, "%q=%t:%q\n", name, ok, value)
	}
	for _, s := range settings {
		fmt.Fprintf(h, "setting:%q\n", s)
	}

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

type payload struct {
	Schema uint16
	Record render.Record
}

// Cache stores records on disk, one file per key.
type Cache struct {
	dir string
}

// DefaultDir returns $XDG_CACHE_HOME/crosscc, or ~/.cache/crosscc.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "crosscc"), nil
}

// Open creates the cache directory if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, key.String()+".mp")
}

// Get reads the record stored for key. It reports false on a miss, including
// entries written with another schema version.
func (c *Cache) Get(key Key) (render.Record, bool, error) {
	if c == nil {
		return render.Record{}, false, nil
	}

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return render.Record{}, false, nil
		}
		return render.Record{}, false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return render.Record{}, false, fmt.Errorf("snapshot: corrupt entry %s: %w", key, err)
	}

	if p.Schema != schemaVersion {
		return render.Record{}, false, nil
	}

	return p.Record, true, nil
}

// Put stores the record for key, replacing any previous entry atomically.
func (c *Cache) Put(key Key, rec render.Record) (err error) {
	if c == nil {
		return nil
	}

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload{Schema: schemaVersion, Record: rec}); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), c.pathFor(key))
}
