package tle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cache stores fetched TLE text on disk so repeated CLI runs inside the
// element set's useful lifetime do not hit Celestrak again. One file per
// catalog number and fetch time; old files beyond maxFiles are pruned.
type Cache struct {
	dir      string
	maxFiles int
}

// NewCache creates a Cache rooted at dir keeping at most maxFiles files per
// catalog number.
func NewCache(dir string, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 3
	}
	return &Cache{dir: dir, maxFiles: maxFiles}
}

// Write saves data for a catalog number at a timestamped path and prunes
// older files for the same satellite.
func (c *Cache) Write(catalogNumber int, data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	filename := fmt.Sprintf("tle_%d_%d.txt", catalogNumber, ts.Unix())
	if err := os.WriteFile(filepath.Join(c.dir, filename), data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	return c.prune(catalogNumber)
}

// LoadFresh returns the newest cached data for a catalog number if it is
// younger than maxAge. A missing or stale cache is reported as an error so
// the caller falls back to fetching.
func (c *Cache) LoadFresh(catalogNumber int, maxAge time.Duration) ([]byte, time.Time, error) {
	files, err := c.listFiles(catalogNumber)
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(files) == 0 {
		return nil, time.Time{}, fmt.Errorf("no cache files for catalog %d", catalogNumber)
	}

	latest := files[len(files)-1]
	if time.Since(latest.ts) > maxAge {
		return nil, time.Time{}, fmt.Errorf("cached TLE for catalog %d is %s old", catalogNumber, time.Since(latest.ts).Round(time.Minute))
	}

	data, err := os.ReadFile(filepath.Join(c.dir, latest.name))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading cache file: %w", err)
	}
	return data, latest.ts, nil
}

type cacheFile struct {
	name string
	ts   time.Time
}

func (c *Cache) listFiles(catalogNumber int) ([]cacheFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	prefix := fmt.Sprintf("tle_%d_", catalogNumber)
	var files []cacheFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".txt") {
			continue
		}
		tsStr := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".txt")
		unix, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, cacheFile{name: name, ts: time.Unix(unix, 0)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ts.Before(files[j].ts)
	})
	return files, nil
}

func (c *Cache) prune(catalogNumber int) error {
	files, err := c.listFiles(catalogNumber)
	if err != nil {
		return err
	}
	if len(files) <= c.maxFiles {
		return nil
	}
	for _, f := range files[:len(files)-c.maxFiles] {
		if err := os.Remove(filepath.Join(c.dir, f.name)); err != nil {
			return fmt.Errorf("pruning cache file %s: %w", f.name, err)
		}
	}
	return nil
}
