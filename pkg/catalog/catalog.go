// Package catalog maintains a local index of DMap files. Each record of
// an indexed file gets a Summary row in an embedded pebble store, keyed
// by a time-sortable KSUID, so large archives can be browsed by station
// or product without re-reading the files.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/file"
	"github.com/sdarn/dmapio/pkg/schema"
)

// Summary describes one record of an indexed DMap file.
type Summary struct {
	Path    string    `json:"path"`
	Index   int       `json:"index"`
	Product string    `json:"product"`
	Stid    int64     `json:"stid"`
	Beam    int64     `json:"beam"`
	Time    time.Time `json:"time"`
	Offset  int64     `json:"offset"`
	Size    int       `json:"size"`
}

type Catalog struct {
	db *pebble.DB
}

// Open opens or creates a catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores a summary under a fresh KSUID and returns the key.
func (c *Catalog) Put(s Summary) (ksuid.KSUID, error) {
	id := ksuid.New()
	data, err := json.Marshal(s)
	if err != nil {
		return id, fmt.Errorf("catalog: marshal summary: %w", err)
	}
	if err := c.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return id, fmt.Errorf("catalog: put: %w", err)
	}
	return id, nil
}

// Get reads a single summary back by key.
func (c *Catalog) Get(id ksuid.KSUID) (Summary, error) {
	var s Summary
	data, closer, err := c.db.Get(id.Bytes())
	if err != nil {
		return s, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	defer closer.Close()

	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("catalog: unmarshal summary: %w", err)
	}
	return s, nil
}

// IndexFile reads the DMap file at path, summarizes every record and
// stores the summaries. The product is schema-checked only in the sense
// that it must be a known product name; records that fail validation
// still get indexed.
func (c *Catalog) IndexFile(path, product string) ([]Summary, error) {
	if _, err := schema.For(product); err != nil {
		return nil, err
	}
	data, _, err := file.ReadBytes(path)
	if err != nil {
		return nil, err
	}

	var out []Summary
	r := dmap.NewReader(data)
	for {
		offset := r.Offset()
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("catalog: index %s: %w", path, err)
		}
		s := summarize(rec, path, product, len(out), offset)
		if _, err := c.Put(s); err != nil {
			return out, err
		}
		out = append(out, s)
	}

	slog.Info("indexed dmap file", "path", path, "product", product, "records", len(out))
	return out, nil
}

func summarize(rec *dmap.Record, path, product string, index int, offset int64) Summary {
	stid, _ := rec.Int("stid")
	beam, _ := rec.Int("bmnum")
	return Summary{
		Path:    path,
		Index:   index,
		Product: product,
		Stid:    stid,
		Beam:    beam,
		Time:    recordTime(rec),
		Offset:  offset,
		Size:    rec.EncodedSize(),
	}
}

// recordTime assembles the record timestamp from the time.* scalars.
// Missing components come back as zero, which leaves the zero time for
// records that carry no timestamp at all.
func recordTime(rec *dmap.Record) time.Time {
	yr, ok := rec.Int("time.yr")
	if !ok {
		return time.Time{}
	}
	mo, _ := rec.Int("time.mo")
	dy, _ := rec.Int("time.dy")
	hr, _ := rec.Int("time.hr")
	mt, _ := rec.Int("time.mt")
	sc, _ := rec.Int("time.sc")
	return time.Date(int(yr), time.Month(mo), int(dy), int(hr), int(mt), int(sc), 0, time.UTC)
}

// All returns every stored summary in key order, which is creation
// order thanks to KSUID keys.
func (c *Catalog) All() ([]Summary, error) {
	return c.scan(func(Summary) bool { return true })
}

// ByStation returns the summaries whose record carried the given
// station identifier.
func (c *Catalog) ByStation(stid int64) ([]Summary, error) {
	return c.scan(func(s Summary) bool { return s.Stid == stid })
}

// ByProduct returns the summaries indexed under the given product name.
func (c *Catalog) ByProduct(product string) ([]Summary, error) {
	return c.scan(func(s Summary) bool { return s.Product == product })
}

func (c *Catalog) scan(keep func(Summary) bool) ([]Summary, error) {
	iter, err := c.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: iterator: %w", err)
	}
	defer iter.Close()

	var out []Summary
	for iter.First(); iter.Valid(); iter.Next() {
		var s Summary
		if err := json.Unmarshal(iter.Value(), &s); err != nil {
			return nil, fmt.Errorf("catalog: unmarshal summary: %w", err)
		}
		if keep(s) {
			out = append(out, s)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("catalog: iterate: %w", err)
	}
	return out, nil
}
