package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/file"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })
	return c
}

func beamRecord(t *testing.T, stid, beam int16) *dmap.Record {
	t.Helper()
	rec := dmap.NewRecord()
	require.NoError(t, rec.AddScalar("stid", dmap.Short, stid))
	require.NoError(t, rec.AddScalar("bmnum", dmap.Short, beam))
	require.NoError(t, rec.AddScalar("time.yr", dmap.Short, int16(2012)))
	require.NoError(t, rec.AddScalar("time.mo", dmap.Short, int16(6)))
	require.NoError(t, rec.AddScalar("time.dy", dmap.Short, int16(15)))
	require.NoError(t, rec.AddScalar("time.hr", dmap.Short, int16(10)))
	require.NoError(t, rec.AddScalar("time.mt", dmap.Short, int16(30)))
	require.NoError(t, rec.AddScalar("time.sc", dmap.Short, int16(0)))
	return rec
}

func writeTestFile(t *testing.T, recs []*dmap.Record, c file.Compression) string {
	t.Helper()
	data, err := dmap.EncodeAll(recs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "20120615.rawacf."+c.String())
	require.NoError(t, file.WriteBytes(path, data, c))
	return path
}

func TestPutGet(t *testing.T) {
	c := openTestCatalog(t)

	want := Summary{
		Path:    "/data/20120615.rawacf.bz2",
		Index:   3,
		Product: "rawacf",
		Stid:    65,
		Beam:    7,
		Time:    time.Date(2012, 6, 15, 10, 30, 0, 0, time.UTC),
		Offset:  1024,
		Size:    512,
	}
	id, err := c.Put(want)
	require.NoError(t, err)

	got, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIndexFile(t *testing.T) {
	c := openTestCatalog(t)

	recs := []*dmap.Record{
		beamRecord(t, 65, 0),
		beamRecord(t, 65, 1),
		beamRecord(t, 66, 0),
	}
	path := writeTestFile(t, recs, file.Bzip2)

	sums, err := c.IndexFile(path, "rawacf")
	require.NoError(t, err)
	require.Len(t, sums, 3)

	first := sums[0]
	assert.Equal(t, path, first.Path)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "rawacf", first.Product)
	assert.Equal(t, int64(65), first.Stid)
	assert.Equal(t, int64(0), first.Beam)
	assert.Equal(t, time.Date(2012, 6, 15, 10, 30, 0, 0, time.UTC), first.Time)
	assert.Equal(t, int64(0), first.Offset)
	assert.Equal(t, recs[0].EncodedSize(), first.Size)

	// Offsets advance by the encoded size of the preceding records.
	assert.Equal(t, int64(recs[0].EncodedSize()), sums[1].Offset)
	assert.Equal(t, int64(recs[0].EncodedSize()+recs[1].EncodedSize()), sums[2].Offset)
}

func TestIndexFileUnknownProduct(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.IndexFile("whatever.dat", "mri-scan")
	assert.Error(t, err)
}

func TestScans(t *testing.T) {
	c := openTestCatalog(t)

	rawPath := writeTestFile(t, []*dmap.Record{beamRecord(t, 65, 0), beamRecord(t, 66, 1)}, file.None)
	fitPath := writeTestFile(t, []*dmap.Record{beamRecord(t, 65, 2)}, file.Gzip)

	_, err := c.IndexFile(rawPath, "rawacf")
	require.NoError(t, err)
	_, err = c.IndexFile(fitPath, "fitacf")
	require.NoError(t, err)

	all, err := c.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byStation, err := c.ByStation(65)
	require.NoError(t, err)
	require.Len(t, byStation, 2)
	for _, s := range byStation {
		assert.Equal(t, int64(65), s.Stid)
	}

	byProduct, err := c.ByProduct("fitacf")
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, fitPath, byProduct[0].Path)
}

func TestRecordTimeMissing(t *testing.T) {
	rec := dmap.NewRecord()
	require.NoError(t, rec.AddScalar("stid", dmap.Short, int16(65)))

	s := summarize(rec, "x.rawacf", "rawacf", 0, 0)
	assert.True(t, s.Time.IsZero())
}
