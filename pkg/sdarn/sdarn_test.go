package sdarn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/schema"
)

// rawacfRecord builds a schema-complete rawacf record with a small but
// realistic shape: 10 range gates, 5 lags, 8 pulses.
func rawacfRecord(t *testing.T) *dmap.Record {
	t.Helper()
	const (
		nrang = 10
		mplgs = 5
		mppul = 8
	)

	rec := dmap.NewRecord()
	add := func(err error) {
		require.NoError(t, err)
	}

	add(rec.AddScalar("radar.revision.major", dmap.Char, int8(1)))
	add(rec.AddScalar("radar.revision.minor", dmap.Char, int8(18)))
	add(rec.AddScalar("origin.code", dmap.Char, int8(0)))
	add(rec.AddScalar("origin.time", dmap.String, "Mon Apr 10 18:01:00 2017"))
	add(rec.AddScalar("origin.command", dmap.String, "make_raw -i 1"))
	add(rec.AddScalar("cp", dmap.Short, int16(3505)))
	add(rec.AddScalar("stid", dmap.Short, int16(65)))
	add(rec.AddScalar("time.yr", dmap.Short, int16(2017)))
	add(rec.AddScalar("time.mo", dmap.Short, int16(4)))
	add(rec.AddScalar("time.dy", dmap.Short, int16(10)))
	add(rec.AddScalar("time.hr", dmap.Short, int16(18)))
	add(rec.AddScalar("time.mt", dmap.Short, int16(1)))
	add(rec.AddScalar("time.sc", dmap.Short, int16(0)))
	add(rec.AddScalar("time.us", dmap.Int, int32(254063)))
	add(rec.AddScalar("txpow", dmap.Short, int16(9000)))
	add(rec.AddScalar("nave", dmap.Short, int16(32)))
	add(rec.AddScalar("atten", dmap.Short, int16(0)))
	add(rec.AddScalar("lagfr", dmap.Short, int16(1200)))
	add(rec.AddScalar("smsep", dmap.Short, int16(300)))
	add(rec.AddScalar("ercod", dmap.Short, int16(0)))
	add(rec.AddScalar("stat.agc", dmap.Short, int16(0)))
	add(rec.AddScalar("stat.lopwr", dmap.Short, int16(0)))
	add(rec.AddScalar("noise.search", dmap.Float, float32(3.4)))
	add(rec.AddScalar("noise.mean", dmap.Float, float32(23500)))
	add(rec.AddScalar("channel", dmap.Short, int16(0)))
	add(rec.AddScalar("bmnum", dmap.Short, int16(7)))
	add(rec.AddScalar("bmazm", dmap.Float, float32(-19.05)))
	add(rec.AddScalar("scan", dmap.Short, int16(1)))
	add(rec.AddScalar("offset", dmap.Short, int16(0)))
	add(rec.AddScalar("rxrise", dmap.Short, int16(100)))
	add(rec.AddScalar("intt.sc", dmap.Short, int16(3)))
	add(rec.AddScalar("intt.us", dmap.Int, int32(500000)))
	add(rec.AddScalar("txpl", dmap.Short, int16(300)))
	add(rec.AddScalar("mpinc", dmap.Short, int16(2400)))
	add(rec.AddScalar("mppul", dmap.Short, int16(mppul)))
	add(rec.AddScalar("mplgs", dmap.Short, int16(mplgs)))
	add(rec.AddScalar("nrang", dmap.Short, int16(nrang)))
	add(rec.AddScalar("frang", dmap.Short, int16(180)))
	add(rec.AddScalar("rsep", dmap.Short, int16(45)))
	add(rec.AddScalar("xcf", dmap.Short, int16(1)))
	add(rec.AddScalar("tfreq", dmap.Short, int16(10567)))
	add(rec.AddScalar("mxpwr", dmap.Int, int32(1073741824)))
	add(rec.AddScalar("lvmax", dmap.Int, int32(20000)))
	add(rec.AddScalar("rawacf.revision.major", dmap.Int, int32(1)))
	add(rec.AddScalar("rawacf.revision.minor", dmap.Int, int32(0)))
	add(rec.AddScalar("combf", dmap.String, "$Id: twofsound"))
	add(rec.AddScalar("thr", dmap.Float, float32(0)))

	ptab := make([]int16, mppul)
	ltab := make([]int16, 2*(mplgs+1))
	slist := make([]int16, nrang)
	pwr0 := make([]float32, nrang)
	acfd := make([]float32, 2*mplgs*nrang)
	for i := range slist {
		slist[i] = int16(i)
		pwr0[i] = float32(i) * 10.5
	}
	add(rec.AddArray("ptab", dmap.Short, []int32{mppul}, ptab))
	add(rec.AddArray("ltab", dmap.Short, []int32{2, mplgs + 1}, ltab))
	add(rec.AddArray("slist", dmap.Short, []int32{nrang}, slist))
	add(rec.AddArray("pwr0", dmap.Float, []int32{nrang}, pwr0))
	add(rec.AddArray("acfd", dmap.Float, []int32{2, mplgs, nrang}, acfd))
	return rec
}

// withoutField rebuilds a record minus one named field.
func withoutField(t *testing.T, rec *dmap.Record, name string) *dmap.Record {
	t.Helper()
	out := dmap.NewRecord()
	for _, f := range rec.Fields() {
		if f.Name() != name {
			require.NoError(t, out.Add(f))
		}
	}
	return out
}

func TestWriteReadRawacf(t *testing.T) {
	recs := []*dmap.Record{rawacfRecord(t), rawacfRecord(t)}
	data, err := WriteRawacf(recs)
	require.NoError(t, err)

	back, err := ReadRawacf(data)
	require.NoError(t, err)
	require.Len(t, back, 2)
	for i := range recs {
		assert.True(t, back[i].Equal(recs[i]), "record %d differs", i)
	}
}

func TestReadRejectsMissingRequiredField(t *testing.T) {
	bad := withoutField(t, rawacfRecord(t), "nave")
	data, err := WriteRecords([]*dmap.Record{bad}) // generic write skips validation
	require.NoError(t, err)

	_, err = ReadRawacf(data)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok, "want *ValidationError, got %T", err)
	assert.Equal(t, "rawacf", verr.Product)
	require.Len(t, verr.Records, 1)
	assert.Equal(t, 0, verr.Records[0].Index)
	require.Len(t, verr.Records[0].Violations, 1)
	assert.Equal(t, "nave", verr.Records[0].Violations[0].Field)
	assert.Contains(t, verr.Error(), `"nave"`)
}

func TestWriteProducesNoBytesOnInvalidRecord(t *testing.T) {
	good := rawacfRecord(t)
	bad := withoutField(t, rawacfRecord(t), "stid")

	data, err := WriteRawacf([]*dmap.Record{good, bad})
	require.Error(t, err)
	assert.Nil(t, data, "no bytes may be produced when any record is invalid")
}

// The typed paths aggregate violations across all records instead of
// failing fast on the first bad one.
func TestValidationReportCoversAllRecords(t *testing.T) {
	recs := []*dmap.Record{
		withoutField(t, rawacfRecord(t), "nave"),
		rawacfRecord(t),
		withoutField(t, rawacfRecord(t), "tfreq"),
	}
	data, err := WriteRecords(recs)
	require.NoError(t, err)

	_, err = Read("rawacf", data)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, verr.Records, 2)
	assert.Equal(t, 0, verr.Records[0].Index)
	assert.Equal(t, "nave", verr.Records[0].Violations[0].Field)
	assert.Equal(t, 2, verr.Records[1].Index)
	assert.Equal(t, "tfreq", verr.Records[1].Violations[0].Field)
}

func TestGenericPathIsLogicallyIdempotent(t *testing.T) {
	// read -> write -> read through the generic path must be stable in
	// names, types and values; the schema never enters the picture.
	orig := []*dmap.Record{rawacfRecord(t), withoutField(t, rawacfRecord(t), "nave")}
	data, err := WriteRecords(orig)
	require.NoError(t, err)

	first, err := ReadRecords(data)
	require.NoError(t, err)
	data2, err := WriteRecords(first)
	require.NoError(t, err)
	second, err := ReadRecords(data2)
	require.NoError(t, err)

	require.Len(t, second, len(orig))
	for i := range orig {
		assert.True(t, second[i].Equal(orig[i]), "record %d drifted through the generic path", i)
	}
}

func TestReadUnknownProduct(t *testing.T) {
	_, err := Read("lmfit", nil)
	assert.Error(t, err)
	_, err = Write("lmfit", nil)
	assert.Error(t, err)
}

func TestReadSurfacesDecodeError(t *testing.T) {
	data, err := WriteRawacf([]*dmap.Record{rawacfRecord(t)})
	require.NoError(t, err)
	data[2] = 0xff // break the block magic

	_, err = ReadRawacf(data)
	require.Error(t, err)
	var derr *dmap.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dmap.KindBadHeader, derr.Kind)
}

func TestTypedPathsCoverEveryProduct(t *testing.T) {
	// Each typed reader must enforce its own schema: an empty record
	// stream of one empty record violates all of them.
	empty, err := WriteRecords([]*dmap.Record{dmap.NewRecord()})
	require.NoError(t, err)

	readers := map[string]func([]byte) ([]*dmap.Record, error){
		"iqdat":  ReadIqdat,
		"rawacf": ReadRawacf,
		"fitacf": ReadFitacf,
		"grid":   ReadGrid,
		"map":    ReadMap,
		"snd":    ReadSnd,
	}
	for product, read := range readers {
		t.Run(product, func(t *testing.T) {
			_, err := read(empty)
			verr, ok := err.(*ValidationError)
			require.True(t, ok, "want *ValidationError, got %v", err)
			s, err2 := schema.For(product)
			require.NoError(t, err2)
			assert.Len(t, verr.Records[0].Violations, len(s.RequiredFields()))
		})
	}
}
