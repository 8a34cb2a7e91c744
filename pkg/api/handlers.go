package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/file"
	"github.com/sdarn/dmapio/pkg/schema"
)

const defaultMaxBodyBytes = 64 << 20

// Server holds the API server state
type Server struct {
	config  ServerConfig
	metrics *Metrics

	recordsDecoded atomic.Uint64
	decodeErrors   atomic.Uint64
}

// NewServer creates a new API server
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, schema.Products())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, StatsResponse{
		Products:       schema.Products(),
		RecordsDecoded: s.recordsDecoded.Load(),
		DecodeErrors:   s.decodeErrors.Load(),
	})
}

// readPayload reads the request body and decompresses it. Uploads may
// be raw DMap bytes or bzip2/gzip files, detected from magic bytes.
func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) ([]byte, file.Compression, bool) {
	limit := s.config.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		sendError(w, "Failed to read request body", status)
		return nil, file.None, false
	}

	raw, comp, err := file.Decompress(body)
	if err != nil {
		if errors.Is(err, file.ErrEmptyFile) {
			sendError(w, "Empty request body", http.StatusBadRequest)
		} else {
			sendError(w, fmt.Sprintf("Failed to decompress payload: %v", err), http.StatusBadRequest)
		}
		return nil, comp, false
	}
	if s.metrics != nil {
		s.metrics.RecordPayload(comp.String(), len(body))
	}
	return raw, comp, true
}

func (s *Server) recordDecodeOutcome(records int, err error) {
	s.recordsDecoded.Add(uint64(records))
	kind := ""
	if err != nil {
		s.decodeErrors.Add(1)
		var de *dmap.DecodeError
		if errors.As(err, &de) {
			kind = de.Kind.String()
		} else {
			kind = "other"
		}
	}
	if s.metrics != nil {
		s.metrics.RecordDecode(records, kind)
	}
}

// handleInspect decodes an uploaded DMap stream and reports the layout
// of every record. A corrupt tail does not discard the records decoded
// before it; the response carries both.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	raw, comp, ok := s.readPayload(w, r)
	if !ok {
		return
	}

	recs, err := dmap.ReadAll(raw)
	s.recordDecodeOutcome(len(recs), err)

	resp := InspectResponse{
		Compression: comp.String(),
		Records:     make([]RecordInfo, 0, len(recs)),
	}
	for i, rec := range recs {
		resp.Records = append(resp.Records, recordInfo(i, rec))
	}
	if err != nil {
		resp.DecodeError = err.Error()
	}
	sendSuccess(w, resp)
}

func recordInfo(index int, rec *dmap.Record) RecordInfo {
	info := RecordInfo{
		Index:   index,
		Size:    rec.EncodedSize(),
		Scalars: len(rec.Scalars()),
		Arrays:  len(rec.Arrays()),
	}
	for _, f := range rec.Fields() {
		fi := FieldInfo{Name: f.Name(), Type: f.Type().String(), Kind: "scalar"}
		if arr, ok := f.(*dmap.Array); ok {
			fi.Kind = "array"
			fi.Dims = arr.Dims()
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}

// handleValidate decodes an uploaded stream and validates every record
// against the product schema named in the URL.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	product := strings.ToLower(chi.URLParam(r, "product"))
	sch, err := schema.For(product)
	if err != nil {
		sendError(w, fmt.Sprintf("Unknown product type: %s", product), http.StatusNotFound)
		return
	}

	raw, _, ok := s.readPayload(w, r)
	if !ok {
		return
	}

	recs, err := dmap.ReadAll(raw)
	s.recordDecodeOutcome(len(recs), err)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode payload: %v", err), http.StatusUnprocessableEntity)
		return
	}

	resp := ValidateResponse{
		Product: product,
		Records: len(recs),
		Valid:   true,
	}
	total := 0
	for i, rec := range recs {
		violations := schema.Validate(rec, sch)
		if len(violations) == 0 {
			continue
		}
		resp.Valid = false
		total += len(violations)
		msgs := make([]string, 0, len(violations))
		for _, v := range violations {
			msgs = append(msgs, v.String())
		}
		resp.Invalid = append(resp.Invalid, RecordViolationsInfo{Index: i, Violations: msgs})
	}
	if s.metrics != nil {
		s.metrics.RecordValidation(product, total)
	}
	sendSuccess(w, resp)
}
