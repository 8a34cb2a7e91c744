package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
	// MaxBodyBytes caps uploaded payload size. Zero means the default
	// of 64 MiB.
	MaxBodyBytes int64
}

// FieldInfo describes a single field of a decoded record.
type FieldInfo struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Kind string  `json:"kind"` // "scalar" or "array"
	Dims []int32 `json:"dims,omitempty"`
}

// RecordInfo summarizes one decoded record.
type RecordInfo struct {
	Index   int         `json:"index"`
	Size    int         `json:"size"`
	Scalars int         `json:"scalars"`
	Arrays  int         `json:"arrays"`
	Fields  []FieldInfo `json:"fields"`
}

// InspectResponse is the result of decoding an uploaded stream.
type InspectResponse struct {
	Compression string       `json:"compression"`
	Records     []RecordInfo `json:"records"`
	// DecodeError is set when the stream ends in a corrupt record. The
	// records decoded before the failure are still reported.
	DecodeError string `json:"decode_error,omitempty"`
}

// RecordViolationsInfo lists the schema violations of one record.
type RecordViolationsInfo struct {
	Index      int      `json:"index"`
	Violations []string `json:"violations"`
}

// ValidateResponse is the result of validating an uploaded stream
// against a product schema.
type ValidateResponse struct {
	Product string                 `json:"product"`
	Records int                    `json:"records"`
	Valid   bool                   `json:"valid"`
	Invalid []RecordViolationsInfo `json:"invalid,omitempty"`
}

// StatsResponse reports what the service can decode and validate.
type StatsResponse struct {
	Products       []string `json:"products"`
	RecordsDecoded uint64   `json:"records_decoded"`
	DecodeErrors   uint64   `json:"decode_errors"`
}
