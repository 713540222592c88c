package requestlog

// Entry is one handled request.
type Entry struct {
	// Timestamp is the completion time, formatted with util.ISOTimestamp.
	Timestamp string `json:"timestamp"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	// Status is the HTTP status actually sent.
	Status int `json:"status"`
	// LatencyMs is the whole-millisecond time spent handling the request.
	LatencyMs int64 `json:"latency_ms"`
}
