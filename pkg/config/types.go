package config

// Defaults applied when a value is absent or the document cannot be loaded.
const (
	DefaultPort   = 8000
	DefaultStatus = 200
)

// Endpoint methods accepted in a configuration document.
var Methods = []string{"GET", "POST", "DELETE", "PATCH"}

// Document is a parsed configuration document.
type Document struct {
	Port      int        `json:"port,omitempty"`
	CORS      *bool      `json:"cors,omitempty"`
	Database  string     `json:"database,omitempty"`
	Endpoints []Endpoint `json:"endpoints"`

	// Settings holds every top-level key as decoded, for Store.Get.
	Settings map[string]any `json:"-"`
}

// Endpoint describes one configured route.
type Endpoint struct {
	Path        string  `json:"path"`
	Method      string  `json:"method"`
	Response    any     `json:"response"`
	Status      int     `json:"status"`
	LatencyMs   int     `json:"latency_ms"`
	FailureRate float64 `json:"failure_rate"`
}

// DefaultDocument returns the fallback configuration.
func DefaultDocument() *Document {
	cors := true
	return &Document{
		Port:      DefaultPort,
		CORS:      &cors,
		Endpoints: []Endpoint{},
		Settings: map[string]any{
			"port":      DefaultPort,
			"cors":      true,
			"endpoints": []any{},
		},
	}
}

func (d *Document) applyDefaults() {
	if d.Endpoints == nil {
		d.Endpoints = []Endpoint{}
	}
	for i := range d.Endpoints {
		if d.Endpoints[i].Status == 0 {
			d.Endpoints[i].Status = DefaultStatus
		}
	}
}
