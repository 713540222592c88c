package config

import "fmt"

// DefaultDummyEndpoints is the endpoint count used by the generate command.
const DefaultDummyEndpoints = 5

// GenerateDummy returns a configuration with n GET endpoints at
// /api/dummy1../api/dummyN. Each responds after 50ms with a body that carries
// a fresh timestamp and request id.
func GenerateDummy(n int) *Document {
	cors := true
	doc := &Document{
		Port:      DefaultPort,
		CORS:      &cors,
		Endpoints: make([]Endpoint, 0, max(n, 0)),
	}
	for i := 1; i <= n; i++ {
		doc.Endpoints = append(doc.Endpoints, Endpoint{
			Path:   fmt.Sprintf("/api/dummy%d", i),
			Method: "GET",
			Response: map[string]any{
				"id":         i,
				"message":    fmt.Sprintf("Dummy endpoint %d", i),
				"timestamp":  "{{timestamp}}",
				"request_id": "{{uuid}}",
			},
			Status:      DefaultStatus,
			LatencyMs:   50,
			FailureRate: 0,
		})
	}
	return doc
}
