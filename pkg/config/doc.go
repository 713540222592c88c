// Package config loads the declarative mock configuration and holds it, with
// the record database it references, behind a single mutex.
//
// A configuration document is JSON, or YAML when the file extension is .yaml
// or .yml:
//
//	{
//	  "port": 8000,
//	  "cors": true,
//	  "database": "games.json",
//	  "endpoints": [
//	    {"path": "/api/ping", "method": "GET", "response": {"ok": true},
//	     "status": 200, "latency_ms": 0, "failure_rate": 0.0}
//	  ]
//	}
//
// Documents are checked against an embedded JSON schema that only enforces
// the minimal shape. Store.Load and Store.Reload never fail: a broken
// document falls back to port 8000, CORS on and no endpoints.
package config
