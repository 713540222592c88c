// Package recording captures real HTTP traffic and replays it later.
//
// Recorder is a reverse proxy that stores one Recording per proxied
// response. Replayer serves recordings back, matching on exact method and
// path with the first recording winning. Recordings are stored as a JSON
// array:
//
//	[
//	  {
//	    "timestamp": "2025-11-20T10:00:00.000000+00:00",
//	    "method": "GET",
//	    "path": "/api/users",
//	    "status": 200,
//	    "response": {"users": []},
//	    "headers": {"Content-Type": "application/json"}
//	  }
//	]
package recording
