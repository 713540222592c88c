// Package engine dispatches HTTP requests for the mock server.
//
// Handler routes each request in a fixed order:
//
//  1. GET requests matching a static pattern go to the StaticServer
//  2. control endpoints: POST /__reload, GET|DELETE /__logs, GET /__health
//  3. /api/games/wishlist (GET, POST, DELETE) against the Wishlist
//  4. /api/games (POST, DELETE) against the record database
//  5. configured endpoints, with latency, failure simulation and templating
//
// Every routed request is recorded in the request log with the status that
// was actually sent. CORSMiddleware answers OPTIONS preflights and adds CORS
// headers when the configuration enables them. Server wraps http.Server with
// start and graceful shutdown.
package engine
