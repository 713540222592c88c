// Package util holds small helpers shared across localmock packages.
//
//   - ISOTimestamp / NowISO: the timestamp format used in responses and templates
//   - SafeJoin / HasTraversal: reject directory traversal in static file paths
//   - ResolvePath: locate files referenced from a configuration document
//   - TruncateBody: cap bodies echoed into operational logs
package util
