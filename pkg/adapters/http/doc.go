// Package http exposes interpreter sessions over a JSON API with an SSE
// diagnostic stream.
package http
