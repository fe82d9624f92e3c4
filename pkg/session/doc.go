/*
Package session manages many independent interpreters keyed by session id.

Each session owns its own document, state bag and execution loop. The Manager
creates sessions on demand through a Factory, serializes API calls per session
with a reference-counted local lock plus an optional distributed lock, and fans
diagnostics out to observers (for example an SSE stream).
*/
package session
