/*
Package observability provides lifecycle hooks for monitoring the interpreter.

Metrics counts executed segments and diagnostics with Prometheus, and
AuditHooks writes a structured log line for every command boundary. Both
return domain.LifecycleHooks so they compose with Merge.
*/
package observability
