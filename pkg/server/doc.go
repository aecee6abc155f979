// Package server exposes the Workflow Engine over HTTP: workflow
// submission, the tool catalogue and single-tool invocation, plus
// the operational surface (health, readiness, Prometheus metrics).
//
// Routing uses chi.Router and go-chi/cors. Workflow submissions are decoded
// into types.WorkflowSpec and checked with go-playground/validator before
// they ever reach the engine, so a malformed workflow spec is rejected with
// a 400 instead of failing deep inside graph construction; single-tool
// invocations decode into a plain map that is validated against the tool's
// input schema. A per-client token-bucket limiter (golang.org/x/time/rate)
// is applied to every route.
package server
