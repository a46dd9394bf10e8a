// Package queue persists download jobs and models their lifecycle.
//
// A job moves through a fixed set of statuses from waiting to completed,
// with failed reachable from every non-terminal state. The store only
// persists; driving transitions is the orchestrator's job, and the store
// enforces that each requested transition is one the lifecycle allows.
package queue
