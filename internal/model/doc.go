// Package model defines the data structures shared by collectors, the report
// pipeline, the writers and the history database.
//
// This package contains the following main types:
//   - Entry: One of the named report entry points (filesystem, drm, ...)
//   - Section: The text produced by one collector or collector method
//   - Report: The ordered concatenation of sections for one invocation
//   - StepResult: The outcome of one collector sub-step, rendered inline
//
// Nothing here is cached or shared between invocations. A Report is built for
// one request and discarded (or persisted as a snapshot) afterwards.
package model
