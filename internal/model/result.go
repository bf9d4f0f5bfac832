package model

import "fmt"

// StepResult is the outcome of one collector sub-step. It holds the text the
// step produced before it finished (or failed) and the captured error, so a
// failure can be rendered inline instead of propagating.
type StepResult struct {
	// Label names the step in error lines ("device info", "network info").
	Label string

	// Output is the text written by the step, possibly partial.
	Output string

	// Err is the failure the step returned or the recovered panic.
	Err error
}

// OK returns true if the step completed without error.
func (r StepResult) OK() bool {
	return r.Err == nil
}

// ErrorLine returns the inline error line for a failed step, or "".
func (r StepResult) ErrorLine() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("Error collecting %s: %s\n", r.Label, r.Err.Error())
}

// Render returns the step output followed by its inline error line, if any.
func (r StepResult) Render() string {
	return r.Output + r.ErrorLine()
}
