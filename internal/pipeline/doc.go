// Package pipeline assembles reports by running collector steps in order.
//
// Each report entry point (see model.Entry) maps to a fixed list of steps:
// one collector method, one whole collector, or for the comprehensive
// report a header followed by the system and common collectors. Steps
// append sections to a model.Report; the report text is the header
// followed by every section body.
//
// A failing or panicking step is contained: the pipeline records the
// error, renders "Unable to retrieve: <message>" in place of the section,
// and moves on. Run therefore always returns a report.
package pipeline
