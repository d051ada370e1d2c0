// Package harness runs YAML-defined conformance scenarios against the
// mutation engine.
//
// A scenario is one simulated session: setup command lines, a main
// flow with expected per-line outcomes, and assertions over the final
// catalog and its change report. Scenarios live in testdata/ next to
// the tests that run them, so behavior-level expectations stay
// readable by non-Go contributors.
package harness
