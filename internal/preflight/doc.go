// Package preflight provides readiness checks for the directories and
// external tools vidscribe depends on.
//
// The transcribe command calls RunAll before starting a run and refuses to
// proceed when a required check fails. The status command renders the same
// results for the operator.
package preflight
