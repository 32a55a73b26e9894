// Package logs reads the vidscribe log file for the `vidscribe logs` command.
//
// Last reads the final lines of the file with bounded memory, optionally
// keeping only records that mention a pipeline run ID. Follow polls from a
// byte offset and hands new lines to a callback until its context ends.
package logs
