// Package pipeline sequences acquisition, transcription and pagination for a
// single URL and produces the paginated view model.
//
// Run executes synchronously on the caller's goroutine. Stages run in order
// and the first failure is returned unchanged; nothing after it executes.
// A progress notification is emitted after each completed stage, and the same
// text is appended to the caller-owned Session, which Run returns updated.
package pipeline
