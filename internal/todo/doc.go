// Package todo validates and applies task operations.
//
// A Service wraps an explicitly constructed store.Store. Front ends call the
// Service and nothing else; they never touch the store or allocate IDs.
//
// # Validation
//
// Titles and descriptions are trimmed before they are checked or stored:
//   - title: 1 to 200 characters, never empty or whitespace-only
//   - description: 0 to 500 characters, "" means no description
//
// # Status transitions
//
//	incomplete --MarkComplete--> complete
//	complete --MarkIncomplete--> incomplete
//
// Asking for the status a task already has is a ValidationError, not a no-op.
//
// # Errors
//
// Every failure is either a *ValidationError (matches ErrValidation) or a
// *NotFoundError (matches ErrNotFound). Nothing is retried.
package todo
