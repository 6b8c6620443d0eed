// Package errors provides the structured error handling used across the
// progression core.
//
// Errors carry a Code, a display-ready message, and optional metadata:
//   - Structured errors with codes, messages, and metadata
//   - Error context preservation through wrapping
//   - Validation error helpers for config and input checking
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("item not found")
//	err := errors.InvalidArgumentf("invalid item id: %s", itemID)
//
// Adding metadata:
//
//	err := errors.FailedPrecondition("insufficient balance").
//	    WithMeta("shortfall", shortfall)
//
// Wrapping errors:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save player state")
//	}
//
// # Error Checking
//
// Use the typed helpers rather than string matching:
//
//	if errors.IsNotFound(err) { ... }
//	if errors.GetCode(err) == errors.CodeFailedPrecondition { ... }
//
// Session operations translate these into the {success, message} result
// shape returned to presentation layers; the message of the outermost
// error is always suitable for direct display.
package errors
