// Package errs provides the typed errors shared by the order coordination core.
//
// Every error type follows the same pattern: a sentinel variable, a struct
// carrying the details, constructors with and without a cause, and an Unwrap
// method returning the sentinel so callers can use errors.Is.
//
// The taxonomy used by the command handlers:
//   - ObjectNotFoundError: unknown order, courier or staging token
//   - ConflictError: the stored state does not satisfy the operation's precondition
//   - InvalidSignatureError: a gateway callback failed signature verification
//   - ExpiredIntentError: a staged payment payload is gone or past its TTL
//   - ValueIsInvalidError, ValueIsRequiredError, ValueIsOutOfRangeError: validation failures
package errs
