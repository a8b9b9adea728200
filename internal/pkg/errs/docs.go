// Package errs provides standardized error types for the swiftlogistics
// middleware. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package includes error types for common failure scenarios:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ValueIsOutOfRangeError: for when a value is outside allowed bounds
//   - ObjectNotFoundError: for when an object cannot be found
//   - VersionIsInvalidError: for optimistic-concurrency conflicts
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// Higher layers classify failures with errors.Is against the sentinels rather
// than matching on message text.
package errs
