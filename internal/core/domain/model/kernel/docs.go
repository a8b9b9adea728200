// Package kernel contains the shared value objects of the domain model:
// validated identifiers and geographic coordinates. Types here are immutable,
// created only through constructors, and safe for concurrent use.
package kernel
