// Package services contains stateless domain services that implement
// business logic spanning multiple aggregates.
package services
