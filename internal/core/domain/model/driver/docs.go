// Package driver contains the Driver aggregate: availability status,
// vehicle-derived capacity, and running daily delivery statistics.
package driver
