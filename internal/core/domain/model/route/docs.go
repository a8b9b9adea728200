// Package route contains the OptimizedRoute aggregate: an ordered sequence
// of delivery points for one driver, with a distance/time estimate, a
// lifecycle status, and a kind recording how the ordering was produced.
package route
