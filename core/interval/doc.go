// Package interval models a closed numeric interval [Lower, Upper] over
// any ordered numeric type. Intervals are immutable value types: every
// operation returns a new interval. Union normalizes an arbitrary list of
// intervals into a sorted, non-overlapping sequence.
package interval
