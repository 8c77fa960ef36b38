// Package intervalset models an ordered set of non-overlapping
// intervals. Whole-set union, intersection and difference run as linear
// sweeps over the sorted interval lists; point containment uses binary
// search. The package-level iterators generalize pairwise intersection
// to N input sets and to quorum (k-of-n) matching.
package intervalset
