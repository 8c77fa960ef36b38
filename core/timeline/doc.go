// Package timeline manages a bounded numeric axis as a set of disjoint
// free intervals. Queries return candidate sections of the free space;
// committing a candidate ("cutting") shrinks or splits the matching
// free interval. Every mutation bumps a per-instance generation
// counter, so candidates issued before the mutation are rejected when
// committed later: after any cut, callers must re-query.
//
// A Timeline is not internally synchronized. Serialize the whole
// query-decide-cut sequence externally, one timeline per resource.
package timeline
