// Package search implements the run lifecycle shared by every search
// algorithm: status tracking, listener notification, stop-criterion
// polling, and best-solution bookkeeping (spec §4.1). Concrete algorithms
// (pkg/search/algorithms and friends) embed SearchBase or
// NeighborhoodSearchBase and supply the per-step logic that drives
// SearchBase.Run.
package search
