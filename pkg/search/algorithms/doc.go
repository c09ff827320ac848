// Package algorithms implements the single-trajectory local-search
// algorithms built on pkg/search's run lifecycle: pure random sampling,
// random descent, steepest descent, and Metropolis acceptance (spec
// §4.3-§4.6). Each wraps a search.NeighborhoodSearchBase (or, for random
// search, a bare search.SearchBase) and supplies the per-step move
// generation and acceptance logic.
package algorithms
