// Package resolve implements the availability expansion: selected
// capability and infrastructure traits are unioned into a deduplicated
// feature list, and feature lists are unioned into the visible module
// set. Both functions are pure and touch no mutable state, so they are
// safe for concurrent callers and always deterministic for equal inputs.
package resolve

import (
	"github.com/opsuite/bfa-go/internal/catalog"
	"github.com/opsuite/bfa-go/internal/domain"
)

// Features expands the selected traits into the active feature list.
// Capabilities are expanded first in caller order, then infrastructure,
// so re-resolution over the same selections yields the same order. A
// feature reachable from several selected traits appears exactly once,
// at its first occurrence. Ids unknown to the catalog contribute nothing.
func Features(cat *catalog.Catalog, caps []domain.CapabilityID, infra []domain.InfrastructureID) []domain.FeatureID {
	ids := make([]string, 0, len(caps)+len(infra))
	for _, c := range caps {
		ids = append(ids, string(c))
	}
	for _, i := range infra {
		ids = append(ids, string(i))
	}
	return unionDeduped(ids, cat.FeaturesFor)
}

// Modules expands an active feature list into the visible module set,
// then appends the always-active modules that are not already present.
// The always-active set makes the dashboard invariant hold even for an
// empty feature list.
func Modules(cat *catalog.Catalog, features []domain.FeatureID) []domain.ModuleID {
	out := unionDeduped(features, cat.ModulesFor)

	seen := make(map[domain.ModuleID]bool, len(out))
	for _, m := range out {
		seen[m] = true
	}
	for _, m := range cat.AlwaysActive() {
		if !seen[m] {
			out = append(out, m)
			seen[m] = true
		}
	}
	return out
}

// unionDeduped walks ids in order, looks each one up, and appends every
// value not seen before. First-occurrence order is preserved; duplicates
// are suppressed exactly. The result is never nil so callers can hand it
// straight to JSON encoding as [].
func unionDeduped[K ~string, V comparable](ids []K, lookup func(K) []V) []V {
	out := make([]V, 0, len(ids)*2)
	seen := make(map[V]bool, len(ids)*2)
	for _, id := range ids {
		for _, v := range lookup(id) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
