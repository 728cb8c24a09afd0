package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/opsuite/bfa-go/internal/domain"
)

// catalogFile is the YAML shape of an external catalog definition.
//
//	capabilities:
//	  physical_products: [production_bom_management, ...]
//	infrastructure:
//	  single_location: [staff_shift_scheduling]
//	features:
//	  production_bom_management: [production, materials]
//	always_active: [dashboard]
type catalogFile struct {
	Capabilities   map[string][]string `yaml:"capabilities"`
	Infrastructure map[string][]string `yaml:"infrastructure"`
	Features       map[string][]string `yaml:"features"`
	AlwaysActive   []string            `yaml:"always_active"`
}

// LoadFile reads a catalog definition from a YAML file and validates it.
// The file replaces the built-in tables wholesale; there is no merging.
// Known-id listings are sorted so catalog enumeration stays deterministic
// regardless of YAML map iteration order.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	c := &Catalog{
		capabilityFeatures: make(map[string][]domain.FeatureID, len(f.Capabilities)+len(f.Infrastructure)),
		featureModules:     make(map[domain.FeatureID][]domain.ModuleID, len(f.Features)),
	}

	for id, features := range f.Capabilities {
		c.capabilityFeatures[id] = toFeatureIDs(features)
	}
	for id, features := range f.Infrastructure {
		c.capabilityFeatures[id] = toFeatureIDs(features)
	}
	for id, modules := range f.Features {
		ms := make([]domain.ModuleID, len(modules))
		for i, m := range modules {
			ms[i] = domain.ModuleID(m)
		}
		c.featureModules[domain.FeatureID(id)] = ms
	}
	for _, m := range f.AlwaysActive {
		c.alwaysActive = append(c.alwaysActive, domain.ModuleID(m))
	}

	for _, id := range sortedKeys(f.Capabilities) {
		c.capabilities = append(c.capabilities, domain.CapabilityID(id))
	}
	for _, id := range sortedKeys(f.Infrastructure) {
		c.infrastructure = append(c.infrastructure, domain.InfrastructureID(id))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func toFeatureIDs(in []string) []domain.FeatureID {
	out := make([]domain.FeatureID, len(in))
	for i, f := range in {
		out[i] = domain.FeatureID(f)
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
