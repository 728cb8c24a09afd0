package resolve_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/opsuite/bfa-go/internal/catalog"
	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/resolve"
)

func containsFeature(features []domain.FeatureID, want domain.FeatureID) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}

func containsModule(modules []domain.ModuleID, want domain.ModuleID) bool {
	for _, m := range modules {
		if m == want {
			return true
		}
	}
	return false
}

func countFeature(features []domain.FeatureID, want domain.FeatureID) int {
	n := 0
	for _, f := range features {
		if f == want {
			n++
		}
	}
	return n
}

func TestFeatures_EmptySelection(t *testing.T) {
	cat := catalog.Default()

	features := resolve.Features(cat, nil, nil)
	if features == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(features) != 0 {
		t.Errorf("expected no features, got %v", features)
	}
}

func TestFeatures_SingleCapability(t *testing.T) {
	cat := catalog.Default()

	features := resolve.Features(cat, []domain.CapabilityID{domain.CapPhysicalProducts}, nil)
	for _, want := range []domain.FeatureID{
		"production_bom_management",
		"inventory_stock_tracking",
		"catalog_product_listing",
		"sales_payment_processing",
	} {
		if !containsFeature(features, want) {
			t.Errorf("expected feature %q in %v", want, features)
		}
	}
}

func TestFeatures_DedupAcrossOverlappingCapabilities(t *testing.T) {
	cat := catalog.Default()

	// All three capabilities provide sales_payment_processing.
	features := resolve.Features(cat, []domain.CapabilityID{
		domain.CapPhysicalProducts,
		domain.CapProfessionalServices,
		domain.CapPickupOrders,
	}, []domain.InfrastructureID{domain.InfraSingleLocation})

	if got := countFeature(features, "sales_payment_processing"); got != 1 {
		t.Errorf("expected sales_payment_processing exactly once, got %d in %v", got, features)
	}
}

func TestFeatures_DedupForAnyOverlapCount(t *testing.T) {
	cat := catalog.Default()

	providers := []domain.CapabilityID{
		domain.CapPhysicalProducts,
		domain.CapOnsiteService,
		domain.CapProfessionalServices,
		domain.CapPickupOrders,
	}
	for n := 1; n <= len(providers); n++ {
		features := resolve.Features(cat, providers[:n], nil)
		if got := countFeature(features, "sales_payment_processing"); got != 1 {
			t.Errorf("with %d providers: expected sales_payment_processing once, got %d", n, got)
		}
	}
}

func TestFeatures_UnknownIDsContributeNothing(t *testing.T) {
	cat := catalog.Default()

	features := resolve.Features(cat,
		[]domain.CapabilityID{"quantum_teleportation", domain.CapPickupOrders},
		[]domain.InfrastructureID{"orbital_station"},
	)
	if !containsFeature(features, "sales_pickup_orders") {
		t.Errorf("known capability should still resolve, got %v", features)
	}
	for _, f := range features {
		if f == "" {
			t.Error("unknown id produced an empty feature")
		}
	}
}

func TestFeatures_InfrastructureParticipatesLikeCapability(t *testing.T) {
	cat := catalog.Default()

	features := resolve.Features(cat, nil, []domain.InfrastructureID{domain.InfraMultiLocation})
	if !containsFeature(features, "multisite_transfer_orders") {
		t.Errorf("expected multisite_transfer_orders from multi_location, got %v", features)
	}
}

func TestFeatures_Deterministic(t *testing.T) {
	cat := catalog.Default()
	caps := []domain.CapabilityID{domain.CapPhysicalProducts, domain.CapOnsiteService, domain.CapPickupOrders}
	infra := []domain.InfrastructureID{domain.InfraSingleLocation}

	first := resolve.Features(cat, caps, infra)
	for i := 0; i < 10; i++ {
		if got := resolve.Features(cat, caps, infra); !reflect.DeepEqual(first, got) {
			t.Fatalf("non-deterministic resolution: %v vs %v", first, got)
		}
	}
}

func TestModules_AlwaysIncludesDashboard(t *testing.T) {
	cat := catalog.Default()

	inputs := [][]domain.FeatureID{
		nil,
		{},
		{"sales_payment_processing"},
		{"production_bom_management", "inventory_stock_tracking"},
		{"not_a_real_feature"},
	}
	for _, features := range inputs {
		modules := resolve.Modules(cat, features)
		if !containsModule(modules, domain.ModuleDashboard) {
			t.Errorf("dashboard missing for features %v: got %v", features, modules)
		}
	}
}

func TestModules_EmptyFeaturesYieldsOnlyAlwaysActive(t *testing.T) {
	cat := catalog.Default()

	modules := resolve.Modules(cat, nil)
	if len(modules) != 1 || modules[0] != domain.ModuleDashboard {
		t.Errorf("expected [dashboard], got %v", modules)
	}
}

func TestModules_Dedup(t *testing.T) {
	cat := catalog.Default()

	// Both features map to the sales module.
	modules := resolve.Modules(cat, []domain.FeatureID{
		"sales_payment_processing",
		"sales_pickup_orders",
	})
	count := 0
	for _, m := range modules {
		if m == domain.ModuleSales {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected sales module once, got %d in %v", count, modules)
	}
}

func TestScenario_Restaurant(t *testing.T) {
	cat := catalog.Default()

	caps := []domain.CapabilityID{
		domain.CapPhysicalProducts,
		domain.CapOnsiteService,
		domain.CapPickupOrders,
	}
	infra := []domain.InfrastructureID{domain.InfraSingleLocation}

	features := resolve.Features(cat, caps, infra)
	for _, want := range []domain.FeatureID{
		"production_bom_management",
		"inventory_stock_tracking",
		"operations_table_management",
		"sales_pickup_orders",
	} {
		if !containsFeature(features, want) {
			t.Errorf("restaurant: expected feature %q in %v", want, features)
		}
	}

	modules := resolve.Modules(cat, features)
	for _, want := range []domain.ModuleID{
		domain.ModuleProduction,
		domain.ModuleMaterials,
		domain.ModuleSales,
		domain.ModuleOperations,
		domain.ModuleProducts,
		domain.ModuleDashboard,
	} {
		if !containsModule(modules, want) {
			t.Errorf("restaurant: expected module %q in %v", want, modules)
		}
	}
}

func TestPerformance_FullCatalogResolution(t *testing.T) {
	cat := catalog.Default()
	caps := cat.Capabilities()
	infra := cat.Infrastructure()

	start := time.Now()
	features := resolve.Features(cat, caps, infra)
	modules := resolve.Modules(cat, features)
	elapsed := time.Since(start)

	if elapsed > 20*time.Millisecond {
		t.Errorf("full-catalog resolution took %v, expected < 20ms", elapsed)
	}
	if len(features) == 0 || len(modules) == 0 {
		t.Fatal("expected non-empty resolution over the full catalog")
	}
}
