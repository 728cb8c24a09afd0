// Package catalog holds the static resolution tables that drive feature
// availability: which features each capability (or infrastructure trait)
// activates, and which modules each feature lights up. Tables are built
// once at startup — from the compiled-in defaults or a YAML file — and
// never mutated afterwards, so lookups are safe for concurrent readers.
package catalog

import (
	"fmt"

	"github.com/opsuite/bfa-go/internal/domain"
)

// Catalog is the immutable set of resolution tables.
//
// Capability and infrastructure identifiers share one lookup table:
// an infrastructure trait participates in feature resolution exactly
// like a capability, it is only tracked separately on the profile.
type Catalog struct {
	capabilityFeatures map[string][]domain.FeatureID
	featureModules     map[domain.FeatureID][]domain.ModuleID
	alwaysActive       []domain.ModuleID

	capabilities   []domain.CapabilityID
	infrastructure []domain.InfrastructureID
}

// FeaturesFor returns the feature list for a capability or infrastructure
// id. Unknown ids yield nil: resolution treats them as contributing
// nothing rather than failing. The returned slice is shared; callers must
// not mutate it.
func (c *Catalog) FeaturesFor(id string) []domain.FeatureID {
	return c.capabilityFeatures[id]
}

// ModulesFor returns the module list for a feature id. Unknown ids yield
// nil. The returned slice is shared; callers must not mutate it.
func (c *Catalog) ModulesFor(id domain.FeatureID) []domain.ModuleID {
	return c.featureModules[id]
}

// AlwaysActive returns the modules present in every resolution result
// regardless of selection.
func (c *Catalog) AlwaysActive() []domain.ModuleID {
	out := make([]domain.ModuleID, len(c.alwaysActive))
	copy(out, c.alwaysActive)
	return out
}

// Capabilities lists the known capability ids in catalog order.
func (c *Catalog) Capabilities() []domain.CapabilityID {
	out := make([]domain.CapabilityID, len(c.capabilities))
	copy(out, c.capabilities)
	return out
}

// Infrastructure lists the known infrastructure ids in catalog order.
func (c *Catalog) Infrastructure() []domain.InfrastructureID {
	out := make([]domain.InfrastructureID, len(c.infrastructure))
	copy(out, c.infrastructure)
	return out
}

// Validate checks referential integrity: every feature referenced from the
// capability table must have a module mapping, and the always-active set
// must not be empty (the dashboard invariant depends on it).
func (c *Catalog) Validate() error {
	if len(c.alwaysActive) == 0 {
		return fmt.Errorf("catalog: always-active module set is empty")
	}
	for id, features := range c.capabilityFeatures {
		for _, f := range features {
			if _, ok := c.featureModules[f]; !ok {
				return fmt.Errorf("catalog: %q references unknown feature %q", id, f)
			}
		}
	}
	return nil
}

// Default returns the built-in catalog. The tables below are the shipped
// availability model for OpSuite; LoadFile can replace them wholesale for
// white-label deployments.
func Default() *Catalog {
	c := &Catalog{
		capabilityFeatures: map[string][]domain.FeatureID{
			string(domain.CapPhysicalProducts): {
				"production_bom_management",
				"inventory_stock_tracking",
				"catalog_product_listing",
				"sales_payment_processing",
			},
			string(domain.CapOnsiteService): {
				"operations_table_management",
				"sales_payment_processing",
			},
			string(domain.CapProfessionalServices): {
				"scheduling_appointments",
				"customers_crm",
				"sales_payment_processing",
			},
			string(domain.CapPickupOrders): {
				"sales_pickup_orders",
				"sales_payment_processing",
			},
			string(domain.CapDeliveryShipping): {
				"sales_delivery_orders",
				"shipping_label_management",
			},
			string(domain.CapDigitalProducts): {
				"catalog_product_listing",
				"sales_digital_fulfillment",
			},
			string(domain.CapAsyncOperations): {
				"operations_async_workflows",
			},
			string(domain.CapMobileOperations): {
				"operations_mobile_dispatch",
			},
			string(domain.CapMembershipSubscriptions): {
				"sales_recurring_billing",
				"customers_membership_management",
			},
			string(domain.InfraSingleLocation): {
				"staff_shift_scheduling",
			},
			string(domain.InfraMultiLocation): {
				"staff_shift_scheduling",
				"multisite_transfer_orders",
				"multisite_central_catalog",
			},
			string(domain.InfraMobileBusiness): {
				"operations_mobile_dispatch",
				"scheduling_route_planning",
			},
		},
		featureModules: map[domain.FeatureID][]domain.ModuleID{
			"production_bom_management":       {domain.ModuleProduction, domain.ModuleMaterials},
			"inventory_stock_tracking":        {domain.ModuleMaterials, domain.ModuleProducts},
			"catalog_product_listing":         {domain.ModuleProducts},
			"sales_payment_processing":        {domain.ModuleSales},
			"operations_table_management":     {domain.ModuleOperations},
			"scheduling_appointments":         {domain.ModuleScheduling, domain.ModuleCustomers},
			"customers_crm":                   {domain.ModuleCustomers},
			"sales_pickup_orders":             {domain.ModuleSales, domain.ModuleOperations},
			"sales_delivery_orders":           {domain.ModuleSales, domain.ModuleOperations},
			"shipping_label_management":       {domain.ModuleOperations},
			"sales_digital_fulfillment":       {domain.ModuleSales, domain.ModuleProducts},
			"operations_async_workflows":      {domain.ModuleOperations},
			"operations_mobile_dispatch":      {domain.ModuleOperations, domain.ModuleScheduling},
			"sales_recurring_billing":         {domain.ModuleSales, domain.ModuleCustomers},
			"customers_membership_management": {domain.ModuleCustomers},
			"staff_shift_scheduling":          {domain.ModuleStaff, domain.ModuleScheduling},
			"multisite_transfer_orders":       {domain.ModuleOperations, domain.ModuleMaterials},
			"multisite_central_catalog":       {domain.ModuleProducts, domain.ModuleMaterials},
			"scheduling_route_planning":       {domain.ModuleScheduling},
		},
		alwaysActive: []domain.ModuleID{domain.ModuleDashboard},
		capabilities: []domain.CapabilityID{
			domain.CapPhysicalProducts,
			domain.CapOnsiteService,
			domain.CapProfessionalServices,
			domain.CapPickupOrders,
			domain.CapDeliveryShipping,
			domain.CapDigitalProducts,
			domain.CapAsyncOperations,
			domain.CapMobileOperations,
			domain.CapMembershipSubscriptions,
		},
		infrastructure: []domain.InfrastructureID{
			domain.InfraSingleLocation,
			domain.InfraMultiLocation,
			domain.InfraMobileBusiness,
		},
	}
	return c
}
