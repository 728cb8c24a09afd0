// Package domain defines the core business entities for the OpSuite BFA.
// These models are independent of external services and represent the
// canonical data structures used throughout the availability core.
package domain

// The four identifier spaces of the availability model. All are opaque
// strings from closed catalogs; none are created at runtime.

// CapabilityID identifies a high-level business trait the owner can select
// (e.g. "sells physical products").
type CapabilityID string

// InfrastructureID identifies an operating-topology trait (location count,
// mobility). It participates in feature resolution exactly like a
// capability but is tracked separately on the profile.
type InfrastructureID string

// FeatureID identifies an atomic unit of application functionality. A
// feature may be reachable from more than one capability.
type FeatureID string

// ModuleID identifies a top-level navigable application area.
type ModuleID string

// Known capability identifiers.
const (
	CapPhysicalProducts        CapabilityID = "physical_products"
	CapOnsiteService           CapabilityID = "onsite_service"
	CapProfessionalServices    CapabilityID = "professional_services"
	CapPickupOrders            CapabilityID = "pickup_orders"
	CapDeliveryShipping        CapabilityID = "delivery_shipping"
	CapDigitalProducts         CapabilityID = "digital_products"
	CapAsyncOperations         CapabilityID = "async_operations"
	CapMobileOperations        CapabilityID = "mobile_operations"
	CapMembershipSubscriptions CapabilityID = "membership_subscriptions"
)

// Known infrastructure identifiers.
const (
	InfraSingleLocation InfrastructureID = "single_location"
	InfraMultiLocation  InfrastructureID = "multi_location"
	InfraMobileBusiness InfrastructureID = "mobile_business"
)

// Known module identifiers.
const (
	ModuleDashboard  ModuleID = "dashboard"
	ModuleSales      ModuleID = "sales"
	ModuleMaterials  ModuleID = "materials"
	ModuleProduction ModuleID = "production"
	ModuleScheduling ModuleID = "scheduling"
	ModuleCustomers  ModuleID = "customers"
	ModuleStaff      ModuleID = "staff"
	ModuleOperations ModuleID = "operations"
	ModuleProducts   ModuleID = "products"
)
