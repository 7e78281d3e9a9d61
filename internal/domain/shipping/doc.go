// Package shipping contains the Shipping bounded context.
// This context quotes shipment prices across independent courier carriers.
//
// Key concepts:
//   - RateRequest / DetailedRateRequest: Immutable shipment descriptions used for one quote
//   - CourierRate: Normalized summary quote (courier, service, price)
//   - ShippingRate: Normalized itemized quote (charge codes, taxes, zone, billed weight)
//   - RateProvider / DetailedRateProvider: Port interfaces implemented by carrier adapters
//   - QuoteRecorder: Port for persisting aggregated quote snapshots
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package shipping
