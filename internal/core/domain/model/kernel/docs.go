// Package kernel provides the value objects shared by every routing aggregate.
//
// The package includes:
//   - UUID: identifier used to address entities; relationships are expressed by ID only
//   - Quantity: non-negative decimal piece count used for parts, pallets and defects
//
// Both are immutable and safe for concurrent use.
package kernel
