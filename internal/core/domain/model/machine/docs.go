// Package machine holds the machine registry entry, the machine assignment and
// the station mode.
//
// The invariants tying them together (one open assignment per pallet, capability
// of the assigned machine) live in services.AssignmentLedger.
package machine
