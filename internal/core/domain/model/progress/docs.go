// Package progress is the per-pallet stage state machine.
//
// Each pallet has at most one StageProgress row per route stage, moving
//
//	NOT_PROCESSED -> PENDING -> IN_PROGRESS -> COMPLETED
//
// PENDING is only reached through a supervisor assignment; self-service stations
// go straight from NOT_PROCESSED to IN_PROGRESS. A row past NOT_PROCESSED requires
// the preceding stage (by sequence number) to be COMPLETED unless it is the first
// stage. Tracker enforces that rule and reports violations as
// errs.RuleViolationError with one of the Rule* names.
//
// PartRouteProgress is the per-part aggregate of the same scale; see
// services.AggregationEngine.
package progress
