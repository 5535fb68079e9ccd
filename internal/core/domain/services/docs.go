// Package services holds the ledgers that keep cross-entity invariants.
//
//   - BufferLedger: cell capacity and one open placement per pallet.
//   - AssignmentLedger: one open machine assignment per pallet, on a capable machine.
//   - AggregationEngine: part and part-stage status derived from pallet progress.
//
// Services are stateless and operate on aggregates the caller has loaded and
// locked. They mutate those aggregates in memory and report what changed;
// persisting the changes is the caller's job.
package services
