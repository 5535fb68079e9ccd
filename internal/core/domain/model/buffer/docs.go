// Package buffer holds buffer cells and pallet placements.
//
// A cell's load is never stored as a counter that is incremented or decremented:
// Load is the count of open placements the cell was loaded with, and every write
// of a cell persists that derived value. Drifted exposes cells whose stored load
// disagrees, which the reconciliation job repairs.
package buffer
