// Package route models the route graph: the ordered stages a part travels through.
//
// A Route owns its RouteStages. Neighbour lookups (Previous, Next) are by sequence
// number, which is what the stage progress state machine uses for its sequencing
// rule. The final stage, when present, represents packaging.
package route
