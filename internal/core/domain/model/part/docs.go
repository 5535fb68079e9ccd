// Package part holds the Part aggregate: a product quantity routed along one route
// and split across pallets. Part status is derived from pallet progress and never
// regresses.
package part
