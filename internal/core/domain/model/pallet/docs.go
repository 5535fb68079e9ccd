// Package pallet holds the Pallet aggregate.
package pallet
