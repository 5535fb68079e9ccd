// Package events defines the notifications produced by routing operations.
//
// Events are collected while an operation runs and handed to a publisher only
// after its transaction commits. Delivery is best effort.
package events
