// Package item contains the domain types of persisted home-automation items.
//
// It defines the closed State union (date-time, decimal, HSB color, on/off,
// open/closed, percent, undefined and the plain string fallback), the
// Record snapshot written per item and the query types returned to callers.
package item
