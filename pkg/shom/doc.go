// Package shom implements queries to the SHOM tide service.  Data is
// requested per harbor and keyed by calendar day.  A successful query returns
// tide events (high/low with time, height, and coefficient), water-level
// series sampled through the day, or tidal coefficients, depending on the
// endpoint.  All times are harbor-local.
package shom
