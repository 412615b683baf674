// Package graph renders one calendar day of tide data as a scaled vector
// drawing: the water-level curve, high/low tide markers with coefficients,
// axis labels, and a current-time indicator.  The scene is rebuilt in full on
// every draw; all derived state (domain, marker positions) lives only for the
// duration of one draw cycle.
package graph
