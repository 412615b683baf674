package graph

const (
	// Absolute padding added above the highest and below the lowest sample.
	heightPadding = 0.2 // meters

	// Near-flat days still get a visible curve: the vertical span never
	// shrinks below the day's maximum height divided by this ratio.
	minSpanRatio = 1.2

	// Low-tide marker text sits below the trough; keep at least this many
	// logical pixels between the trough and the bottom axis.
	lowMarkerBudgetPx = 16.0

	// Floor on the domain span to avoid division by zero in the mapper.
	minHeightSpan = 0.01 // meters
)

// heightDomain derives the vertical axis domain from the day's sampled
// extremes. The domain is centered on the data, padded, floored at zero
// (shifted up rather than clipped), and widened where needed so low-tide
// marker text fits above the bottom axis.
func heightDomain(minHeight, maxHeight, innerHeightPx float64) (lo, hi float64) {
	median := (minHeight + maxHeight) / 2

	paddedHalf := (maxHeight-minHeight)/2 + heightPadding
	ratioHalf := (maxHeight + heightPadding) / minSpanRatio / 2
	halfSpan := paddedHalf
	if ratioHalf > halfSpan {
		halfSpan = ratioHalf
	}

	lo = median - halfSpan
	hi = median + halfSpan

	// Sea-level floor: shift, never clip, so the total span is preserved.
	if lo < 0 {
		hi -= lo
		lo = 0
	}

	// Reserve logical pixels below the trough for marker text. Expanding
	// symmetrically changes the meter-per-pixel scale, so solve for the
	// expansion d with the post-expansion scale:
	//   (minHeight - (lo-d)) >= budget * (span+2d) / innerHeightPx
	if innerHeightPx > 2*lowMarkerBudgetPx {
		span := hi - lo
		need := lowMarkerBudgetPx*span/innerHeightPx - (minHeight - lo)
		if need > 0 {
			d := need / (1 - 2*lowMarkerBudgetPx/innerHeightPx)
			lo -= d
			hi += d
			if lo < 0 {
				hi -= lo
				lo = 0
			}
		}
	}

	if hi-lo < minHeightSpan {
		lo = median - minHeightSpan/2
		hi = median + minHeightSpan/2
		if lo < 0 {
			hi -= lo
			lo = 0
		}
	}
	return lo, hi
}
