package indicator

// ewmaSeries computes an exponentially weighted moving average over values.
// Use alpha = 2/(span+1) to match pandas ewm implementation with adjust=False.
// The series is seeded with the first observation rather than an SMA warm-up;
// the first several values are biased toward the initial price, which is the
// simplest order-independent single-pass definition and is preserved exactly
// for output compatibility.
func ewmaSeries(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}

	alpha := 2.0 / float64(span+1)

	out := make([]float64, len(values))
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		// EMA = price * alpha + EMA_prev * (1 - alpha)
		out[i] = (values[i] * alpha) + (out[i-1] * (1 - alpha))
	}

	return out
}
