// Package combmetric holds the vertical derivative tests shared by the
// spatial check of the deinterlacer and the combing detector.
package combmetric

// Rows holds the row indices of the vertical taps around a centre row.
type Rows struct {
	PPP, PP, PN, PNN int
}

// Taps returns the rows two above, one above, one below and two below y in a
// plane of height h. Missing taps at the top and bottom edges are replaced by
// the tap on the opposite side, so the top row compares against row 1 twice.
func Taps(h, y int) Rows {
	r := Rows{PPP: y - 2, PP: y - 1, PN: y + 1, PNN: y + 2}
	if y == 0 {
		r.PP = r.PN
	}
	if y <= 1 {
		r.PPP = r.PNN
	}
	if y == h-1 {
		r.PN = r.PP
	}
	if y >= h-2 {
		r.PNN = r.PPP
	}
	r.PPP = clampRow(r.PPP, h)
	r.PP = clampRow(r.PP, h)
	r.PN = clampRow(r.PN, h)
	r.PNN = clampRow(r.PNN, h)
	return r
}

// clampRow keeps degenerate planes shorter than four rows in bounds.
func clampRow(y, h int) int {
	return min(max(y, 0), h-1)
}

// Generalized reports whether c is a comb peak or trough against its
// neighbours pp and pn, and the five-tap second derivative exceeds t6.
func Generalized(ppp, pp, c, pn, pnn, t, t6 int) bool {
	d1 := c - pp
	d2 := c - pn
	if !((d1 > t && d2 > t) || (d1 < -t && d2 < -t)) {
		return false
	}
	v := ppp + c*4 + pnn - 3*(pp+pn)
	if v < 0 {
		v = -v
	}
	return v > t6
}

// Squared reports whether (c-pp)*(c-pn) exceeds tsq.
func Squared(pp, c, pn, tsq int) bool {
	return (c-pp)*(c-pn) > tsq
}

// Thresholds bundles a scaled threshold with its derived forms.
type Thresholds struct {
	T   int
	T6  int
	TSq int
}

// NewThresholds derives the metric thresholds for t.
func NewThresholds(t int) Thresholds {
	return Thresholds{T: t, T6: t * 6, TSq: t * t}
}

// Test evaluates the selected metric, 0 for the generalized five-tap test
// and 1 for the squared product.
func (th Thresholds) Test(metric, ppp, pp, c, pn, pnn int) bool {
	if metric == 0 {
		return Generalized(ppp, pp, c, pn, pnn, th.T, th.T6)
	}
	return Squared(pp, c, pn, th.TSq)
}
