package temporal

// Window describes which field masks BuildMask needs for output frame n.
// Current masks come from the field being rebuilt, opposite masks from the
// other field. Indices outside [0, numFrames-2) stand for zero masks.
type Window struct {
	CStart, CCount int
	OStart, OCount int
	// CurrentTop is true when the current masks come from the top field.
	CurrentTop bool
}

// NewWindow computes the mask window for frame n.
func NewWindow(n, length, order, field int) Window {
	oHalf := (length - 1) / 2
	cHalf := (length - 2) / 2
	w := Window{
		CCount: 2 * cHalf,
		OCount: 2*oHalf - 1,
	}

	if field == 1 {
		bn := n
		if order == 1 {
			bn = n - 1
		}
		w.OStart = n - oHalf
		w.CStart = bn - cHalf
		w.CurrentTop = false
	} else {
		tn := n
		if order == 0 {
			tn = n - 1
		}
		w.CStart = tn - cHalf
		w.OStart = n - oHalf
		w.CurrentTop = true
	}
	return w
}

// InClip reports whether mask index i refers to a real field mask.
func InClip(i, numFrames int) bool {
	return i >= 0 && i < numFrames-2
}
