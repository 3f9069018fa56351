package frame

// Property keys understood by this module.
const (
	// PropFieldBased holds 0 for progressive, 1 for bottom field first and
	// 2 for top field first.
	PropFieldBased = "_FieldBased"
	// PropDurationNum and PropDurationDen hold the frame duration as a rational.
	PropDurationNum = "_DurationNum"
	PropDurationDen = "_DurationDen"
	// PropCombed is set to 1 on frames the combing detector flags, 0 otherwise.
	PropCombed = "_Combed"
	// PropCombScore holds the highest block count the combing detector saw.
	PropCombScore = "_CombScore"
)

// Field order values stored under PropFieldBased.
const (
	FieldProgressive = 0
	FieldBottomFirst = 1
	FieldTopFirst    = 2
)

// Props is a per-frame property bag of integer values.
type Props map[string]int64

// Get returns the value stored under key.
func (p Props) Get(key string) (int64, bool) {
	v, ok := p[key]
	return v, ok
}

// Set stores v under key.
func (p Props) Set(key string, v int64) {
	p[key] = v
}

// Clone returns a copy of the bag. Cloning a nil bag yields an empty one.
func (p Props) Clone() Props {
	c := make(Props, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// HalveDuration halves the stored frame duration, reducing the fraction.
// Frames without both duration keys are left alone.
func (p Props) HalveDuration() {
	num, okNum := p[PropDurationNum]
	den, okDen := p[PropDurationDen]
	if !okNum || !okDen || den == 0 {
		return
	}
	den *= 2
	g := gcd(num, den)
	if g > 1 {
		num /= g
		den /= g
	}
	p[PropDurationNum] = num
	p[PropDurationDen] = den
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
