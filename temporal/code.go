package temporal

// Code is a per-pixel reconstruction decision stored in the mask grid.
type Code uint8

// Decision codes.
const (
	KeepCurrent     Code = 10
	UsePrevious     Code = 20
	UseNext         Code = 30
	AverageNext     Code = 40
	AveragePrevious Code = 50
	Interpolate     Code = 60
	Blend           Code = 70
)

// String returns the decision name.
func (c Code) String() string {
	switch c {
	case KeepCurrent:
		return "keep"
	case UsePrevious:
		return "previous"
	case UseNext:
		return "next"
	case AverageNext:
		return "average-next"
	case AveragePrevious:
		return "average-previous"
	case Interpolate:
		return "interpolate"
	case Blend:
		return "blend"
	default:
		return "unknown"
	}
}
