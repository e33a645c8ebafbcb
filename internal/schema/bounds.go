package schema

// Field names accepted by numeric property edits.
const (
	FieldX      = "x"
	FieldY      = "y"
	FieldWidth  = "width"
	FieldHeight = "height"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FieldBounds are authoring limits for the properties panel. They are
// editor policy, not a property of stored documents.
type FieldBounds struct {
	X      Range `json:"x"`
	Y      Range `json:"y"`
	Width  Range `json:"width"`
	Height Range `json:"height"`
}

func DefaultFieldBounds() FieldBounds {
	return FieldBounds{
		X:      Range{Min: 0, Max: 100},
		Y:      Range{Min: 0, Max: 100},
		Width:  Range{Min: 10, Max: 100},
		Height: Range{Min: 5, Max: 50},
	}
}

// For returns the range for a field name.
func (b FieldBounds) For(field string) (Range, bool) {
	switch field {
	case FieldX:
		return b.X, true
	case FieldY:
		return b.Y, true
	case FieldWidth:
		return b.Width, true
	case FieldHeight:
		return b.Height, true
	}
	return Range{}, false
}
