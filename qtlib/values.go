package qtlib

// PointF mirrors QPointF. Its layout matches goqtbridge_pointf and QPointF
// (two doubles), so it is copied bit for bit.
type PointF struct {
	X float64
	Y float64
}

// SizeF mirrors QSizeF (two doubles), copied bit for bit.
type SizeF struct {
	Width  float64
	Height float64
}

// IsEmpty reports whether either dimension is not positive, like QSizeF::isEmpty.
func (s SizeF) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// MarginsF mirrors QMarginsF. It crosses the boundary as its four components
// and is rebuilt on the other side.
type MarginsF struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// MarginsFFromComponents builds margins from the raw components received from native code.
func MarginsFFromComponents(left, top, right, bottom float64) MarginsF {
	return MarginsF{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Components returns the values passed to the QMarginsF constructor.
func (m MarginsF) Components() (left, top, right, bottom float64) {
	return m.Left, m.Top, m.Right, m.Bottom
}

// IsNull reports whether all margins are zero.
func (m MarginsF) IsNull() bool {
	return m.Left == 0 && m.Top == 0 && m.Right == 0 && m.Bottom == 0
}

// Color is an RGBA color. It crosses the boundary as four int32 components
// and is rebuilt with QColor::fromRgb on the native side.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// ColorFromComponents builds a color from native components, clamping each to 0..255.
func ColorFromComponents(red, green, blue, alpha int32) Color {
	return Color{R: clampChannel(red), G: clampChannel(green), B: clampChannel(blue), A: clampChannel(alpha)}
}

// Components returns the values passed to QColor::fromRgb.
func (c Color) Components() (red, green, blue, alpha int32) {
	return int32(c.R), int32(c.G), int32(c.B), int32(c.A)
}

func clampChannel(value int32) uint8 {
	switch {
	case value < 0:
		return 0
	case value > 255:
		return 255
	default:
		return uint8(value)
	}
}
