// Package coord converts between musical space (milliseconds, MIDI
// pitch) and screen space (pixels). The horizontal axis is time, the
// vertical axis is pitch with higher pitches drawn higher on screen.
//
// All conversions are pure functions of the current zoom and offset
// state. Scale factors and zoom are always positive and bounded away
// from zero by the zoom clamp, so no conversion can divide by zero.
package coord

import "math"

// Default view parameters.
const (
	DefaultPixelsPerSecond = 100.0
	DefaultPixelsPerNote   = 12.0
	DefaultMinZoom         = 0.1
	DefaultMaxZoom         = 10.0
)

// Rect is a screen-space rectangle.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects reports whether two rectangles overlap. Touching edges do
// not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}

// Normalize returns an equivalent rectangle with non-negative width and
// height, used when a rectangle is dragged out in any direction.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// System holds the zoom and pan state of one editing surface. It is
// created once per surface and mutated continuously by pan/zoom.
type System struct {
	pixelsPerSecond float64
	pixelsPerNote   float64
	minNote         int
	maxNote         int
	offsetX         float64
	offsetY         float64
	zoomX           float64
	zoomY           float64
	minZoom         float64
	maxZoom         float64
}

// NewSystem creates a coordinate system spanning the given pitch range
// with default scale and 1.0 zoom on both axes.
func NewSystem(minNote, maxNote int) *System {
	if minNote > maxNote {
		minNote, maxNote = maxNote, minNote
	}
	return &System{
		pixelsPerSecond: DefaultPixelsPerSecond,
		pixelsPerNote:   DefaultPixelsPerNote,
		minNote:         minNote,
		maxNote:         maxNote,
		zoomX:           1.0,
		zoomY:           1.0,
		minZoom:         DefaultMinZoom,
		maxZoom:         DefaultMaxZoom,
	}
}

// SetScale overrides the base pixel scale. Non-positive values are
// ignored.
func (s *System) SetScale(pixelsPerSecond, pixelsPerNote float64) {
	if pixelsPerSecond > 0 {
		s.pixelsPerSecond = pixelsPerSecond
	}
	if pixelsPerNote > 0 {
		s.pixelsPerNote = pixelsPerNote
	}
}

// SetZoomLimits changes the zoom clamp range and re-clamps the current
// zoom into it.
func (s *System) SetZoomLimits(minZoom, maxZoom float64) {
	if minZoom <= 0 || maxZoom < minZoom {
		return
	}
	s.minZoom = minZoom
	s.maxZoom = maxZoom
	s.zoomX = s.clampZoom(s.zoomX)
	s.zoomY = s.clampZoom(s.zoomY)
}

// MinNote returns the lowest displayable pitch.
func (s *System) MinNote() int { return s.minNote }

// MaxNote returns the highest displayable pitch.
func (s *System) MaxNote() int { return s.maxNote }

// ZoomX returns the current horizontal zoom factor.
func (s *System) ZoomX() float64 { return s.zoomX }

// ZoomY returns the current vertical zoom factor.
func (s *System) ZoomY() float64 { return s.zoomY }

// OffsetX returns the current horizontal pan offset in pixels.
func (s *System) OffsetX() float64 { return s.offsetX }

// OffsetY returns the current vertical pan offset in pixels.
func (s *System) OffsetY() float64 { return s.offsetY }

// NoteHeight returns the on-screen height of one pitch row.
func (s *System) NoteHeight() float64 {
	return s.pixelsPerNote * s.zoomY
}

// TimeToX converts a time in milliseconds to a screen X coordinate.
func (s *System) TimeToX(timeMs float64) float64 {
	return timeMs/1000.0*s.pixelsPerSecond*s.zoomX + s.offsetX
}

// XToTime converts a screen X coordinate to a time in milliseconds.
func (s *System) XToTime(x float64) float64 {
	return (x - s.offsetX) / (s.pixelsPerSecond * s.zoomX) * 1000.0
}

// DurationToWidth converts a duration in milliseconds to a pixel width.
// Durations are relative, so no offset term applies.
func (s *System) DurationToWidth(durationMs float64) float64 {
	return durationMs / 1000.0 * s.pixelsPerSecond * s.zoomX
}

// WidthToDuration converts a pixel width to a duration in milliseconds.
func (s *System) WidthToDuration(width float64) float64 {
	return width / (s.pixelsPerSecond * s.zoomX) * 1000.0
}

// NoteToY converts a pitch to the screen Y of the top of its row.
func (s *System) NoteToY(pitch int) float64 {
	return float64(s.maxNote-pitch)*s.pixelsPerNote*s.zoomY + s.offsetY
}

// YToNote converts a screen Y coordinate to the nearest integer pitch.
// The result is not clamped to the displayable range.
func (s *System) YToNote(y float64) int {
	row := (y - s.offsetY) / (s.pixelsPerNote * s.zoomY)
	return s.maxNote - int(math.Round(row))
}

// NoteRect returns the screen rectangle of a note given its timing.
func (s *System) NoteRect(timeMs, durationMs float64, pitch int) Rect {
	return Rect{
		X:      s.TimeToX(timeMs),
		Y:      s.NoteToY(pitch),
		Width:  s.DurationToWidth(durationMs),
		Height: s.NoteHeight(),
	}
}

// RectToNote inverts NoteRect, recovering timing from a screen rect.
func (s *System) RectToNote(r Rect) (timeMs, durationMs float64, pitch int) {
	return s.XToTime(r.X), s.WidthToDuration(r.Width), s.YToNote(r.Y)
}

// SetZoomX sets the horizontal zoom, clamped to the zoom limits.
func (s *System) SetZoomX(zoom float64) {
	s.zoomX = s.clampZoom(zoom)
}

// SetZoomXAt sets the horizontal zoom keeping the musical point under
// anchorX visually fixed.
func (s *System) SetZoomXAt(zoom, anchorX float64) {
	oldZoom := s.zoomX
	s.zoomX = s.clampZoom(zoom)
	s.offsetX = anchorX - (anchorX-s.offsetX)*(s.zoomX/oldZoom)
}

// SetZoomY sets the vertical zoom, clamped to the zoom limits.
func (s *System) SetZoomY(zoom float64) {
	s.zoomY = s.clampZoom(zoom)
}

// SetZoomYAt sets the vertical zoom keeping the pitch row under anchorY
// visually fixed.
func (s *System) SetZoomYAt(zoom, anchorY float64) {
	oldZoom := s.zoomY
	s.zoomY = s.clampZoom(zoom)
	s.offsetY = anchorY - (anchorY-s.offsetY)*(s.zoomY/oldZoom)
}

// Pan shifts the view by the given pixel deltas. No bounds are imposed;
// the caller may clamp if it wants a finite canvas.
func (s *System) Pan(dx, dy float64) {
	s.offsetX += dx
	s.offsetY += dy
}

// ScrollX shifts the view horizontally.
func (s *System) ScrollX(dx float64) {
	s.offsetX += dx
}

// ScrollY shifts the view vertically.
func (s *System) ScrollY(dy float64) {
	s.offsetY += dy
}

// SnapTimeToGrid rounds a time to the nearest multiple of the grid
// interval. Halfway values round away from zero. A non-positive grid
// disables snapping.
func SnapTimeToGrid(timeMs float64, gridMs int64) float64 {
	if gridMs <= 0 {
		return timeMs
	}
	grid := float64(gridMs)
	return math.Round(timeMs/grid) * grid
}

// IsNoteVisible reports whether any part of the note's rectangle falls
// inside the viewport. Used to skip off-screen hit tests and drawing.
func (s *System) IsNoteVisible(timeMs, durationMs float64, pitch int, viewWidth, viewHeight float64) bool {
	view := Rect{Width: viewWidth, Height: viewHeight}
	return s.NoteRect(timeMs, durationMs, pitch).Intersects(view)
}

// VisibleTimeRange returns the time span covered by a viewport of the
// given width.
func (s *System) VisibleTimeRange(viewWidth float64) (startMs, endMs float64) {
	return s.XToTime(0), s.XToTime(viewWidth)
}

// VisibleNoteRange returns the inclusive pitch range covered by a
// viewport of the given height, clamped to the displayable range.
func (s *System) VisibleNoteRange(viewHeight float64) (low, high int) {
	high = s.YToNote(0)
	low = s.YToNote(viewHeight)
	if high > s.maxNote {
		high = s.maxNote
	}
	if low < s.minNote {
		low = s.minNote
	}
	return low, high
}

// clampZoom forces a zoom factor into the configured limits.
func (s *System) clampZoom(zoom float64) float64 {
	if zoom < s.minZoom {
		return s.minZoom
	}
	if zoom > s.maxZoom {
		return s.maxZoom
	}
	return zoom
}
