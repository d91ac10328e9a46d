package coord

import "github.com/dshills/pianoroll/internal/note"

// FitToNotes adjusts zoom and offset so the bounding box of the given
// notes fills the viewport minus padding, centered, with zoom clamped
// to the configured limits. An empty note list leaves the view alone.
func (s *System) FitToNotes(notes []*note.Note, viewWidth, viewHeight, padding float64) {
	if len(notes) == 0 {
		return
	}

	startMs := notes[0].Time
	endMs := notes[0].End()
	minPitch := notes[0].Pitch
	maxPitch := notes[0].Pitch
	for _, n := range notes[1:] {
		if n.Time < startMs {
			startMs = n.Time
		}
		if n.End() > endMs {
			endMs = n.End()
		}
		if n.Pitch < minPitch {
			minPitch = n.Pitch
		}
		if n.Pitch > maxPitch {
			maxPitch = n.Pitch
		}
	}

	innerWidth := viewWidth - 2*padding
	innerHeight := viewHeight - 2*padding
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	// Horizontal: fit the time span, then center it.
	spanSeconds := float64(endMs-startMs) / 1000.0
	if spanSeconds <= 0 {
		spanSeconds = 0.001
	}
	s.zoomX = s.clampZoom(innerWidth / (spanSeconds * s.pixelsPerSecond))
	contentWidth := spanSeconds * s.pixelsPerSecond * s.zoomX
	s.offsetX = padding + (innerWidth-contentWidth)/2 -
		float64(startMs)/1000.0*s.pixelsPerSecond*s.zoomX

	// Vertical: fit the pitch span inclusive of the top row, centered.
	rows := float64(maxPitch-minPitch+1)
	s.zoomY = s.clampZoom(innerHeight / (rows * s.pixelsPerNote))
	contentHeight := rows * s.pixelsPerNote * s.zoomY
	s.offsetY = padding + (innerHeight-contentHeight)/2 -
		float64(s.maxNote-maxPitch)*s.pixelsPerNote*s.zoomY
}
