package editor

import "github.com/dshills/pianoroll/internal/coord"

// rectState is the in-progress rubber-band selection. The anchor is
// fixed at press and the opposite corner follows the pointer; notes
// are only selected on release.
type rectState struct {
	anchorX, anchorY float64
	x, y             float64
	additive         bool
}

func (r *rectState) rect() coord.Rect {
	return coord.Rect{
		X:      r.anchorX,
		Y:      r.anchorY,
		Width:  r.x - r.anchorX,
		Height: r.y - r.anchorY,
	}.Normalize()
}

// startRect anchors a rubber-band selection. A non-additive start
// clears the selection immediately so the user sees the band replace
// it, not amend it.
func (e *Editor) startRect(x, y float64, mods Modifier) {
	additive := mods.HasShift() || mods.HasCtrl()
	if !additive && e.sel.Count() > 0 {
		e.sel.Clear()
		e.publishSelection()
	}
	e.rect = &rectState{anchorX: x, anchorY: y, x: x, y: y, additive: additive}
	e.active = gestureRect
}

func (e *Editor) updateRect(x, y float64) {
	if e.rect == nil {
		return
	}
	e.rect.x, e.rect.y = x, y
}

// finishRect selects every note intersecting the band.
func (e *Editor) finishRect(x, y float64) {
	if e.rect == nil {
		return
	}
	e.rect.x, e.rect.y = x, y
	r := e.rect.rect()
	additive := e.rect.additive
	e.rect = nil

	if e.sel.SelectInRect(r, additive) {
		e.publishSelection()
	}
}
