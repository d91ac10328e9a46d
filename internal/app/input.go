package app

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pianoroll/internal/editor"
)

// Horizontal pan step per scroll or pan key, in cells.
const panStep = 4

// handleKey translates terminal key events into editor commands.
// Returning ErrQuit ends the event loop.
func (a *App) handleKey(ev *tcell.EventKey) error {
	a.message = ""
	mods := translateMods(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return ErrQuit
	case tcell.KeyCtrlS:
		a.save()
		return nil
	case tcell.KeyCtrlZ:
		a.undo()
		return nil
	case tcell.KeyCtrlY:
		a.redo()
		return nil
	case tcell.KeyCtrlC:
		if err := a.editor.Copy(); err != nil {
			a.message = fmt.Sprintf("copy failed: %v", err)
		}
		return nil
	case tcell.KeyCtrlX:
		if err := a.editor.Cut(); err != nil {
			a.message = fmt.Sprintf("cut failed: %v", err)
		}
		return nil
	case tcell.KeyCtrlV:
		at := a.coords.XToTime(0)
		if at < 0 {
			at = 0
		}
		if err := a.editor.Paste(int64(at)); err != nil {
			a.message = fmt.Sprintf("paste failed: %v", err)
		}
		return nil
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.editor.HandleKey(editor.KeyDelete, mods)
		return nil
	case tcell.KeyEscape:
		a.editor.HandleKey(editor.KeyEscape, mods)
		return nil
	case tcell.KeyLeft:
		a.editor.HandleKey(editor.KeyLeft, mods)
		return nil
	case tcell.KeyRight:
		a.editor.HandleKey(editor.KeyRight, mods)
		return nil
	case tcell.KeyUp:
		a.editor.HandleKey(editor.KeyUp, mods)
		return nil
	case tcell.KeyDown:
		a.editor.HandleKey(editor.KeyDown, mods)
		return nil
	}

	switch ev.Rune() {
	case 'q':
		return ErrQuit
	case '1':
		a.editor.SetTool(editor.ToolSelect)
	case '2':
		a.editor.SetTool(editor.ToolPencil)
	case '3':
		a.editor.SetTool(editor.ToolEraser)
	case 'u':
		a.undo()
	case 'r':
		a.redo()
	case 'h':
		a.coords.ScrollX(-panStep)
	case 'l':
		a.coords.ScrollX(panStep)
	case 'k':
		a.coords.ScrollY(-1)
	case 'j':
		a.coords.ScrollY(1)
	case '+', '=':
		a.zoomAtCenter(1.25)
	case '-':
		a.zoomAtCenter(0.8)
	case 'f':
		a.fitView()
	case 'p':
		a.writeSnapshot()
	}
	return nil
}

// handleMouse routes pointer events. tcell reports position in cells,
// which the coordinate system treats as pixels.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := float64(cx), float64(cy)
	mods := translateMods(ev.Modifiers())

	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		if mods.HasCtrl() {
			a.coords.SetZoomXAt(a.coords.ZoomX()*1.1, x)
		} else {
			a.coords.ScrollY(-1)
		}
	case ev.Buttons()&tcell.WheelDown != 0:
		if mods.HasCtrl() {
			a.coords.SetZoomXAt(a.coords.ZoomX()/1.1, x)
		} else {
			a.coords.ScrollY(1)
		}
	case ev.Buttons()&tcell.Button1 != 0:
		if a.mouseDown {
			a.editor.PointerMove(x, y)
		} else {
			a.mouseDown = true
			a.editor.PointerDown(x, y, mods)
		}
	default:
		if a.mouseDown {
			a.mouseDown = false
			a.editor.PointerUp(x, y)
		} else {
			a.editor.PointerMove(x, y)
		}
	}
}

func (a *App) zoomAtCenter(factor float64) {
	w, h := a.screen.Size()
	a.coords.SetZoomXAt(a.coords.ZoomX()*factor, float64(w)/2)
	a.coords.SetZoomYAt(a.coords.ZoomY()*factor, float64(h)/2)
}

func (a *App) fitView() {
	w, h := a.screen.Size()
	a.coords.FitToNotes(a.timeline.Notes(), float64(w), float64(h-1), 2)
}

func (a *App) writeSnapshot() {
	path := a.opts.Snapshot
	if path == "" {
		path = "pianoroll.png"
	}
	if err := a.savePNG(path); err != nil {
		a.message = fmt.Sprintf("snapshot failed: %v", err)
		slog.Error("snapshot failed", "path", path, "error", err)
		return
	}
	a.message = fmt.Sprintf("wrote %s", path)
}

func translateMods(m tcell.ModMask) editor.Modifier {
	var mods editor.Modifier
	if m&tcell.ModShift != 0 {
		mods |= editor.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= editor.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= editor.ModAlt
	}
	return mods
}
