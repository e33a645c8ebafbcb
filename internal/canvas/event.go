package canvas

import (
	"fmt"

	"unitdesk/internal/coords"
)

type EventKind string

const (
	EventLibraryDown   EventKind = "library-down"
	EventComponentDown EventKind = "component-down"
	EventPointerMove   EventKind = "pointer-move"
	EventPointerUp     EventKind = "pointer-up"
	EventClickEmpty    EventKind = "click-empty"
	EventSelect        EventKind = "select"
	EventBeginResize   EventKind = "begin-resize"
	EventEndResize     EventKind = "end-resize"
	EventEditField     EventKind = "edit-field"
	EventDelete        EventKind = "delete"
	EventZoom          EventKind = "zoom"
	EventZoomIn        EventKind = "zoom-in"
	EventZoomOut       EventKind = "zoom-out"
	EventToggleGrid    EventKind = "toggle-grid"
	EventCanvasSize    EventKind = "canvas-size"
	EventSetColor      EventKind = "set-color"
	EventRename        EventKind = "rename"
	EventDescribe      EventKind = "describe"
	EventUndo          EventKind = "undo"
	EventRedo          EventKind = "redo"
)

// Event is a user interaction as it arrives from the editor client.
// Pointer coordinates are canvas pixels at the current zoom.
type Event struct {
	Kind        EventKind    `json:"kind"`
	EntryID     string       `json:"entry_id,omitempty"`
	ComponentID string       `json:"component_id,omitempty"`
	Pointer     coords.Point `json:"pointer"`
	Field       string       `json:"field,omitempty"`
	Value       float64      `json:"value,omitempty"`
	Width       float64      `json:"width,omitempty"`
	Height      float64      `json:"height,omitempty"`
	Slot        string       `json:"slot,omitempty"`
	Text        string       `json:"text,omitempty"`
}

// Apply dispatches an event. Only malformed events return an error;
// events that do not fit the current state are silently ignored.
func (e *Engine) Apply(ev Event) error {
	switch ev.Kind {
	case EventLibraryDown:
		entry, ok := e.libraryEntry(ev.EntryID)
		if !ok {
			return fmt.Errorf("unknown library entry %q", ev.EntryID)
		}
		e.PointerDownLibrary(entry)
	case EventComponentDown:
		e.PointerDownComponent(ev.ComponentID, ev.Pointer)
	case EventPointerMove:
		e.PointerMove(ev.Pointer)
	case EventPointerUp:
		e.PointerUp(ev.Pointer)
	case EventClickEmpty:
		e.ClickEmpty()
	case EventSelect:
		e.Select(ev.ComponentID)
	case EventBeginResize:
		e.BeginResize()
	case EventEndResize:
		e.EndResize()
	case EventEditField:
		if _, ok := e.bounds.For(ev.Field); !ok {
			return fmt.Errorf("unknown field %q", ev.Field)
		}
		e.EditField(ev.Field, ev.Value)
	case EventDelete:
		e.DeleteSelected()
	case EventZoom:
		e.SetZoom(ev.Value)
	case EventZoomIn:
		e.ZoomIn()
	case EventZoomOut:
		e.ZoomOut()
	case EventToggleGrid:
		e.ToggleGrid()
	case EventCanvasSize:
		e.SetCanvasSize(ev.Width, ev.Height)
	case EventSetColor:
		if !e.SetColor(ev.Slot, ev.Text) {
			return fmt.Errorf("invalid color %q for slot %q", ev.Text, ev.Slot)
		}
	case EventRename:
		e.Rename(ev.Text)
	case EventDescribe:
		e.Describe(ev.Text)
	case EventUndo:
		e.Undo()
	case EventRedo:
		e.Redo()
	default:
		return fmt.Errorf("unknown event %q", ev.Kind)
	}
	return nil
}
