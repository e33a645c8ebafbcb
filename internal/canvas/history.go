package canvas

import "unitdesk/internal/schema"

// history is a bounded undo/redo stack of document snapshots.
type history struct {
	limit int
	past  []schema.TemplateDocument
	next  []schema.TemplateDocument
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

func (h *history) push(doc schema.TemplateDocument) {
	h.past = append(h.past, doc)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.next = nil
}

func (h *history) undo(current schema.TemplateDocument) (schema.TemplateDocument, bool) {
	if len(h.past) == 0 {
		return schema.TemplateDocument{}, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.next = append(h.next, current.Clone())
	return prev, true
}

func (h *history) redo(current schema.TemplateDocument) (schema.TemplateDocument, bool) {
	if len(h.next) == 0 {
		return schema.TemplateDocument{}, false
	}
	doc := h.next[len(h.next)-1]
	h.next = h.next[:len(h.next)-1]
	h.past = append(h.past, current.Clone())
	return doc, true
}

func (h *history) clear() {
	h.past, h.next = nil, nil
}

func (h *history) canUndo() bool { return len(h.past) > 0 }
func (h *history) canRedo() bool { return len(h.next) > 0 }
