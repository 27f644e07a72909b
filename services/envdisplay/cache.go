package envdisplay

import (
	"envpaper-go/types"
	"envpaper-go/x/conv"
)

// DynamicField is the render memory of one value widget.
// RenderedText is the text of the last successful redraw; PreviousText is
// what was visible before it. Both start empty.
type DynamicField struct {
	ID           types.FieldID
	Widget       types.WidgetID
	PreviousText string
	RenderedText string
}

// Decision is the outcome of ChangeCache.Evaluate.
type Decision struct {
	Changed bool
	Old     string
	New     string
}

// ChangeCache decides whether a field needs a redraw. Evaluate never mutates;
// only Commit, called after a successful redraw, advances a field.
type ChangeCache struct {
	fields [types.NumFields]DynamicField
}

func NewChangeCache(widgets [types.NumFields]types.WidgetID) *ChangeCache {
	c := &ChangeCache{}
	for i := range c.fields {
		c.fields[i] = DynamicField{ID: types.FieldID(i), Widget: widgets[i]}
	}
	return c
}

// Evaluate compares candidate with the rendered text by exact equality.
func (c *ChangeCache) Evaluate(id types.FieldID, candidate string) Decision {
	f := &c.fields[id]
	if candidate == f.RenderedText {
		return Decision{}
	}
	return Decision{Changed: true, Old: f.RenderedText, New: candidate}
}

// Commit records a completed redraw to text.
func (c *ChangeCache) Commit(id types.FieldID, text string) {
	f := &c.fields[id]
	f.PreviousText = f.RenderedText
	f.RenderedText = text
}

func (c *ChangeCache) Field(id types.FieldID) DynamicField { return c.fields[id] }

// FormatTemperature renders "<int> C".
func FormatTemperature(v int) string { return format(v, " C") }

// FormatHumidity renders "<int> %".
func FormatHumidity(v int) string { return format(v, " %") }

// Format renders the field's value out of a reading.
func Format(id types.FieldID, r types.Reading) string {
	if id == types.FieldHumidity {
		return FormatHumidity(r.Humidity)
	}
	return FormatTemperature(r.Temperature)
}

func format(v int, unit string) string {
	var buf [24]byte
	return string(append(conv.AppendInt(buf[:0], int64(v)), unit...))
}
