package display

import "envpaper-go/types"

// Layout holds the four widget handles created at bootstrap.
type Layout struct {
	TempCaption  types.WidgetID
	HumidCaption types.WidgetID
	TempValue    types.WidgetID
	HumidValue   types.WidgetID
}

// Values returns the dynamic widgets indexed by field.
func (l Layout) Values() [types.NumFields]types.WidgetID {
	return [types.NumFields]types.WidgetID{
		types.FieldTemperature: l.TempValue,
		types.FieldHumidity:    l.HumidValue,
	}
}

// All returns every widget, captions first.
func (l Layout) All() []types.WidgetID {
	return []types.WidgetID{l.TempCaption, l.HumidCaption, l.TempValue, l.HumidValue}
}

const (
	marginX      = 10
	marginY      = 10
	rowPitch     = 30
	rowHeight    = 20
	captionWidth = 55
	valueWidth   = 45
	valueGap     = 10

	Placeholder = "00"
)

// Bootstrap creates the two captions and the two dynamic value widgets.
// Value widgets sit right of their caption and start with Placeholder.
func Bootstrap(s *Screen) Layout {
	var l Layout
	l.TempCaption = s.AddLabel(marginX, marginY, captionWidth, rowHeight, "Temp: ", Black)
	l.HumidCaption = s.AddLabel(marginX, marginY+rowPitch, captionWidth, rowHeight, "Humid: ", Black)
	l.TempValue = valueRight(s, l.TempCaption)
	l.HumidValue = valueRight(s, l.HumidCaption)
	return l
}

func valueRight(s *Screen, caption types.WidgetID) types.WidgetID {
	x, y, w, _ := s.Bounds(caption)
	return s.AddLabel(x+w+valueGap, y, valueWidth, rowHeight, Placeholder, Black)
}
