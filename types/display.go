package types

// WidgetID is a non-owning handle to a text widget on a display surface.
type WidgetID int

// NoWidget is returned when a widget could not be created.
const NoWidget WidgetID = -1
