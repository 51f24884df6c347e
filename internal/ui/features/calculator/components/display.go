// Package components provides the calculator's HTML fragments. Each
// fragment carries a stable id so datastar can morph it in place.
package components

// Element ids patched by the calculator endpoints.
const (
	DisplayID       = "display"
	HistoryID       = "history"
	HistoryStreamID = "history-stream"
)

// DisplayData is the state of the calculator display.
type DisplayData struct {
	Expression string // what was submitted, shown above the value
	Value      string
	Error      bool
}
