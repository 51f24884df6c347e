// Package output renders CLI results for terminals, markdown consumers and
// machine readers.
package output

import "strings"

// OutputMode selects how command results are written.
type OutputMode string //nolint:revive

// Supported output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Modes lists the values accepted by the --output flag.
var Modes = []string{
	string(ModeAuto),
	string(ModeText),
	string(ModeMarkdown),
	string(ModeJSON),
	string(ModeYAML),
}

// Mode parses a user supplied output format. Unknown or empty values
// resolve to ModeAuto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "plain":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}
