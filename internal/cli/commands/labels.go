package commands

import (
	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// kindLabel returns the human-readable label of an evaluation failure,
// e.g. "Division By Zero".
func kindLabel(k calc.Kind) string {
	if k == 0 {
		return "Error"
	}
	return titleCaser.String(k.String())
}
