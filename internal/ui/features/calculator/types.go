package calculator

// Signals is the datastar signal state sent by the calculator page.
type Signals struct {
	Expression string `json:"expression"`
}

// Limits bounds how many history entries each view renders.
type Limits struct {
	Page  int // full page render
	Panel int // history panel patches
}
