package components

// Key is one keypad button.
type Key struct {
	Label  string
	Action string // datastar expression run on click
	Class  string
}

// insert appends text to the expression signal.
func insert(label, text string) Key {
	return Key{Label: label, Action: "$expression += '" + text + "'"}
}

// Keys is the keypad layout, row by row.
var Keys = [][]Key{
	{
		{Label: "C", Action: "$expression = ''", Class: "key-clear"},
		{Label: "⌫", Action: "$expression = $expression.slice(0, -1)", Class: "key-back"},
		insert("%", "%"),
		insert("÷", "÷"),
	},
	{insert("7", "7"), insert("8", "8"), insert("9", "9"), insert("×", "×")},
	{insert("4", "4"), insert("5", "5"), insert("6", "6"), insert("−", "-")},
	{insert("1", "1"), insert("2", "2"), insert("3", "3"), insert("+", "+")},
	{insert("√", "√("), insert("(", "("), insert(")", ")"), insert("^", "^")},
	{
		insert("0", "0"),
		insert(".", "."),
		{Label: "=", Action: "@post('/calculate')", Class: "key-equals"},
	},
}

func keyClass(k Key) string {
	if k.Class == "" {
		return "key"
	}
	return "key " + k.Class
}
