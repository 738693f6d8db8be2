package ui

// Panel is a platform-neutral rich message block.
type Panel struct {
	Title       string
	Description string
	Color       int
	Footer      string
	Fields      []Field
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type Button struct {
	Label    string
	CustomID string
}

type Reply struct {
	Content   string
	Panel     *Panel
	Buttons   []Button
	Ephemeral bool
}

type TextInput struct {
	CustomID    string
	Label       string
	Placeholder string
	Required    bool
}

type Form struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

type Command struct {
	Name        string
	Description string
}
