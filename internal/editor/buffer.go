package editor

// Edit is a single change event coming from a text input.
type Edit struct {
	Input string `json:"input"`
	Caret int    `json:"caret"`
}

// Buffer holds the notes field state for a view binding. It is not safe for
// concurrent use.
type Buffer struct {
	text string
}

// NewBuffer returns a buffer holding a single empty bullet.
func NewBuffer() *Buffer {
	return &Buffer{text: Initial}
}

// Restore returns a buffer seeded with previously saved text. Empty text falls
// back to a single empty bullet.
func Restore(text string) *Buffer {
	if text == "" {
		text = Initial
	}
	return &Buffer{text: text}
}

// Apply feeds an edit event through the bullet rules and returns the new text.
func (b *Buffer) Apply(e Edit) string {
	b.text = Apply(b.text, e.Input, e.Caret)
	return b.text
}

// Text returns the serialized buffer.
func (b *Buffer) Text() string {
	return b.text
}

// Lines returns the buffer split into lines.
func (b *Buffer) Lines() []string {
	return Lines(b.text)
}

// Reset discards all content.
func (b *Buffer) Reset() {
	b.text = Initial
}
