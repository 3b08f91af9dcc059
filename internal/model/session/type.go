package session

// Type is a selectable kind of therapy session.
type Type struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Seed provides the session types offered by the intake form.
func Seed() []Type {
	return []Type{
		{Value: "Behavioral Therapy", Label: "Behavioral Therapy"},
		{Value: "Speech Therapy", Label: "Speech Therapy"},
		{Value: "Occupational Therapy", Label: "Occupational Therapy"},
	}
}
