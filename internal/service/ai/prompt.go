package ai

import "strings"

const systemPrompt = "You are a helpful assistant for therapists."

const userPromptTemplate = `As a professional therapist, I need to convert raw session notes into well-written, professional, and consistent notes for documentation in a clinical writing style.

The session details are as follows:
- Duration: {duration}
- Type: {session_type}

The raw notes are:
{notes}

Please provide a professional and concise summary of the session based on these details.`

const notSpecified = "not specified"

// Request carries the session details sent for note generation.
type Request struct {
	SessionType string `json:"session_type"`
	Duration    string `json:"duration"`
	Notes       string `json:"notes"`
}

// chainInput maps a request onto the prompt template variables, filling in
// placeholders for details the clinician left blank.
func chainInput(req Request) map[string]any {
	return map[string]any{
		"session_type": orNotSpecified(req.SessionType),
		"duration":     orNotSpecified(req.Duration),
		"notes":        req.Notes,
	}
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}
