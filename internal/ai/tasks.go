package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedCompletion is returned when the completion reply, after
// sanitizing, is not a JSON object carrying the expected string keys.
var ErrMalformedCompletion = errors.New("malformed completion response")

// ParsedTask holds the structured fields extracted from a free-text task
// description.
type ParsedTask struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	DueDate       string `json:"dueDate"`
	EstimatedTime string `json:"estimatedTime"`
}

// Improvement is a rewritten title and description for an existing task.
type Improvement struct {
	ImprovedTitle       string `json:"improvedTitle"`
	ImprovedDescription string `json:"improvedDescription"`
}

// Classification is a suggested category and priority for a task.
type Classification struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
}

const parsePromptFormat = `
Return ONLY valid JSON. No markdown.

- Resolve any relative dates (for example "tomorrow", "next week") relative to the provided CURRENT_DATE.
- ALWAYS return dueDate in ISO format: YYYY-MM-DD, or an empty string if no date is present.
- Do NOT return two-digit years. Use 4-digit years.

{
 "title": "",
 "description": "",
 "category": "",
 "priority": "",
 "dueDate": "",
 "estimatedTime": ""
}

CURRENT_DATE: "%s"

Task: "%s"
`

const improvePromptFormat = `
Return ONLY valid JSON.

{
 "improvedTitle": "",
 "improvedDescription": ""
}

Title: "%s"
Description: "%s"
`

const classifyPromptFormat = `
Return ONLY valid JSON.

{
 "category": "",
 "priority": ""
}

Title: "%s"
Description: "%s"
`

func buildParsePrompt(text string, currentDate time.Time) string {
	return fmt.Sprintf(parsePromptFormat, currentDate.Format("2006-01-02"), text)
}

// ParseTask turns a free-text description into structured task fields.
// Relative dates are resolved against currentDate.
func (c *Client) ParseTask(ctx context.Context, text string, currentDate time.Time) (*ParsedTask, error) {
	fields, err := c.completeJSON(ctx, buildParsePrompt(text, currentDate),
		"title", "description", "category", "priority", "dueDate", "estimatedTime")
	if err != nil {
		return nil, err
	}
	return &ParsedTask{
		Title:         fields["title"],
		Description:   fields["description"],
		Category:      fields["category"],
		Priority:      fields["priority"],
		DueDate:       fields["dueDate"],
		EstimatedTime: fields["estimatedTime"],
	}, nil
}

// ImproveTask asks for a rewritten title and description.
func (c *Client) ImproveTask(ctx context.Context, title, description string) (*Improvement, error) {
	prompt := fmt.Sprintf(improvePromptFormat, title, description)
	fields, err := c.completeJSON(ctx, prompt, "improvedTitle", "improvedDescription")
	if err != nil {
		return nil, err
	}
	return &Improvement{
		ImprovedTitle:       fields["improvedTitle"],
		ImprovedDescription: fields["improvedDescription"],
	}, nil
}

// ClassifyTask asks for a category and priority suggestion.
func (c *Client) ClassifyTask(ctx context.Context, title, description string) (*Classification, error) {
	prompt := fmt.Sprintf(classifyPromptFormat, title, description)
	fields, err := c.completeJSON(ctx, prompt, "category", "priority")
	if err != nil {
		return nil, err
	}
	return &Classification{
		Category: fields["category"],
		Priority: fields["priority"],
	}, nil
}

// completeJSON sends the prompt as a single user message, sanitizes the
// reply and decodes it, requiring every named key to be present as a string.
// A missing or mistyped key is a malformed completion, not a zero value.
func (c *Client) completeJSON(ctx context.Context, prompt string, keys ...string) (map[string]string, error) {
	raw, err := c.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(Sanitize(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}

	fields := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := decoded[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrMalformedCompletion, key)
		}
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %q is not a string", ErrMalformedCompletion, key)
		}
		fields[key] = text
	}
	return fields, nil
}
