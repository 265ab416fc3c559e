// Package interpret turns free-text report prompts into report interpretations,
// either with a deterministic keyword matcher or by calling the Gemini API.
package interpret

import (
	"context"

	"ecomreports/config"
	"ecomreports/reports"
	"ecomreports/schema"
)

// Interpreter produces a report interpretation from a user prompt. It never
// fails: implementations degrade to the default interpretation at worst.
type Interpreter interface {
	InterpretPrompt(ctx context.Context, prompt string) reports.Interpretation
}

// New selects the interpreter strategy from config: the Gemini-backed
// interpreter when an API key is set, otherwise the keyword matcher.
func New(geminiConfig config.Gemini, reportSchema *schema.Schema) Interpreter {
	if geminiConfig.APIKey == "" {
		return KeywordInterpreter{}
	}
	return NewGeminiInterpreter(geminiConfig, reportSchema)
}
