package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"

	"ecomreports/config"
	"ecomreports/reports"
	"ecomreports/schema"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiInterpreter asks the Gemini API to translate the prompt into a report
// interpretation, in JSON mode. Any failure (transport, timeout, unparseable
// response) falls back to the keyword strategy, so prompt-based reports keep
// working when the LLM does not.
type GeminiInterpreter struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	schema     *schema.Schema
	fallback   KeywordInterpreter
}

func NewGeminiInterpreter(
	geminiConfig config.Gemini,
	reportSchema *schema.Schema,
) *GeminiInterpreter {
	return &GeminiInterpreter{
		apiKey:  geminiConfig.APIKey,
		model:   geminiConfig.Model,
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(geminiConfig.TimeoutSeconds) * time.Second,
		},
		schema:   reportSchema,
		fallback: KeywordInterpreter{},
	}
}

func (gemini *GeminiInterpreter) InterpretPrompt(
	ctx context.Context,
	prompt string,
) reports.Interpretation {
	if strings.TrimSpace(prompt) == "" {
		return gemini.fallback.InterpretPrompt(ctx, prompt)
	}

	interpretation, err := gemini.callAPI(ctx, prompt)
	if err != nil {
		log.Warnf("Gemini interpretation failed, falling back to keyword matching: %v", err)
		return gemini.fallback.InterpretPrompt(ctx, prompt)
	}

	return interpretation
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (gemini *GeminiInterpreter) callAPI(
	ctx context.Context,
	prompt string,
) (reports.Interpretation, error) {
	requestBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: systemInstruction()},
				{Text: describeSchema(gemini.schema)},
				{Text: prompt},
			},
		}},
		GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return reports.Interpretation{}, wrap.Error(err, "failed to encode Gemini request")
	}

	url := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s", gemini.baseURL, gemini.model, gemini.apiKey,
	)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return reports.Interpretation{}, wrap.Error(err, "failed to create Gemini request")
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := gemini.httpClient.Do(request)
	if err != nil {
		return reports.Interpretation{}, wrap.Error(err, "Gemini request failed")
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return reports.Interpretation{}, wrap.Error(err, "failed to read Gemini response")
	}
	if response.StatusCode != http.StatusOK {
		return reports.Interpretation{}, fmt.Errorf(
			"Gemini returned status %d: %s", response.StatusCode, string(body),
		)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return reports.Interpretation{}, wrap.Error(err, "failed to parse Gemini response")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return reports.Interpretation{}, fmt.Errorf("Gemini response held no candidates")
	}

	rawText := parsed.Candidates[0].Content.Parts[0].Text
	log.Debug("received Gemini interpretation", slog.String("response", rawText))

	raw, err := ExtractInterpretationJSON(rawText)
	if err != nil {
		return reports.Interpretation{}, err
	}

	interpretation := reports.NormalizeInterpretation(raw)

	// The LLM sometimes reports an error while still producing a usable
	// interpretation; prefer the tolerant reading.
	interpretation.Error = ""

	return interpretation, nil
}

// ExtractInterpretationJSON digs the JSON object out of an LLM response, which
// may be wrapped in a markdown code fence or surrounded by stray prose even in
// JSON mode.
func ExtractInterpretationJSON(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start == -1 || end == -1 || end < start {
			return nil, fmt.Errorf("no JSON object found in LLM response")
		}
		cleaned = cleaned[start : end+1]
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, wrap.Error(err, "failed to parse JSON object from LLM response")
	}

	return raw, nil
}

func systemInstruction() string {
	currentDate := time.Now().Format("2006-01-02")
	return fmt.Sprintf(`You are a database assistant for an e-commerce platform. Current date: %s.
Respond with ONLY a JSON object of this structure:

{
  "report_type": "string",
  "filters": { "field__lookup": "value" },
  "group_by": ["field_to_group_by"],
  "aggregations": { "result_name": "Function('field')" },
  "order_by": ["field_to_order_by"],
  "error": null
}

Rules:
- "report_type" must be one of the valid report types.
- Use EXACT field names from the schema; traverse relations with "__".
- Aggregation functions: Sum, Count, Avg, Max, Min, e.g. "Sum('cash_price')", "Count('id')".
- Use iexact for names like brands and statuses, not icontains.
- Dates use the YYYY-MM-DD format.
- Prefix a field with "-" in "order_by" for descending order.
- Set "error" only if the request is impossible.`, currentDate)
}

// describeSchema renders the model graph for the LLM, in the same shape clients
// get from the schema endpoint.
func describeSchema(reportSchema *schema.Schema) string {
	var description strings.Builder
	description.WriteString("E-commerce schema (currency: Bs.):\n")

	for _, model := range reportSchema.Models() {
		fmt.Fprintf(&description, "\n%s:\n  Fields:", model.Name)
		for i, field := range model.Fields {
			if i > 0 {
				description.WriteString(",")
			}
			fmt.Fprintf(&description, " %s (%v)", field.Name, field.DataType)
		}
		if relations := model.Relations(); len(relations) > 0 {
			description.WriteString("\n  Relations:")
			for i, relation := range relations {
				if i > 0 {
					description.WriteString(",")
				}
				fmt.Fprintf(&description, " %s -> %s", relation.Name, relation.Target)
			}
		}
		description.WriteString("\n")
	}

	fmt.Fprintf(
		&description, "\nValid report types: %s\n", strings.Join(reports.ReportTypeNames(), ", "),
	)
	return description.String()
}
