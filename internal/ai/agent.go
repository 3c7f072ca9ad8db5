package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"expense-desk/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AgentService turns a free-text expense description into a structured
// draft prefill.
type AgentService interface {
	InterpretExpense(ctx context.Context, naturalLanguage string) (*core.DraftPrefill, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretExpense asks the model for a DraftPrefill via structured output.
// The result is normalized and validated before it is returned; applying it
// to a draft is the caller's job, field-by-field through the controller.
func (a *Agent) InterpretExpense(ctx context.Context, naturalLanguage string) (*core.DraftPrefill, error) {
	prompt := fmt.Sprintf(`You are an assistant that helps employees file expense reimbursements.
Your goal is to interpret an expense described in natural language and propose a draft.
Rules:
1. Type is 'RECEIPT' when the user mentions receipts, tickets, or proof files; otherwise 'INVOICE'.
2. Propose one line per distinct purchase mentioned.
3. Amounts must be exact positive decimal strings (e.g. "23.50").
4. Dates use YYYY-MM-DD; use today's date when the text gives none.
5. Provide a confidence score (0.0-1.0) and explain your reasoning.

Expense description: %s`, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "expense_draft_prefill",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed prefill for an expense reimbursement draft"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var prefill core.DraftPrefill
	if err := json.Unmarshal([]byte(content), &prefill); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	prefill.Normalize()
	if err := prefill.Validate(); err != nil {
		return nil, fmt.Errorf("prefill validation failed: %w", err)
	}

	return &prefill, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.DraftPrefill
	return reflector.Reflect(v)
}
