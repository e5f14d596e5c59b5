package interpreter

import (
	"context"
	"testing"
)

func TestInterpretQuestionWithoutToken(t *testing.T) {
	c := New(Params{})

	interp := c.InterpretQuestion(context.Background(), "Show all crypto chats")
	if interp.Provider != ProviderRules {
		t.Errorf("provider = %q, want %q", interp.Provider, ProviderRules)
	}
	if interp.Note == "" {
		t.Error("expected an advisory note on the rules downgrade")
	}
	if len(interp.Filter.Flags) != 1 || interp.Filter.Flags[0] != "CRYPTO" {
		t.Errorf("filter flags = %v, want [CRYPTO]", interp.Filter.Flags)
	}
}

func TestAnswerQuestionWithoutToken(t *testing.T) {
	c := New(Params{})

	answer, model, err := c.AnswerQuestion(context.Background(), "Who called whom?", nil)
	if err == nil {
		t.Fatal("expected an error with no answer model configured")
	}
	if answer != "" || model != "" {
		t.Errorf("answer = %q, model = %q, want both empty on failure", answer, model)
	}
}

func TestDefaultModelOrder(t *testing.T) {
	c := New(Params{APIKey: "token"})
	if len(c.models) != len(DefaultModels) {
		t.Fatalf("models = %d, want the default candidate list", len(c.models))
	}
	for i, model := range DefaultModels {
		if c.models[i] != model {
			t.Errorf("models[%d] = %q, want %q", i, c.models[i], model)
		}
	}
}
