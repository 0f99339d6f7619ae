package handlers

import (
	"errors"
	"strings"
	"testing"

	"resto-reviews-backend/internal/models"
)

func intPtr(n int) *int { return &n }

func TestValidateEvaluationPayload(t *testing.T) {
	valid := createEvaluationPayload{Evaluateur: "alice", Commentaire: "Bon", Note: intPtr(3)}
	if err := validateEvaluationPayload(valid); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	cases := []struct {
		name    string
		payload createEvaluationPayload
	}{
		{"blank comment", createEvaluationPayload{Commentaire: "   ", Note: intPtr(2)}},
		{"comment too long", createEvaluationPayload{Commentaire: strings.Repeat("x", 256), Note: intPtr(2)}},
		{"author too long", createEvaluationPayload{Evaluateur: strings.Repeat("x", 51), Commentaire: "ok", Note: intPtr(2)}},
		{"missing note", createEvaluationPayload{Commentaire: "ok"}},
		{"note below range", createEvaluationPayload{Commentaire: "ok", Note: intPtr(-1)}},
		{"note above range", createEvaluationPayload{Commentaire: "ok", Note: intPtr(4)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := validateEvaluationPayload(c.payload)
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidateEvaluationPayloadAcceptsBounds(t *testing.T) {
	for _, note := range []int{0, 1, 2, 3} {
		p := createEvaluationPayload{Commentaire: "ok", Note: intPtr(note)}
		if err := validateEvaluationPayload(p); err != nil {
			t.Fatalf("note %d must be valid: %v", note, err)
		}
	}
}
