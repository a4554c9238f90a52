package handlers

import (
	"errors"
	"testing"

	"github.com/langflix/langflix-backend/internal/services"
	"github.com/langflix/langflix-backend/internal/types"
)

func TestDecodeInteraction(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want types.InteractionKind
	}{
		{"word click", `{"type":"word_click","word":"hola"}`, types.KindWordClick},
		{"completion", `{"type":"completion","contentId":"c1","percentage":80}`, types.KindCompletion},
		{"button", `{"type":"button_click","button":"too_hard"}`, types.KindButtonClick},
		{"quiz", `{"type":"quiz_complete","quizId":"q1","score":8,"total":10}`, types.KindQuiz},
		{"micro", `{"type":"micro_interactions","videoId":"v1","pausePoints":[1.5]}`, types.KindMicroInteractions},
		{"skip", `{"type":"skip","contentId":"c1","watchTime":1.2,"totalDuration":30}`, types.KindSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := decodeInteraction([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decodeInteraction: %v", err)
			}
			if in.Kind() != tt.want {
				t.Fatalf("kind = %q, want %q", in.Kind(), tt.want)
			}
		})
	}
}

func TestDecodeInteractionFields(t *testing.T) {
	in, err := decodeInteraction([]byte(`{"type":"word_click","word":"hola","context":"subtitle"}`))
	if err != nil {
		t.Fatalf("decodeInteraction: %v", err)
	}
	wc, ok := in.(types.WordClickInteraction)
	if !ok {
		t.Fatalf("decoded %T, want WordClickInteraction value", in)
	}
	if wc.Word != "hola" || wc.Context != "subtitle" {
		t.Fatalf("payload = %+v", wc)
	}
}

func TestDecodeInteractionUnknownType(t *testing.T) {
	_, err := decodeInteraction([]byte(`{"type":"teleport"}`))
	if !errors.Is(err, services.ErrUnknownInteractionType) {
		t.Fatalf("err = %v, want ErrUnknownInteractionType", err)
	}
}

func TestDecodeInteractionBadJSON(t *testing.T) {
	if _, err := decodeInteraction([]byte(`{`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
