package openai

import (
	"context"
	"os"
	"testing"

	"github.com/jmvoss/returns-triage/internal/testutil"
)

// TestClient_CreateChatCompletion_Live replays a recorded exchange against
// the real API shape. Record a cassette with:
//
//	VCR_MODE=record OPENAI_API_KEY=sk-... go test ./internal/api/openai
func TestClient_CreateChatCompletion_Live(t *testing.T) {
	if os.Getenv("VCR_MODE") == "record" && os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("Skipping test: OPENAI_API_KEY not set")
	}
	if os.Getenv("VCR_MODE") != "record" && !testutil.CassetteExists("chat_completion") {
		t.Skip("Skipping test: no recorded cassette")
	}

	rec, cleanup := testutil.NewVCRRecorder(t, "chat_completion")
	defer cleanup()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = "test-key"
	}

	client := NewClient(apiKey, WithHTTPClient(testutil.VCRHTTPClient(rec)))

	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []ChatCompletionMessage{{Role: "user", Content: "Respond with ONLY: ELIGIBLE: YES"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error = %v", err)
	}

	if len(resp.Choices) == 0 {
		t.Fatal("expected at least one choice")
	}
	if resp.Choices[0].Message.Content == "" {
		t.Error("expected content in response")
	}
}
