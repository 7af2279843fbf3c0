package anthropic

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"toolfinder-backend/internal/llm"
)

type mockMessager struct {
	response *sdk.Message
	err      error
	params   sdk.MessageNewParams
}

func (m *mockMessager) New(_ context.Context, params sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	m.params = params
	return m.response, m.err
}

func textMessage(parts ...string) *sdk.Message {
	msg := &sdk.Message{}
	for _, p := range parts {
		msg.Content = append(msg.Content, sdk.ContentBlockUnion{Type: "text", Text: p})
	}
	return msg
}

func TestCompleteJoinsTextBlocks(t *testing.T) {
	mock := &mockMessager{response: textMessage("kanban, ", "scrum board")}
	c := NewWithMessager(mock, "")

	out, err := c.Complete(context.Background(), "system text", "task board")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "kanban, scrum board" {
		t.Fatalf("unexpected output %q", out)
	}
	if string(mock.params.Model) != DefaultModel {
		t.Fatalf("expected default model, got %q", mock.params.Model)
	}
	if len(mock.params.System) != 1 || mock.params.System[0].Text != "system text" {
		t.Fatalf("system prompt not forwarded: %+v", mock.params.System)
	}
}

func TestCompleteWrapsErrors(t *testing.T) {
	c := NewWithMessager(&mockMessager{err: errors.New("overloaded_error")}, "claude-x")
	_, err := c.Complete(context.Background(), "", "q")
	if err == nil || !strings.Contains(err.Error(), "anthropic request") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !llm.ShouldRetry(err) {
		t.Fatalf("overloaded errors should be retryable")
	}
}

func TestCompleteEmpty(t *testing.T) {
	c := NewWithMessager(&mockMessager{response: textMessage("  ")}, "claude-x")
	if _, err := c.Complete(context.Background(), "", "q"); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(" ", ""); err == nil {
		t.Fatalf("expected error without key")
	}
}
