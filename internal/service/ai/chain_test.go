package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardianlink/backend/internal/service/ai"
	"github.com/guardianlink/backend/internal/service/completion"
)

type stubCompleter struct {
	reply *completion.Reply
	err   error
	last  completion.Request
}

func (s *stubCompleter) Complete(_ context.Context, req completion.Request) (*completion.Reply, error) {
	s.last = req
	return s.reply, s.err
}

func TestChainRendersTemplates(t *testing.T) {
	stub := &stubCompleter{reply: &completion.Reply{Content: "  low risk  "}}
	chain, err := ai.NewChain(context.Background(), "risk", completion.NewChatModel(stub),
		"You assess {kind}.", "Location: {location}")
	require.NoError(t, err)

	out, err := chain.Run(context.Background(), map[string]any{
		"kind":     "floods",
		"location": "Accra",
	}, 0.2, 100)
	require.NoError(t, err)

	assert.Equal(t, "low risk", out)
	require.Len(t, stub.last.Messages, 2)
	assert.Equal(t, completion.RoleSystem, stub.last.Messages[0].Role)
	assert.Equal(t, "You assess floods.", stub.last.Messages[0].Content)
	assert.Equal(t, "Location: Accra", stub.last.Messages[1].Content)
	assert.InDelta(t, 0.2, stub.last.Temperature, 0.0001)
	assert.Equal(t, 100, stub.last.MaxTokens)
}

func TestChainValuesWithBracesAreNotReparsed(t *testing.T) {
	stub := &stubCompleter{reply: &completion.Reply{Content: "ok"}}
	chain, err := ai.NewChain(context.Background(), "echo", completion.NewChatModel(stub), "sys", "{message}")
	require.NoError(t, err)

	_, err = chain.Run(context.Background(), map[string]any{"message": `{"a": 1}`}, 0.7, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, stub.last.Messages[1].Content)
	assert.Zero(t, stub.last.MaxTokens)
}

func TestChainPropagatesModelError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	chain, err := ai.NewChain(context.Background(), "risk", completion.NewChatModel(stub), "sys", "{q}")
	require.NoError(t, err)

	_, err = chain.Run(context.Background(), map[string]any{"q": "x"}, 0.2, 0)
	assert.Error(t, err)
}

func TestNewChainRequiresModel(t *testing.T) {
	_, err := ai.NewChain(context.Background(), "risk", nil, "sys", "{q}")
	assert.Error(t, err)
}
