package completion

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ModelCompleter serves completions from an eino chat model such as Ark.
// Tool definitions in the request are not forwarded.
type ModelCompleter struct {
	model   model.BaseChatModel
	timeout time.Duration
}

func NewModelCompleter(m model.BaseChatModel, timeout time.Duration) *ModelCompleter {
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	return &ModelCompleter{model: m, timeout: timeout}
}

func (m *ModelCompleter) Complete(ctx context.Context, req Request) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	out, err := m.model.Generate(ctx, toSchemaMessages(req.Messages), opts...)
	if err != nil {
		return nil, &UpstreamError{Op: opComplete, Err: err}
	}
	if out == nil {
		return nil, &ParseError{Op: opComplete, Err: errors.New("model returned no message")}
	}

	reply := &Reply{Content: out.Content}
	if out.ResponseMeta != nil {
		reply.FinishReason = out.ResponseMeta.FinishReason
	}
	return reply, nil
}

// ChatModel exposes a Completer as an eino chat model so it can sit at the end
// of a compose chain. Temperature and max tokens are read from call options.
type ChatModel struct {
	completer Completer
}

func NewChatModel(c Completer) *ChatModel {
	return &ChatModel{completer: c}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	req := Request{Messages: fromSchemaMessages(input)}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}

	reply, err := m.completer.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	msg := schema.AssistantMessage(reply.Content, nil)
	if reply.FinishReason != "" {
		msg.ResponseMeta = &schema.ResponseMeta{FinishReason: reply.FinishReason}
	}
	return msg, nil
}

// Stream yields the full reply as a single chunk.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func toSchemaMessages(msgs []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content})
	}
	return out
}

func fromSchemaMessages(msgs []*schema.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
