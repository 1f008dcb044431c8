// Package mentalhealth produces supportive replies grounded in the static
// resource collection.
package mentalhealth

import (
	"context"
	"errors"
	"log"

	"github.com/cloudwego/eino/components/model"

	"github.com/guardianlink/backend/internal/analysis/topic"
	"github.com/guardianlink/backend/internal/model/chat"
	"github.com/guardianlink/backend/internal/retrieval"
	"github.com/guardianlink/backend/internal/service/ai"
)

// FallbackMessage is returned whenever a reply cannot be generated.
const FallbackMessage = "I'm here to support you. While I'm having some technical difficulties, please know that your feelings are valid and important. If you're in crisis, please reach out to a mental health professional or crisis hotline."

const (
	pipelineName = "mental_health"
	temperature  = 0.7
	maxTokens    = 500
)

var errBlankReply = errors.New("model returned a blank reply")

// FallbackRecorder counts substitutions made when generation fails.
type FallbackRecorder interface {
	RecordFallback(pipeline, stage string)
}

// Result carries the reply text and the topics it was grounded on.
type Result struct {
	Text     string
	Topics   []topic.Tag
	Fallback bool
}

type Orchestrator struct {
	retriever *retrieval.Retriever
	chain     *ai.Chain
	fallbacks FallbackRecorder
}

// NewOrchestrator builds the pipeline. With a nil chatModel every reply is the
// fallback message.
func NewOrchestrator(ctx context.Context, retriever *retrieval.Retriever, chatModel model.BaseChatModel, fallbacks FallbackRecorder) (*Orchestrator, error) {
	o := &Orchestrator{retriever: retriever, fallbacks: fallbacks}
	if chatModel == nil {
		return o, nil
	}

	chain, err := ai.NewChain(ctx, "mental health", chatModel, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	o.chain = chain
	return o, nil
}

// Process returns supportive text for message. It never fails.
func (o *Orchestrator) Process(ctx context.Context, message string, history []chat.Message, language string) string {
	return o.Reply(ctx, message, history, language).Text
}

// Reply is Process with the classified topics attached.
func (o *Orchestrator) Reply(ctx context.Context, message string, history []chat.Message, language string) Result {
	tags := topic.Classify(message)
	grounding := o.retriever.Retrieve(tags, language)

	text, err := o.generate(ctx, message, grounding, history)
	if err != nil {
		log.Printf("[mental-health] reply generation failed, use fallback: %v", err)
		if o.fallbacks != nil {
			o.fallbacks.RecordFallback(pipelineName, "reply")
		}
		return Result{Text: FallbackMessage, Topics: tags, Fallback: true}
	}

	return Result{Text: text, Topics: tags}
}

func (o *Orchestrator) generate(ctx context.Context, message, grounding string, history []chat.Message) (string, error) {
	if o.chain == nil {
		return "", errors.New("completion provider not configured")
	}

	text, err := o.chain.Run(ctx, map[string]any{
		"context": grounding,
		"history": formatHistory(history),
		"message": message,
	}, temperature, maxTokens)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errBlankReply
	}
	return text, nil
}
