// Package disaster assesses disaster risk for a location and composes
// preparedness recommendations.
package disaster

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/guardianlink/backend/internal/model/disaster"
	"github.com/guardianlink/backend/internal/service/ai"
	"github.com/guardianlink/backend/internal/service/completion"
)

// Source records which stage produced a value.
type Source string

const (
	SourceFixture   Source = "fixture"
	SourceModel     Source = "model"
	SourceHeuristic Source = "heuristic"
	SourceFallback  Source = "fallback"
)

const (
	pipelineName = "disaster"
	maxTokens    = 1000
)

const (
	riskTemperature = 0.2

	riskSystemPrompt = "You are an AI disaster risk assessor. Assess the risk level (low, medium, high) for the following location and disaster type. Return ONLY a JSON object with a 'risk_level' field."
	riskUserPrompt   = "Location: {location}, Disaster type: {disaster_type}"
)

var errNoProvider = errors.New("completion provider not configured")

// FallbackRecorder counts substitutions made when a stage degrades.
type FallbackRecorder interface {
	RecordFallback(pipeline, stage string)
}

// RiskResult is the outcome of one lookup. Error is set when the remote stage
// failed and Level holds the substituted value.
type RiskResult struct {
	Level  disaster.RiskLevel
	Source Source
	Error  string
}

// RiskLookup answers from the fixture table first and asks the model only for
// locations the table does not know.
type RiskLookup struct {
	chain     *ai.Chain
	fallbacks FallbackRecorder
}

// NewRiskLookup builds the lookup. A nil chatModel leaves the remote stage
// permanently degraded.
func NewRiskLookup(ctx context.Context, chatModel model.BaseChatModel, fallbacks FallbackRecorder) (*RiskLookup, error) {
	r := &RiskLookup{fallbacks: fallbacks}
	if chatModel == nil {
		return r, nil
	}

	chain, err := ai.NewChain(ctx, "risk", chatModel, riskSystemPrompt, riskUserPrompt)
	if err != nil {
		return nil, err
	}
	r.chain = chain
	return r, nil
}

// Assess returns the risk level for location and the optional category.
func (r *RiskLookup) Assess(ctx context.Context, location, category string) RiskResult {
	key := disaster.NormalizeKey(location)
	if key == "" {
		return RiskResult{Level: disaster.RiskUnknown, Source: SourceFallback, Error: "location not provided"}
	}

	if result, ok := r.local(key, disaster.NormalizeKey(category)); ok {
		return result
	}
	return r.remote(ctx, strings.TrimSpace(location), strings.TrimSpace(category))
}

func (r *RiskLookup) local(location, category string) (RiskResult, bool) {
	if !disaster.KnownLocation(location) {
		return RiskResult{}, false
	}

	if category != "" {
		if profile, ok := disaster.LookupProfile(location, category); ok {
			return RiskResult{Level: profile.Risk, Source: SourceFixture}, true
		}
	}

	level := disaster.RiskUnknown
	for _, profile := range disaster.LocationProfiles(location) {
		level = disaster.Max(level, profile.Risk)
		if level == disaster.RiskHigh {
			break
		}
	}
	return RiskResult{Level: level, Source: SourceFixture}, true
}

func (r *RiskLookup) remote(ctx context.Context, location, category string) RiskResult {
	if category == "" {
		category = disaster.AnyCategory
	}

	reply, err := r.ask(ctx, location, category)
	if err != nil {
		log.Printf("[risk] remote assessment failed for location=%s, use medium: %v", location, err)
		r.recordFallback("risk")
		return RiskResult{Level: disaster.RiskMedium, Source: SourceFallback, Error: err.Error()}
	}

	if level, ok := parseRiskReply(reply); ok {
		return RiskResult{Level: level, Source: SourceModel}
	}

	log.Printf("[risk] reply for location=%s is not structured, scan text", location)
	r.recordFallback("risk_parse")
	return RiskResult{Level: scanRiskText(reply), Source: SourceHeuristic}
}

func (r *RiskLookup) ask(ctx context.Context, location, category string) (string, error) {
	if r.chain == nil {
		return "", errNoProvider
	}
	return r.chain.Run(ctx, map[string]any{
		"location":      location,
		"disaster_type": category,
	}, riskTemperature, maxTokens)
}

func (r *RiskLookup) recordFallback(stage string) {
	if r.fallbacks != nil {
		r.fallbacks.RecordFallback(pipelineName, stage)
	}
}

type riskPayload struct {
	RiskLevel *string `json:"risk_level"`
}

// parseRiskReply reads {"risk_level": "..."}; a valid object without the
// field counts as medium.
func parseRiskReply(reply string) (disaster.RiskLevel, bool) {
	raw, ok := completion.ExtractJSON(reply, '{', '}')
	if !ok {
		return "", false
	}

	var payload riskPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", false
	}
	if payload.RiskLevel == nil {
		return disaster.RiskMedium, true
	}

	level, ok := disaster.ParseRiskLevel(*payload.RiskLevel)
	if !ok || level == disaster.RiskUnknown {
		return "", false
	}
	return level, true
}

// scanRiskText checks "high" before "medium"; anything else is low.
func scanRiskText(reply string) disaster.RiskLevel {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "high"):
		return disaster.RiskHigh
	case strings.Contains(lower, "medium"):
		return disaster.RiskMedium
	default:
		return disaster.RiskLow
	}
}
