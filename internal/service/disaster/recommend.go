package disaster

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/guardianlink/backend/internal/model/disaster"
	"github.com/guardianlink/backend/internal/service/ai"
	"github.com/guardianlink/backend/internal/service/completion"
)

const (
	recommendTemperature = 0.3
	maxRecommendations   = 5

	recommendSystemPrompt = "You are an AI disaster management expert. Generate 3-5 specific, actionable recommendations for the following disaster scenario. Return ONLY a JSON object with a 'recommendations' field containing an array of strings."
	recommendUserPrompt   = `Location: {location}
Disaster type: {disaster_type}
Risk level: {risk_level}
IoT data: {iot_data}

Please provide specific, actionable recommendations for disaster preparedness and response.`
)

// FallbackRecommendations is returned when no usable recommendation can be produced.
var FallbackRecommendations = []string{
	"Establish evacuation routes",
	"Stockpile emergency supplies",
	"Create communication plan",
}

// Recommender returns fixture recommendations or asks the model for new ones.
type Recommender struct {
	chain     *ai.Chain
	fallbacks FallbackRecorder
}

func NewRecommender(ctx context.Context, chatModel model.BaseChatModel, fallbacks FallbackRecorder) (*Recommender, error) {
	r := &Recommender{fallbacks: fallbacks}
	if chatModel == nil {
		return r, nil
	}

	chain, err := ai.NewChain(ctx, "recommendations", chatModel, recommendSystemPrompt, recommendUserPrompt)
	if err != nil {
		return nil, err
	}
	r.chain = chain
	return r, nil
}

// Recommend never fails. The returned slice is owned by the caller.
func (r *Recommender) Recommend(ctx context.Context, location, category string, level disaster.RiskLevel, sensors map[string]string) ([]string, Source) {
	if profile, ok := disaster.LookupProfile(disaster.NormalizeKey(location), disaster.NormalizeKey(category)); ok {
		return profile.Recommendations, SourceFixture
	}

	if r.chain == nil {
		r.recordFallback("recommendations")
		return fallbackList(), SourceFallback
	}

	if category = strings.TrimSpace(category); category == "" {
		category = "unknown"
	}
	sensorJSON, _ := json.Marshal(sensors)

	reply, err := r.chain.Run(ctx, map[string]any{
		"location":      strings.TrimSpace(location),
		"disaster_type": category,
		"risk_level":    string(level),
		"iot_data":      string(sensorJSON),
	}, recommendTemperature, maxTokens)
	if err != nil {
		log.Printf("[recommend] generation failed for location=%s, use fallback: %v", location, err)
		r.recordFallback("recommendations")
		return fallbackList(), SourceFallback
	}

	if recs, ok := parseRecommendations(reply); ok {
		if len(recs) > 0 {
			return recs, SourceModel
		}
	} else if recs := splitRecommendationLines(reply); len(recs) > 0 {
		r.recordFallback("recommendations_parse")
		return recs, SourceHeuristic
	}

	log.Printf("[recommend] reply for location=%s had no usable items, use fallback", location)
	r.recordFallback("recommendations")
	return fallbackList(), SourceFallback
}

func (r *Recommender) recordFallback(stage string) {
	if r.fallbacks != nil {
		r.fallbacks.RecordFallback(pipelineName, stage)
	}
}

func fallbackList() []string {
	return append([]string{}, FallbackRecommendations...)
}

// parseRecommendations accepts {"recommendations": [...]} or a bare array.
// ok is false when the reply holds neither.
func parseRecommendations(reply string) ([]string, bool) {
	if raw, ok := completion.ExtractJSON(reply, '{', '}'); ok {
		var payload struct {
			Recommendations []string `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			return trimRecommendations(payload.Recommendations), true
		}
	}

	if raw, ok := completion.ExtractJSON(reply, '[', ']'); ok {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return trimRecommendations(list), true
		}
	}
	return nil, false
}

func trimRecommendations(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}

// splitRecommendationLines treats every non-structural line of a free-form
// reply as one recommendation.
func splitRecommendationLines(reply string) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || isJSONPunctuation(line) {
			continue
		}

		line = strings.TrimSpace(stripListMarker(line))
		line = strings.TrimSpace(strings.Trim(strings.TrimSuffix(line, ","), `"`))
		if line == "" {
			continue
		}

		out = append(out, line)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}

func isJSONPunctuation(line string) bool {
	return strings.HasPrefix(line, "{") || strings.HasSuffix(line, "}") ||
		strings.HasPrefix(line, "[") || strings.HasSuffix(line, "]")
}

func stripListMarker(line string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return line[len(marker):]
		}
	}

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		return line[digits+1:]
	}
	return line
}
