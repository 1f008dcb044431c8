package disaster

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/guardianlink/backend/internal/model/disaster"
	"github.com/guardianlink/backend/internal/service/completion"
)

type scriptedCompleter struct {
	replies []string
	err     error
	calls   int
	reqs    []completion.Request
}

func (s *scriptedCompleter) Complete(_ context.Context, req completion.Request) (*completion.Reply, error) {
	s.calls++
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	reply := ""
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	return &completion.Reply{Content: reply}, nil
}

type countingRecorder struct {
	stages []string
}

func (c *countingRecorder) RecordFallback(_ string, stage string) {
	c.stages = append(c.stages, stage)
}

func newOrchestrator(t *testing.T, c completion.Completer, rec FallbackRecorder) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(context.Background(), completion.NewChatModel(c), rec)
	require.NoError(t, err)
	return o
}

func TestAssessFixture(t *testing.T) {
	stub := &scriptedCompleter{}
	o := newOrchestrator(t, stub, nil)

	got := o.risk.Assess(context.Background(), "Lagos", "flood")
	assert.Equal(t, model.RiskHigh, got.Level)
	assert.Equal(t, SourceFixture, got.Source)
	assert.Empty(t, got.Error)
	assert.Zero(t, stub.calls)
}

func TestAssessAggregatesCategories(t *testing.T) {
	o := newOrchestrator(t, &scriptedCompleter{}, nil)

	assert.Equal(t, model.RiskHigh, o.risk.Assess(context.Background(), "Lagos", "").Level)
	assert.Equal(t, model.RiskHigh, o.risk.Assess(context.Background(), "LAGOS", "volcano").Level)
	assert.Equal(t, model.RiskHigh, o.risk.Assess(context.Background(), " mumbai ", "").Level)
	assert.Equal(t, model.RiskMedium, o.risk.Assess(context.Background(), "mumbai", "Flood").Level)
}

func TestAssessEmptyLocation(t *testing.T) {
	stub := &scriptedCompleter{}
	o := newOrchestrator(t, stub, nil)

	got := o.risk.Assess(context.Background(), "  ", "flood")
	assert.Equal(t, model.RiskUnknown, got.Level)
	assert.Equal(t, "location not provided", got.Error)
	assert.Zero(t, stub.calls)
}

func TestAssessUnknownLocationUsesModel(t *testing.T) {
	stub := &scriptedCompleter{replies: []string{`{"risk_level": "Low"}`}}
	o := newOrchestrator(t, stub, nil)

	got := o.risk.Assess(context.Background(), "Nowhere", "flood")
	assert.Equal(t, model.RiskLow, got.Level)
	assert.Equal(t, SourceModel, got.Source)
	require.Equal(t, 1, stub.calls)

	req := stub.reqs[0]
	assert.InDelta(t, riskTemperature, req.Temperature, 0.0001)
	assert.Equal(t, 1000, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, riskSystemPrompt, req.Messages[0].Content)
	assert.Equal(t, "Location: Nowhere, Disaster type: flood", req.Messages[1].Content)
}

func TestAssessUnknownLocationWithoutCategory(t *testing.T) {
	stub := &scriptedCompleter{replies: []string{`{"risk_level": "high"}`}}
	o := newOrchestrator(t, stub, nil)

	o.risk.Assess(context.Background(), "Atlantis", "")
	assert.Equal(t, "Location: Atlantis, Disaster type: any", stub.reqs[0].Messages[1].Content)
}

func TestAssessTextScan(t *testing.T) {
	cases := []struct {
		reply string
		want  model.RiskLevel
	}{
		{"The risk is HIGH because of medium rainfall", model.RiskHigh},
		{"I would say medium overall.", model.RiskMedium},
		{"Looks calm.", model.RiskLow},
		{`{"risk_level": "catastrophic"} but medium`, model.RiskMedium},
	}

	for _, tc := range cases {
		rec := &countingRecorder{}
		o := newOrchestrator(t, &scriptedCompleter{replies: []string{tc.reply}}, rec)

		got := o.risk.Assess(context.Background(), "Nowhere", "flood")
		assert.Equal(t, tc.want, got.Level, tc.reply)
		assert.Equal(t, SourceHeuristic, got.Source, tc.reply)
		assert.Equal(t, []string{"risk_parse"}, rec.stages)
	}
}

func TestAssessJSONWithoutFieldIsMedium(t *testing.T) {
	o := newOrchestrator(t, &scriptedCompleter{replies: []string{`{"level": "high"}`}}, nil)

	got := o.risk.Assess(context.Background(), "Nowhere", "flood")
	assert.Equal(t, model.RiskMedium, got.Level)
	assert.Equal(t, SourceModel, got.Source)
}

func TestAssessTransportFailureDegradesToMedium(t *testing.T) {
	rec := &countingRecorder{}
	stub := &scriptedCompleter{err: &completion.UpstreamError{Op: "chat completion", StatusCode: 500, Body: "down"}}
	o := newOrchestrator(t, stub, rec)

	got := o.risk.Assess(context.Background(), "Nowhere", "flood")
	assert.Equal(t, model.RiskMedium, got.Level)
	assert.Equal(t, SourceFallback, got.Source)
	assert.NotEmpty(t, got.Error)
	assert.Equal(t, []string{"risk"}, rec.stages)
}

func TestProcessLagosFlood(t *testing.T) {
	stub := &scriptedCompleter{}
	o := newOrchestrator(t, stub, nil)

	got := o.Process(context.Background(), "lagos", "flood")

	assert.Equal(t, model.RiskHigh, got.Level)
	assert.Equal(t, []string{
		"Establish evacuation routes",
		"Stockpile water purification supplies",
		"Deploy flood barriers",
	}, got.Recommendations)
	assert.Equal(t, "3.2m", got.SensorData["water_level"])
	assert.Zero(t, stub.calls)
}

func TestProcessUnknownPairAsksForRecommendations(t *testing.T) {
	stub := &scriptedCompleter{replies: []string{
		`{"risk_level": "high"}`,
		"```json\n{\"recommendations\": [\"Move to higher ground\", \"Charge radios\", \" \"]}\n```",
	}}
	o := newOrchestrator(t, stub, nil)

	got := o.Process(context.Background(), "Nowhere", "flood")

	assert.Equal(t, model.RiskHigh, got.Level)
	assert.Equal(t, []string{"Move to higher ground", "Charge radios"}, got.Recommendations)
	assert.NotNil(t, got.SensorData)
	assert.Empty(t, got.SensorData)
	require.Equal(t, 2, stub.calls)
	assert.InDelta(t, recommendTemperature, stub.reqs[1].Temperature, 0.0001)
	assert.Equal(t, 1000, stub.reqs[1].MaxTokens)
	assert.Contains(t, stub.reqs[1].Messages[1].Content, "Risk level: high")
	assert.Contains(t, stub.reqs[1].Messages[1].Content, "IoT data: {}")
}

func TestProcessKnownLocationUnknownCategory(t *testing.T) {
	stub := &scriptedCompleter{replies: []string{`["Check shelters"]`}}
	o := newOrchestrator(t, stub, nil)

	got := o.Process(context.Background(), "Lagos", "")

	assert.Equal(t, model.RiskHigh, got.Level)
	assert.Equal(t, []string{"Check shelters"}, got.Recommendations)
	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, stub.reqs[0].Messages[1].Content, "Disaster type: unknown")
}

func TestProcessRecommendationHeuristic(t *testing.T) {
	reply := "Here is what to do:\n1. Secure water\n- Map shelters\n{\nnot json\n}\n* Train volunteers\n\n4) Check radios\nCoordinate with NGOs\nExtra line"
	rec := &countingRecorder{}
	o := newOrchestrator(t, &scriptedCompleter{replies: []string{`{"risk_level":"low"}`, reply}}, rec)

	got := o.Process(context.Background(), "Nowhere", "drought")

	assert.Equal(t, []string{
		"Here is what to do:",
		"Secure water",
		"Map shelters",
		"not json",
		"Train volunteers",
	}, got.Recommendations)
	assert.Equal(t, []string{"recommendations_parse"}, rec.stages)
}

func TestProcessTotalFailureUsesFallbacks(t *testing.T) {
	stub := &scriptedCompleter{err: errors.New("connection refused")}
	o := newOrchestrator(t, stub, nil)

	got := o.Process(context.Background(), "Nowhere", "flood")

	assert.Equal(t, model.RiskMedium, got.Level)
	assert.NotEmpty(t, got.Error)
	assert.Equal(t, FallbackRecommendations, got.Recommendations)
	assert.Equal(t, 2, stub.calls)
}

func TestProcessEmptyReplyUsesFallbackRecommendations(t *testing.T) {
	o := newOrchestrator(t, &scriptedCompleter{replies: []string{`{"risk_level":"low"}`, `{"recommendations": []}`}}, nil)

	got := o.Process(context.Background(), "Nowhere", "flood")
	assert.Equal(t, FallbackRecommendations, got.Recommendations)
}

func TestProcessWithoutProvider(t *testing.T) {
	o, err := NewOrchestrator(context.Background(), nil, nil)
	require.NoError(t, err)

	got := o.Process(context.Background(), "Nowhere", "")
	assert.Equal(t, model.RiskMedium, got.Level)
	assert.Equal(t, FallbackRecommendations, got.Recommendations)

	fixture := o.Process(context.Background(), "mumbai", "cyclone")
	assert.Equal(t, model.RiskHigh, fixture.Level)
	assert.Len(t, fixture.Recommendations, 3)
}

func TestFallbackListIsNotShared(t *testing.T) {
	o, err := NewOrchestrator(context.Background(), nil, nil)
	require.NoError(t, err)

	got := o.Process(context.Background(), "Nowhere", "")
	got.Recommendations[0] = "mutated"
	assert.Equal(t, "Establish evacuation routes", FallbackRecommendations[0])
}

func TestPredictResponseShape(t *testing.T) {
	o := newOrchestrator(t, &scriptedCompleter{}, nil)

	body, err := json.Marshal(o.Predict(context.Background(), "Lagos", ""))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "Lagos", decoded["location"])
	assert.Nil(t, decoded["disaster_type"])
	assert.Contains(t, decoded, "disaster_type")
	assert.Contains(t, decoded, "timestamp")
	assert.Contains(t, decoded, "recommendations")

	assessment, ok := decoded["risk_assessment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "high", assessment["risk_level"])
	assert.Equal(t, map[string]any{}, assessment["iot_data"])
}
