package disaster

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/guardianlink/backend/internal/model/disaster"
)

// Orchestrator runs risk lookup, sensor lookup and recommendation generation
// in sequence. A failing stage degrades its own field only.
type Orchestrator struct {
	risk        *RiskLookup
	recommender *Recommender
	now         func() time.Time
}

// Prediction is the response body of a predict request. Category is null
// when the request did not name one.
type Prediction struct {
	Location        string                  `json:"location"`
	Category        *string                 `json:"disaster_type"`
	RiskAssessment  disaster.RiskAssessment `json:"risk_assessment"`
	Recommendations []string                `json:"recommendations"`
	Timestamp       time.Time               `json:"timestamp"`
}

func NewOrchestrator(ctx context.Context, chatModel model.BaseChatModel, fallbacks FallbackRecorder) (*Orchestrator, error) {
	risk, err := NewRiskLookup(ctx, chatModel, fallbacks)
	if err != nil {
		return nil, err
	}
	recommender, err := NewRecommender(ctx, chatModel, fallbacks)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{risk: risk, recommender: recommender, now: time.Now}, nil
}

// SensorData returns mock readings for the pair, or an empty map.
func SensorData(location, category string) map[string]string {
	return disaster.LookupSensors(disaster.NormalizeKey(location), disaster.NormalizeKey(category))
}

// Process assesses location and never returns an error.
func (o *Orchestrator) Process(ctx context.Context, location, category string) disaster.RiskAssessment {
	location = strings.TrimSpace(location)
	category = strings.TrimSpace(category)

	risk := o.risk.Assess(ctx, location, category)
	sensors := SensorData(location, category)
	recs, source := o.recommender.Recommend(ctx, location, category, risk.Level, sensors)

	log.Printf("[disaster] processed location=%s, type=%s, risk=%s (%s), recommendations=%d (%s)",
		location, category, risk.Level, risk.Source, len(recs), source)

	return disaster.RiskAssessment{
		Location:        location,
		Category:        category,
		Level:           risk.Level,
		SensorData:      sensors,
		Recommendations: recs,
		Error:           risk.Error,
	}
}

// Predict wraps Process into the response shape of the predict endpoint.
func (o *Orchestrator) Predict(ctx context.Context, location, category string) Prediction {
	assessment := o.Process(ctx, location, category)

	recs := assessment.Recommendations
	if recs == nil {
		recs = []string{}
	}

	var reported *string
	if assessment.Category != "" {
		reported = &assessment.Category
	}

	return Prediction{
		Location:        assessment.Location,
		Category:        reported,
		RiskAssessment:  assessment,
		Recommendations: recs,
		Timestamp:       o.now().UTC(),
	}
}
