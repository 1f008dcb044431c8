package disaster

import "encoding/json"

// AnyCategory is reported when a request did not name a disaster type.
const AnyCategory = "any"

// RiskAssessment is the composed result of one disaster pipeline run.
type RiskAssessment struct {
	Location        string
	Category        string
	Level           RiskLevel
	SensorData      map[string]string
	Recommendations []string
	Error           string
}

type assessmentJSON struct {
	Location        string            `json:"location"`
	Category        string            `json:"disaster_type"`
	Level           RiskLevel         `json:"risk_level"`
	SensorData      map[string]string `json:"iot_data"`
	Recommendations []string          `json:"recommendations"`
	Error           string            `json:"error,omitempty"`
}

// MarshalJSON always emits iot_data as an object and recommendations as an array.
func (a RiskAssessment) MarshalJSON() ([]byte, error) {
	out := assessmentJSON{
		Location:        a.Location,
		Category:        a.Category,
		Level:           a.Level,
		SensorData:      a.SensorData,
		Recommendations: a.Recommendations,
		Error:           a.Error,
	}
	if out.Category == "" {
		out.Category = AnyCategory
	}
	if out.SensorData == nil {
		out.SensorData = map[string]string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *RiskAssessment) UnmarshalJSON(data []byte) error {
	var in assessmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Category == AnyCategory {
		in.Category = ""
	}
	if in.SensorData == nil {
		in.SensorData = map[string]string{}
	}
	*a = RiskAssessment{
		Location:        in.Location,
		Category:        in.Category,
		Level:           in.Level,
		SensorData:      in.SensorData,
		Recommendations: in.Recommendations,
		Error:           in.Error,
	}
	return nil
}
