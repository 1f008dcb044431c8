package disaster

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is an active or recovering disaster tracked by the platform.
type Event struct {
	ID                 string      `json:"id"`
	Type               string      `json:"type"`
	Location           string      `json:"location"`
	Coordinates        Coordinates `json:"coordinates"`
	Severity           RiskLevel   `json:"severity"`
	StartDate          string      `json:"start_date"`
	Status             string      `json:"status"`
	AffectedPopulation int         `json:"affected_population"`
	AidStreams         []string    `json:"aid_streams"`
}

// Seed provides the demo disaster list.
func Seed() []Event {
	return []Event{
		{
			ID:                 "disaster_1",
			Type:               "flood",
			Location:           "Lagos, Nigeria",
			Coordinates:        Coordinates{Lat: 6.5244, Lng: 3.3792},
			Severity:           RiskHigh,
			StartDate:          "2025-05-01T00:00:00Z",
			Status:             "active",
			AffectedPopulation: 250000,
			AidStreams:         []string{"stream_123", "stream_456"},
		},
		{
			ID:                 "disaster_2",
			Type:               "cyclone",
			Location:           "Mumbai, India",
			Coordinates:        Coordinates{Lat: 19.0760, Lng: 72.8777},
			Severity:           RiskMedium,
			StartDate:          "2025-05-03T00:00:00Z",
			Status:             "active",
			AffectedPopulation: 180000,
			AidStreams:         []string{"stream_789"},
		},
		{
			ID:                 "disaster_3",
			Type:               "earthquake",
			Location:           "Kathmandu, Nepal",
			Coordinates:        Coordinates{Lat: 27.7172, Lng: 85.3240},
			Severity:           RiskHigh,
			StartDate:          "2025-04-28T00:00:00Z",
			Status:             "recovery",
			AffectedPopulation: 320000,
			AidStreams:         []string{"stream_abc", "stream_def"},
		},
	}
}
