package disaster

import "sort"

// Profile is the stored risk knowledge for one (location, category) pair.
type Profile struct {
	Risk            RiskLevel
	Recommendations []string
}

var riskTable = map[string]map[string]Profile{
	"lagos": {
		"flood": {
			Risk: RiskHigh,
			Recommendations: []string{
				"Establish evacuation routes",
				"Stockpile water purification supplies",
				"Deploy flood barriers",
			},
		},
		"earthquake": {Risk: RiskLow, Recommendations: []string{}},
	},
	"mumbai": {
		"flood": {
			Risk: RiskMedium,
			Recommendations: []string{
				"Prepare drainage systems",
				"Stockpile emergency supplies",
				"Create emergency response teams",
			},
		},
		"cyclone": {
			Risk: RiskHigh,
			Recommendations: []string{
				"Secure structures",
				"Establish evacuation centers",
				"Deploy early warning systems",
			},
		},
	},
}

var sensorTable = map[string]map[string]map[string]string{
	"lagos": {
		"flood": {
			"water_level":       "3.2m",
			"rainfall":          "120mm/day",
			"drainage_capacity": "65%",
		},
	},
	"mumbai": {
		"cyclone": {
			"wind_speed": "80km/h",
			"pressure":   "950hPa",
			"rainfall":   "90mm/day",
		},
		"flood": {
			"water_level":       "1.8m",
			"rainfall":          "85mm/day",
			"drainage_capacity": "78%",
		},
	},
}

// LookupProfile returns the fixture for a normalized (location, category) pair.
func LookupProfile(location, category string) (Profile, bool) {
	categories, ok := riskTable[location]
	if !ok {
		return Profile{}, false
	}
	profile, ok := categories[category]
	if !ok {
		return Profile{}, false
	}
	profile.Recommendations = append([]string{}, profile.Recommendations...)
	return profile, true
}

// KnownLocation reports whether the risk table has any entry for location.
func KnownLocation(location string) bool {
	_, ok := riskTable[location]
	return ok
}

// LocationProfiles returns a location's profiles ordered by category name.
func LocationProfiles(location string) []Profile {
	categories := riskTable[location]
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Profile, 0, len(names))
	for _, name := range names {
		out = append(out, categories[name])
	}
	return out
}

// LookupSensors returns a copy of the sensor readings for a normalized pair.
// The result is never nil.
func LookupSensors(location, category string) map[string]string {
	out := map[string]string{}
	for k, v := range sensorTable[location][category] {
		out[k] = v
	}
	return out
}
