package analysis

// Fallback is the fixed assessment used when the model cannot produce one.
func Fallback() Assessment {
	return Assessment{
		Score:              50,
		Summary:            "Automated fallback: Unable to analyze via model; showing basic summary.",
		Strengths:          []string{"Provided resume text parsed successfully."},
		Weaknesses:         []string{"AI analysis failed; results limited."},
		MarketOutlook:      "N/A",
		JobRecommendations: []JobRecommendation{},
	}
}
