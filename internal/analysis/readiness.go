package analysis

// FormBand buckets TSB into a qualitative freshness level
type FormBand string

const (
	FormDeepFatigue FormBand = "deep_fatigue"
	FormFatigued    FormBand = "fatigued"
	FormNeutral     FormBand = "neutral"
	FormFresh       FormBand = "fresh"
	FormVeryFresh   FormBand = "very_fresh"
)

// FitnessBand buckets CTL into a qualitative fitness level
type FitnessBand string

const (
	FitnessBuilding FitnessBand = "building"
	FitnessModerate FitnessBand = "moderate"
	FitnessHigh     FitnessBand = "high"
	FitnessElite    FitnessBand = "elite"
)

// ReadinessStatus is the overall race-readiness verdict
type ReadinessStatus string

const (
	StatusInsufficientData ReadinessStatus = "insufficient_data"
	StatusNeedsRecovery    ReadinessStatus = "needs_recovery"
	StatusContinueTraining ReadinessStatus = "continue_training"
	StatusRaceCapable      ReadinessStatus = "race_capable"
	StatusRaceReady        ReadinessStatus = "race_ready"
)

// ReadinessReport is advisory output; it never feeds back into the load model
type ReadinessReport struct {
	Score       int
	Status      ReadinessStatus
	FormBand    FormBand
	FitnessBand FitnessBand
	Fitness     float64
	Fatigue     float64
	Form        float64
	Guidance    string
}

// formBand returns the band for a TSB value and its score contribution
func formBand(tsb float64) (FormBand, int) {
	switch {
	case tsb > 25:
		return FormVeryFresh, 40 // possibly detrained
	case tsb > 5:
		return FormFresh, 55
	case tsb >= -10:
		return FormNeutral, 35
	case tsb >= -30:
		return FormFatigued, 20
	default:
		return FormDeepFatigue, 5
	}
}

// fitnessBand returns the band for a CTL value and its score contribution
func fitnessBand(ctl float64) (FitnessBand, int) {
	switch {
	case ctl >= 90:
		return FitnessElite, 45
	case ctl >= 60:
		return FitnessHigh, 35
	case ctl >= 30:
		return FitnessModerate, 20
	default:
		return FitnessBuilding, 5
	}
}

func readinessStatus(score int) ReadinessStatus {
	switch {
	case score >= 80:
		return StatusRaceReady
	case score >= 60:
		return StatusRaceCapable
	case score >= 40:
		return StatusContinueTraining
	default:
		return StatusNeedsRecovery
	}
}

// FormDescription returns a human-readable description of a form band
func FormDescription(band FormBand) string {
	switch band {
	case FormVeryFresh:
		return "Very fresh (possibly detrained)"
	case FormFresh:
		return "Fresh and ready to race"
	case FormNeutral:
		return "Neutral - good for training"
	case FormFatigued:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}

var statusGuidance = map[ReadinessStatus]string{
	StatusInsufficientData: "Not enough training history to judge readiness yet.",
	StatusNeedsRecovery:    "Prioritise rest and easy sessions until fatigue drops.",
	StatusContinueTraining: "Keep building load; a race now would be below potential.",
	StatusRaceCapable:      "You can race well; a short taper would sharpen form.",
	StatusRaceReady:        "Fitness is high and fatigue is low - race ready.",
}

// AssessReadiness scores race readiness from the latest fitness, fatigue and form
func AssessReadiness(fitness, fatigue, form float64) ReadinessReport {
	fb, formPts := formBand(form)
	cb, fitnessPts := fitnessBand(fitness)

	score := min(max(formPts+fitnessPts, 0), 100)
	status := readinessStatus(score)

	return ReadinessReport{
		Score:       score,
		Status:      status,
		FormBand:    fb,
		FitnessBand: cb,
		Fitness:     round1(fitness),
		Fatigue:     round1(fatigue),
		Form:        round1(form),
		Guidance:    FormDescription(fb) + ". " + statusGuidance[status],
	}
}

// ReadinessFromTrend assesses the last day of a trend. An empty trend is a
// valid state reported as StatusInsufficientData.
func ReadinessFromTrend(metrics []FitnessMetrics) ReadinessReport {
	if len(metrics) == 0 {
		return ReadinessReport{
			Status:   StatusInsufficientData,
			Guidance: statusGuidance[StatusInsufficientData],
		}
	}
	latest := Latest(metrics)
	return AssessReadiness(latest.CTL, latest.ATL, latest.TSB)
}
