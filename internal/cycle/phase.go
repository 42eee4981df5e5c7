package cycle

type Phase string

const (
	PhaseMenstrual  Phase = "Menstrual"
	PhaseFollicular Phase = "Follicular"
	PhaseOvulation  Phase = "Ovulation"
	PhaseLuteal     Phase = "Luteal"
)

const (
	// LutealPhaseDays places ovulation this many days before the next period.
	LutealPhaseDays = 14
	// OvulationMarginDays widens the ovulation phase on both sides of ovulation day.
	OvulationMarginDays = 3
	// FertileLeadDays is how many days before ovulation the fertile window opens.
	FertileLeadDays = 5
)

var Phases = []Phase{PhaseMenstrual, PhaseFollicular, PhaseOvulation, PhaseLuteal}

func (phase Phase) String() string {
	return string(phase)
}

// ClassifyPhase maps a 1-indexed day in the cycle to a phase. Non-positive
// days have no meaningful position and default to Follicular.
func ClassifyPhase(dayInCycle int, cycleLength int, periodLength int) Phase {
	ovulationDay := cycleLength - LutealPhaseDays
	switch {
	case dayInCycle <= 0:
		return PhaseFollicular
	case dayInCycle <= periodLength:
		return PhaseMenstrual
	case dayInCycle <= ovulationDay-OvulationMarginDays:
		return PhaseFollicular
	case dayInCycle <= ovulationDay+OvulationMarginDays:
		return PhaseOvulation
	default:
		return PhaseLuteal
	}
}

// OvulationDay is the 1-indexed day of the cycle on which ovulation is projected.
func OvulationDay(cycleLength int) int {
	return cycleLength - LutealPhaseDays
}
