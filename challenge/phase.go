package challenge

import "math"

// Phase is the stage of the challenge an equity value falls in.
type Phase string

const (
	Phase1 Phase = "Phase1"
	Phase2 Phase = "Phase2"
	Master Phase = "Master"
)

// Status is the resolved phase position for one equity value. Target
// amounts are in account currency; progress values are percentages in
// [0, 100].
type Status struct {
	Phase           Phase
	Progress        float64
	Target          float64
	Phase1Target    float64
	Phase2Target    float64
	Phase1Progress  float64
	Phase2Progress  float64
	StartingBalance float64
}

// Resolve places equity within the challenge described by s.
func Resolve(s Settings, equity float64) Status {
	equity = num(equity)
	base := num(s.AccountBalance)
	p1, p2 := s.Targets()

	switch s.Type() {
	case ZeroStep:
		m := s.MasterBalance()
		return Status{
			Phase:           Master,
			Progress:        100,
			Target:          m,
			StartingBalance: m,
		}

	case OneStep:
		t1 := base * (1 + p1/100)
		st := Status{
			Phase1Target:    t1,
			Target:          t1,
			StartingBalance: base,
		}
		if equity >= t1 {
			st.Phase = Master
			st.Progress = 100
			st.StartingBalance = s.MasterBalance()
		} else {
			st.Phase = Phase1
			st.Progress = progress(equity, base, t1)
		}
		st.Phase1Progress = st.Progress
		return st
	}

	t1 := base * (1 + p1/100)
	t2 := t1 * (1 + p2/100)
	st := Status{
		Phase1Target:    t1,
		Phase2Target:    t2,
		StartingBalance: base,
		Phase1Progress:  progress(equity, base, t1),
		Phase2Progress:  progress(equity, t1, t2),
	}
	switch {
	case equity >= t2:
		st.Phase = Master
		st.Progress = 100
		st.Target = t2
		st.StartingBalance = s.MasterBalance()
	case equity >= t1:
		st.Phase = Phase2
		st.Progress = st.Phase2Progress
		st.Target = t2
	default:
		st.Phase = Phase1
		st.Progress = st.Phase1Progress
		st.Target = t1
	}
	return st
}

// progress is the position of x within [lo, hi] as a percentage.
func progress(x, lo, hi float64) float64 {
	if x >= hi {
		return 100
	}
	if x <= lo {
		return 0
	}
	return Clamp(100 * (x - lo) / (hi - lo))
}

// Clamp limits a percentage to [0, 100]; NaN becomes 0.
func Clamp(pct float64) float64 {
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
