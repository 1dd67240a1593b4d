package insights

import "fmt"

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// escalateShare is the pending share of a category above which it is flagged.
const escalateShare = 0.35

func Generate(ins Insight) ActionCard {
	worst := ""
	most := 0
	for cat, n := range ins.PendingByCategory {
		if n > most || (n == most && cat < worst) {
			most = n
			worst = cat
		}
	}
	if ins.Total > 0 && worst != "" {
		share := float64(most) / float64(ins.Total)
		if share >= escalateShare {
			return ActionCard{
				Insight: fmt.Sprintf("%s reports are piling up (%.0f%% of all reports unresolved)", worst, share*100),
				Action:  fmt.Sprintf("Convene the Anti-Ragging Committee on open %s cases and run deep analysis on each", worst),
				Impact:  "Faster resolution of the most common unresolved incidents",
			}
		}
	}
	return ActionCard{
		Insight: "No dominant unresolved category",
		Action:  "Keep triaging new reports as they arrive",
		Impact:  "Low immediate intervention",
	}
}
