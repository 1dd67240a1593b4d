// Package insights summarizes the complaint list for the admin dashboard.
package insights

import "unmute-go/internal/types"

type Insight struct {
	Total             int            `json:"total"`
	Pending           int            `json:"pending"`
	PendingRate       float64        `json:"pending_rate"`
	AudioShare        float64        `json:"audio_share"`
	CategoryCounts    map[string]int `json:"category_counts"`
	PendingByCategory map[string]int `json:"pending_by_category"`
	Uncategorized     int            `json:"uncategorized"`
}

func Aggregate(complaints []types.Complaint) Insight {
	cats := map[string]int{}
	pendingByCat := map[string]int{}
	pending, audio, processing := 0, 0, 0
	for _, c := range complaints {
		if c.IsAudio {
			audio++
		}
		isPending := c.Status == types.StatusPending
		if isPending {
			pending++
		}
		if c.Category == types.CategoryPlaceholder || c.Category == "" {
			processing++
			continue
		}
		cats[c.Category]++
		if isPending {
			pendingByCat[c.Category]++
		}
	}
	ins := Insight{
		Total:             len(complaints),
		Pending:           pending,
		CategoryCounts:    cats,
		PendingByCategory: pendingByCat,
		Uncategorized:     processing,
	}
	if ins.Total > 0 {
		ins.PendingRate = float64(pending) / float64(ins.Total)
		ins.AudioShare = float64(audio) / float64(ins.Total)
	}
	return ins
}
