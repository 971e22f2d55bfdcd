package engine

import "sort"

// Input pairs a task snapshot with the whole-day age of its most recent
// completion (nil when never done).
type Input struct {
	Task      Task
	DaysSince *int
}

// RankedItem is a visible task together with its verdict.
type RankedItem struct {
	Task    Task
	Verdict Verdict
}

// Rank evaluates every task independently, keeps the visible ones and
// orders them score descending with (room, name) as the stable tie
// break. limit <= 0 means no truncation. Pure function of its inputs.
func Rank(items []Input, ctx EnvironmentContext, limit int) []RankedItem {
	ranked := make([]RankedItem, 0, len(items))
	for _, in := range items {
		v := Evaluate(in.Task, in.DaysSince, ctx)
		if !v.Visible {
			continue
		}
		ranked = append(ranked, RankedItem{Task: in.Task, Verdict: v})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Verdict.Score != b.Verdict.Score {
			return a.Verdict.Score > b.Verdict.Score
		}
		if a.Task.Room != b.Task.Room {
			return a.Task.Room < b.Task.Room
		}
		return a.Task.Name < b.Task.Name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Tier buckets a score for display grouping.
func Tier(score int) string {
	switch {
	case score >= 700:
		return "P1"
	case score >= 400:
		return "P2"
	default:
		return "P3"
	}
}
