package core

import (
	"sort"
	"time"
)

type SavingsGoalItem struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	TargetAmount    Money      `json:"targetAmount"`
	CurrentAmount   Money      `json:"currentAmount"`
	RemainingAmount Money      `json:"remainingAmount"`
	PercentComplete float64    `json:"percentComplete"`
	TargetDate      *time.Time `json:"targetDate,omitempty"`
	Priority        string     `json:"priority"`
}

type SavingsSummary struct {
	TotalSaved      Money             `json:"totalSaved"`
	TotalTarget     Money             `json:"totalTarget"`
	TotalRemaining  Money             `json:"totalRemaining"`
	PercentComplete float64           `json:"percentComplete"`
	Goals           []SavingsGoalItem `json:"goals"`
}

// SummarizeSavings aggregates the household's active goals, the
// target-based mirror of SummarizeDebts. Remaining amounts go negative
// when a goal is overshot; they are not clamped. Zero-target goals
// report 0% complete. Goals are ordered by percent complete, descending.
func SummarizeSavings(goals []SavingsGoal) SavingsSummary {
	var totalTarget, totalCurrent Money
	items := make([]SavingsGoalItem, 0, len(goals))

	for _, g := range goals {
		totalTarget = totalTarget.Add(g.TargetAmount)
		totalCurrent = totalCurrent.Add(g.CurrentAmount)
		items = append(items, SavingsGoalItem{
			ID:              g.ID,
			Name:            g.Name,
			TargetAmount:    g.TargetAmount,
			CurrentAmount:   g.CurrentAmount,
			RemainingAmount: g.TargetAmount.Sub(g.CurrentAmount),
			PercentComplete: PercentOf(g.CurrentAmount, g.TargetAmount),
			TargetDate:      g.TargetDate,
			Priority:        g.Priority,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PercentComplete > items[j].PercentComplete
	})

	return SavingsSummary{
		TotalSaved:      totalCurrent,
		TotalTarget:     totalTarget,
		TotalRemaining:  totalTarget.Sub(totalCurrent),
		PercentComplete: PercentOf(totalCurrent, totalTarget),
		Goals:           items,
	}
}
