package core

import "testing"

func TestSummarizeSavings(t *testing.T) {
	t.Run("totals and per goal progress", func(t *testing.T) {
		goals := []SavingsGoal{
			{ID: 1, Name: "Vacation", TargetAmount: Money{Cents: 200000}, CurrentAmount: Money{Cents: 50000}},
			{ID: 2, Name: "Emergency Fund", TargetAmount: Money{Cents: 100000}, CurrentAmount: Money{Cents: 75000}},
		}

		got := SummarizeSavings(goals)
		if got.TotalSaved.Cents != 125000 {
			t.Errorf("totalSaved = %d cents, want 125000", got.TotalSaved.Cents)
		}
		if got.TotalTarget.Cents != 300000 {
			t.Errorf("totalTarget = %d cents, want 300000", got.TotalTarget.Cents)
		}
		if got.TotalRemaining.Cents != 175000 {
			t.Errorf("totalRemaining = %d cents, want 175000", got.TotalRemaining.Cents)
		}
		if got.PercentComplete != 41.67 {
			t.Errorf("percentComplete = %v, want 41.67", got.PercentComplete)
		}
	})

	t.Run("overshot goal keeps negative remaining", func(t *testing.T) {
		goals := []SavingsGoal{
			{ID: 1, Name: "Bike", TargetAmount: Money{Cents: 50000}, CurrentAmount: Money{Cents: 60000}},
		}

		got := SummarizeSavings(goals)
		item := got.Goals[0]
		if item.RemainingAmount.Cents != -10000 {
			t.Errorf("remaining = %d cents, want -10000", item.RemainingAmount.Cents)
		}
		if item.PercentComplete != 120 {
			t.Errorf("percentComplete = %v, want 120", item.PercentComplete)
		}
	})

	t.Run("zero target guards percent", func(t *testing.T) {
		goals := []SavingsGoal{
			{ID: 1, Name: "Unplanned", TargetAmount: Money{}, CurrentAmount: Money{Cents: 100}},
		}

		got := SummarizeSavings(goals)
		if got.Goals[0].PercentComplete != 0 {
			t.Errorf("percentComplete = %v, want 0", got.Goals[0].PercentComplete)
		}
	})

	t.Run("ordered by percent complete descending", func(t *testing.T) {
		goals := []SavingsGoal{
			{ID: 1, TargetAmount: Money{Cents: 10000}, CurrentAmount: Money{Cents: 1000}},
			{ID: 2, TargetAmount: Money{Cents: 10000}, CurrentAmount: Money{Cents: 9000}},
			{ID: 3, TargetAmount: Money{Cents: 10000}, CurrentAmount: Money{Cents: 5000}},
		}

		got := SummarizeSavings(goals)
		want := []int64{2, 3, 1}
		for i, id := range want {
			if got.Goals[i].ID != id {
				t.Fatalf("position %d: got goal %d, want %d", i, got.Goals[i].ID, id)
			}
		}
	})
}
