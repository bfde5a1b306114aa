package core

import "testing"

func TestNetSettlements(t *testing.T) {
	settlements := []Settlement{
		{FromUserID: 1, ToUserID: 2, Amount: Money{Cents: 5000}},
		{FromUserID: 2, ToUserID: 1, Amount: Money{Cents: 2000}},
	}

	t.Run("user who owes", func(t *testing.T) {
		got := NetSettlements(settlements, 1)
		if got.OwedToMe.Cents != 2000 {
			t.Errorf("owedToMe = %d cents, want 2000", got.OwedToMe.Cents)
		}
		if got.IOwe.Cents != 5000 {
			t.Errorf("iOwe = %d cents, want 5000", got.IOwe.Cents)
		}
		if got.NetBalance.Cents != -3000 {
			t.Errorf("netBalance = %d cents, want -3000", got.NetBalance.Cents)
		}
		if got.Status != StatusOwing {
			t.Errorf("status = %q, want %q", got.Status, StatusOwing)
		}
	})

	t.Run("user who is owed", func(t *testing.T) {
		got := NetSettlements(settlements, 2)
		if got.NetBalance.Cents != 3000 {
			t.Errorf("netBalance = %d cents, want 3000", got.NetBalance.Cents)
		}
		if got.Status != StatusOwed {
			t.Errorf("status = %q, want %q", got.Status, StatusOwed)
		}
	})

	t.Run("all settled", func(t *testing.T) {
		even := []Settlement{
			{FromUserID: 1, ToUserID: 2, Amount: Money{Cents: 5000}},
			{FromUserID: 2, ToUserID: 1, Amount: Money{Cents: 5000}},
		}
		got := NetSettlements(even, 1)
		if got.NetBalance.Cents != 0 {
			t.Errorf("netBalance = %d cents, want 0", got.NetBalance.Cents)
		}
		if got.Status != StatusSettled {
			t.Errorf("status = %q, want %q", got.Status, StatusSettled)
		}
	})

	t.Run("net balance equals owed minus owing", func(t *testing.T) {
		for _, userID := range []int64{1, 2, 3} {
			got := NetSettlements(settlements, userID)
			if got.OwedToMe.Sub(got.IOwe) != got.NetBalance {
				t.Errorf("user %d: owedToMe - iOwe != netBalance", userID)
			}
		}
	})

	t.Run("net balances sum to zero across members", func(t *testing.T) {
		many := []Settlement{
			{FromUserID: 1, ToUserID: 2, Amount: Money{Cents: 5000}},
			{FromUserID: 2, ToUserID: 3, Amount: Money{Cents: 1200}},
			{FromUserID: 3, ToUserID: 1, Amount: Money{Cents: 700}},
			{FromUserID: 2, ToUserID: 1, Amount: Money{Cents: 2000}},
		}
		var sum Money
		for _, userID := range []int64{1, 2, 3} {
			sum = sum.Add(NetSettlements(many, userID).NetBalance)
		}
		if sum.Cents != 0 {
			t.Errorf("household net balances sum to %d cents, want 0", sum.Cents)
		}
	})

	t.Run("no settlements", func(t *testing.T) {
		got := NetSettlements(nil, 1)
		if got.Status != StatusSettled {
			t.Errorf("status = %q, want %q", got.Status, StatusSettled)
		}
	})
}
