package calculator

import (
	"testing"

	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
)

func TestComputeBalances(t *testing.T) {
	members := []*models.User{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
		{ID: "c", Name: "Charlie"},
	}

	// Alice paid 90, split 30 each among all three.
	paid := map[string]money.Cents{"a": 9000}
	owed := map[string]money.Cents{"a": 3000, "b": 3000, "c": 3000}

	balances := ComputeBalances(members, paid, owed)
	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}

	want := map[string]money.Cents{"a": 6000, "b": -3000, "c": -3000}
	var sum money.Cents
	for _, b := range balances {
		if b.NetBalance != want[b.UserID] {
			t.Errorf("%s net balance = %d, want %d", b.Name, b.NetBalance, want[b.UserID])
		}
		sum += b.NetBalance
	}
	if sum != 0 {
		t.Errorf("balances sum to %d, want 0", sum)
	}
}

func TestComputeBalancesInactiveMember(t *testing.T) {
	members := []*models.User{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
	}

	balances := ComputeBalances(members, nil, nil)
	for _, b := range balances {
		if b.NetBalance != 0 || b.TotalPaid != 0 || b.TotalOwed != 0 {
			t.Errorf("%s should have zero balance with no activity, got %+v", b.Name, b)
		}
	}
}
