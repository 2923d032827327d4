package service

import (
	"net/http"
	"reflect"
	"testing"
)

func TestGetAnalysis(t *testing.T) {
	t.Run("Even split leaves the payer in credit", func(t *testing.T) {
		router, store := setupRouter(t, "")
		group := createGroup(t, router, CreateGroupRequest{Name: "Trip", Type: "SHORT", MinFloor: floatPtr(0)})
		users := seedMembers(t, store, group.ID, "Alice", "Bob", "Charlie")

		code := doJSON(t, router, http.MethodPost, "/api/groups/"+group.ID+"/expenses",
			CreateExpenseRequest{PayerID: users[0].ID, Amount: 90.00, Description: "Hotel"}, nil)
		if code != http.StatusOK {
			t.Fatalf("create expense returned %d", code)
		}

		var analysis AnalysisResponse
		if code := doJSON(t, router, http.MethodGet, "/api/groups/"+group.ID+"/analysis", nil, &analysis); code != http.StatusOK {
			t.Fatalf("analysis returned %d", code)
		}

		want := map[string]float64{"Alice": 60.00, "Bob": -30.00, "Charlie": -30.00}
		if !reflect.DeepEqual(analysis.Balances, want) {
			t.Errorf("balances = %v, want %v", analysis.Balances, want)
		}

		if len(analysis.Settlements) != 2 {
			t.Fatalf("expected 2 settlements, got %+v", analysis.Settlements)
		}
		for _, s := range analysis.Settlements {
			if s.To != "Alice" || s.Amount != 30.00 {
				t.Errorf("unexpected settlement: %+v", s)
			}
		}
		if analysis.Settlements[0].From == analysis.Settlements[1].From {
			t.Errorf("same debtor twice: %+v", analysis.Settlements)
		}

		for _, d := range analysis.MemberDetails {
			if d.Name == "Alice" {
				if d.TotalPaid != 90.00 || d.TotalOwed != 30.00 || d.TransactionCount != 1 {
					t.Errorf("unexpected Alice detail: %+v", d)
				}
			} else if d.TransactionCount != 0 {
				t.Errorf("unexpected transaction count for %s: %d", d.Name, d.TransactionCount)
			}
		}
	})

	t.Run("Repeated calls return identical results", func(t *testing.T) {
		router, store := setupRouter(t, "")
		group := createGroup(t, router, CreateGroupRequest{Name: "Stable", Type: "SHORT", MinFloor: floatPtr(0)})
		users := seedMembers(t, store, group.ID, "Alice", "Bob")

		doJSON(t, router, http.MethodPost, "/api/groups/"+group.ID+"/expenses",
			CreateExpenseRequest{PayerID: users[0].ID, Amount: 33.33, Description: "Odd total"}, nil)

		var first, second AnalysisResponse
		doJSON(t, router, http.MethodGet, "/api/groups/"+group.ID+"/analysis", nil, &first)
		doJSON(t, router, http.MethodGet, "/api/groups/"+group.ID+"/analysis", nil, &second)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("analysis not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	})

	t.Run("Balances at or below the floor are not settled", func(t *testing.T) {
		router, store := setupRouter(t, "")
		// Default floor is 2000.00, well above this group's imbalances.
		group := createGroup(t, router, CreateGroupRequest{Name: "Petty Cash", Type: "LONG"})
		users := seedMembers(t, store, group.ID, "Alice", "Bob")

		doJSON(t, router, http.MethodPost, "/api/groups/"+group.ID+"/expenses",
			CreateExpenseRequest{PayerID: users[0].ID, Amount: 40.00, Description: "Coffee"}, nil)

		var analysis AnalysisResponse
		doJSON(t, router, http.MethodGet, "/api/groups/"+group.ID+"/analysis", nil, &analysis)
		if analysis.Balances["Alice"] != 20.00 {
			t.Errorf("expected balance 20.00, got %v", analysis.Balances["Alice"])
		}
		if len(analysis.Settlements) != 0 {
			t.Errorf("expected no settlements under the floor, got %+v", analysis.Settlements)
		}
		if analysis.MinFloor != 2000.00 {
			t.Errorf("expected min_floor 2000.00, got %v", analysis.MinFloor)
		}
	})

	t.Run("Unknown group is 404", func(t *testing.T) {
		router, _ := setupRouter(t, "")
		if code := doJSON(t, router, http.MethodGet, "/api/groups/nonexistent/analysis", nil, nil); code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", code)
		}
	})
}
