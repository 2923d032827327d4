// Command seed populates the database with demo users, groups and expenses
// for local development.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SinghAman21/spendsplit/internal/config"
	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
	"github.com/SinghAman21/spendsplit/internal/storage/sqlite"
	"github.com/SinghAman21/spendsplit/pkg/logging"
)

type seedExpense struct {
	payer       int // index into the group's members
	amount      float64
	description string
	category    string
}

type seedGroup struct {
	name     string
	members  []int // indexes into users
	expenses []seedExpense
}

var userNames = []string{"Alice", "Bob", "Charlie", "Diana", "Ethan"}

var groupSeeds = []seedGroup{
	{
		name:    "Weekend Trip",
		members: []int{0, 1, 2},
		expenses: []seedExpense{
			{payer: 0, amount: 4500.00, description: "Cab to airport", category: "Travel"},
			{payer: 1, amount: 12000.00, description: "Hotel two nights", category: "Stay"},
			{payer: 2, amount: 3600.50, description: "Dinner at beach shack", category: "Food"},
			{payer: 0, amount: 1500.00, description: "Scooter rental", category: "Travel"},
			{payer: 1, amount: 980.00, description: "Breakfast", category: "Food"},
		},
	},
	{
		name:    "House Expenses",
		members: []int{1, 2, 3},
		expenses: []seedExpense{
			{payer: 1, amount: 18000.00, description: "Monthly rent share", category: "Rent"},
			{payer: 2, amount: 2300.00, description: "Electricity bill", category: "Utilities"},
			{payer: 3, amount: 4100.75, description: "Groceries", category: "Food"},
			{payer: 2, amount: 650.00, description: "Internet", category: "Utilities"},
			{payer: 1, amount: 1200.00, description: "Cleaning supplies", category: "Household"},
		},
	},
	{
		name:    "Office Lunch",
		members: []int{0, 3, 4},
		expenses: []seedExpense{
			{payer: 4, amount: 850.00, description: "Pizza Friday", category: "Food"},
			{payer: 0, amount: 640.00, description: "Biryani order", category: "Food"},
			{payer: 3, amount: 420.00, description: "Coffee run", category: "Food"},
			{payer: 4, amount: 1100.00, description: "Team snacks", category: "Food"},
			{payer: 0, amount: 300.00, description: "Juice round", category: "Food"},
		},
	},
}

func main() {
	logging.Setup()
	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	users := make([]*models.User, len(userNames))
	for i, name := range userNames {
		user := &models.User{Name: name, Email: name + "@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			slog.Error("Failed to create user", "name", name, "error", err)
			os.Exit(1)
		}
		users[i] = user
	}
	slog.Info("Seeded users", "count", len(users))

	for _, gs := range groupSeeds {
		group := &models.Group{
			Name:     gs.name,
			Type:     models.GroupTypeShort,
			MinFloor: models.DefaultMinFloor,
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			slog.Error("Failed to create group", "name", gs.name, "error", err)
			os.Exit(1)
		}

		for _, idx := range gs.members {
			if err := store.AddGroupMember(ctx, group.ID, users[idx].ID); err != nil {
				slog.Error("Failed to add member", "group", gs.name, "user", users[idx].Name, "error", err)
				os.Exit(1)
			}
		}

		for _, se := range gs.expenses {
			amount := money.FromFloat(se.amount)
			shares, err := money.SplitEven(amount, len(gs.members))
			if err != nil {
				slog.Error("Failed to split expense", "description", se.description, "error", err)
				os.Exit(1)
			}

			// Payer's share first so remainder cents land on the payer.
			ordered := []int{gs.members[se.payer]}
			for _, idx := range gs.members {
				if idx != gs.members[se.payer] {
					ordered = append(ordered, idx)
				}
			}
			splits := make([]models.ExpenseSplit, len(ordered))
			for i, idx := range ordered {
				splits[i] = models.ExpenseSplit{UserID: users[idx].ID, Owed: shares[i]}
			}

			expense := &models.Expense{
				GroupID:     group.ID,
				PayerID:     users[gs.members[se.payer]].ID,
				Amount:      amount,
				Description: se.description,
				Category:    se.category,
			}
			if err := store.CreateExpense(ctx, expense, splits); err != nil {
				slog.Error("Failed to create expense", "description", se.description, "error", err)
				os.Exit(1)
			}
		}

		slog.Info("Seeded group", "name", gs.name, "members", len(gs.members), "expenses", len(gs.expenses))
	}
}
