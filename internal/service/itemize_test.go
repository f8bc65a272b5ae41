package service

import (
	"math"
	"testing"
)

func TestCreateExpenseItemized(t *testing.T) {
	groups, expenses, _, _, store := newTestServices(t)
	creator := createTestAccount(t, store, "creator@example.com")
	ctx := authedCtx(creator.ID)

	group := createTestGroup(t, groups, ctx, "Alice", "Bob", "Carol")
	alice := group.Members[0]
	bob := group.Members[1]
	carol := group.Members[2]

	t.Run("items become labeled splits per assignee", func(t *testing.T) {
		expense, err := expenses.CreateExpense(ctx, group.ID, ExpenseInput{
			PayerMemberID: alice.ID,
			Description:   "Dinner",
			Amount:        18,
			Items: []ItemInput{
				{Description: "Wine", Amount: 12, AssignedTo: []string{alice.ID, bob.ID}},
				{Description: "Snacks", Amount: 6, AssignedTo: []string{carol.ID}},
			},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if len(expense.Splits) != 3 {
			t.Fatalf("got %d splits, want 3", len(expense.Splits))
		}
		want := []struct {
			memberID string
			amount   float64
			label    string
		}{
			{alice.ID, 6, "Wine"},
			{bob.ID, 6, "Wine"},
			{carol.ID, 6, "Snacks"},
		}
		for i, w := range want {
			got := expense.Splits[i]
			if got.MemberID != w.memberID || got.Amount != w.amount || got.Label != w.label {
				t.Errorf("splits[%d] = %+v, want %+v", i, got, w)
			}
		}
	})

	t.Run("leftover cents go to the first assignees", func(t *testing.T) {
		expense, err := expenses.CreateExpense(ctx, group.ID, ExpenseInput{
			PayerMemberID: alice.ID,
			Description:   "Shared starter",
			Amount:        10,
			Items: []ItemInput{
				{Description: "Starter", Amount: 10, AssignedTo: []string{alice.ID, bob.ID, carol.ID}},
			},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		want := []float64{3.34, 3.33, 3.33}
		var sum float64
		for i, split := range expense.Splits {
			if split.Amount != want[i] {
				t.Errorf("splits[%d] amount = %v, want %v", i, split.Amount, want[i])
			}
			sum += split.Amount
		}
		if math.Abs(sum-10) > 1e-9 {
			t.Errorf("split sum = %v, want 10", sum)
		}
	})

	t.Run("repeat assignee accumulates across items", func(t *testing.T) {
		scoped := createTestGroup(t, groups, ctx, "Dana", "Erin")
		dana := scoped.Members[0]
		erin := scoped.Members[1]

		if _, err := expenses.CreateExpense(ctx, scoped.ID, ExpenseInput{
			PayerMemberID: dana.ID,
			Description:   "Pub night",
			Amount:        10,
			Items: []ItemInput{
				{Description: "Wine", Amount: 7, AssignedTo: []string{dana.ID, erin.ID}},
				{Description: "Beer", Amount: 3, AssignedTo: []string{erin.ID}},
			},
		}); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		entries, err := groups.Balances(ctx, scoped.ID)
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		// Dana fronted 10, owes 3.50 of it; Erin owes 3.50 + 3.
		wantBalance := map[string]float64{dana.ID: 6.50, erin.ID: -6.50}
		for _, e := range entries {
			if math.Abs(e.Balance-wantBalance[e.MemberID]) > 1e-9 {
				t.Errorf("%s balance = %v, want %v", e.MemberName, e.Balance, wantBalance[e.MemberID])
			}
		}
	})

	validations := []struct {
		name  string
		input ExpenseInput
		field string
	}{
		{
			name: "item amounts must sum to the expense amount",
			input: ExpenseInput{
				PayerMemberID: alice.ID, Description: "Dinner", Amount: 20,
				Items: []ItemInput{
					{Description: "Wine", Amount: 12, AssignedTo: []string{alice.ID}},
				},
			},
			field: "items",
		},
		{
			name: "item without assignees",
			input: ExpenseInput{
				PayerMemberID: alice.ID, Description: "Dinner", Amount: 12,
				Items: []ItemInput{
					{Description: "Wine", Amount: 12},
				},
			},
			field: "items[0].assigned_to",
		},
		{
			name: "unknown assignee",
			input: ExpenseInput{
				PayerMemberID: alice.ID, Description: "Dinner", Amount: 12,
				Items: []ItemInput{
					{Description: "Wine", Amount: 12, AssignedTo: []string{"no-such-member"}},
				},
			},
			field: "items[0].assigned_to",
		},
		{
			name: "items combined with explicit splits",
			input: ExpenseInput{
				PayerMemberID: alice.ID, Description: "Dinner", Amount: 12,
				Items: []ItemInput{
					{Description: "Wine", Amount: 12, AssignedTo: []string{alice.ID}},
				},
				Splits: []SplitInput{{MemberID: alice.ID, Amount: 12}},
			},
			field: "splits",
		},
		{
			name: "items combined with split_equally",
			input: ExpenseInput{
				PayerMemberID: alice.ID, Description: "Dinner", Amount: 12, SplitEqually: true,
				Items: []ItemInput{
					{Description: "Wine", Amount: 12, AssignedTo: []string{alice.ID}},
				},
			},
			field: "splits",
		},
	}

	for _, tt := range validations {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expenses.CreateExpense(ctx, group.ID, tt.input)
			wantValidationError(t, err, tt.field)
		})
	}
}
