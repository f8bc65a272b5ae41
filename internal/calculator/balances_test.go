package calculator

import (
	"math"
	"testing"
)

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name         string
		members      []Member
		expenses     []Expense
		settlements  []Settlement
		wantErr      bool
		validateFunc func(t *testing.T, entries []BalanceEntry)
	}{
		{
			name:    "single expense split three ways",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}, {ID: "c", Name: "Carol"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 90, Splits: []Split{
					{MemberID: "a", Amount: 30},
					{MemberID: "b", Amount: 30},
					{MemberID: "c", Amount: 30},
				}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				wantBalances(t, entries, map[string]float64{"a": 60, "b": -30, "c": -30})
			},
		},
		{
			name:    "settlement clears the books",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 100, Splits: []Split{
					{MemberID: "a", Amount: 50},
					{MemberID: "b", Amount: 50},
				}},
			},
			settlements: []Settlement{
				{FromMemberID: "b", ToMemberID: "a", Amount: 50},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				wantBalances(t, entries, map[string]float64{"a": 0, "b": 0})
			},
		},
		{
			name:    "payer participating nets total minus own share",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 40, Splits: []Split{
					{MemberID: "a", Amount: 10},
					{MemberID: "b", Amount: 30},
				}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				wantBalances(t, entries, map[string]float64{"a": 30, "b": -30})
			},
		},
		{
			name:    "repayment alone shifts both balances",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			settlements: []Settlement{
				{FromMemberID: "a", ToMemberID: "b", Amount: 25},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				wantBalances(t, entries, map[string]float64{"a": 25, "b": -25})
			},
		},
		{
			name:    "inactive member keeps zero balance and input order",
			members: []Member{{ID: "c", Name: "Carol"}, {ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 12, Splits: []Split{
					{MemberID: "b", Amount: 12},
				}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				wantOrder := []string{"c", "a", "b"}
				wantNames := []string{"Carol", "Alice", "Bob"}
				for i, e := range entries {
					if e.MemberID != wantOrder[i] {
						t.Errorf("entry %d member = %q, want %q", i, e.MemberID, wantOrder[i])
					}
					if e.MemberName != wantNames[i] {
						t.Errorf("entry %d name = %q, want %q", i, e.MemberName, wantNames[i])
					}
				}
				wantBalances(t, entries, map[string]float64{"c": 0, "a": 12, "b": -12})
			},
		},
		{
			name:    "unknown member ids are tallied but not returned",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 60, Splits: []Split{
					{MemberID: "b", Amount: 30},
					{MemberID: "ghost", Amount: 30},
				}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				// The ghost's -30 exists only internally, so the visible
				// sheet no longer sums to zero.
				wantBalances(t, entries, map[string]float64{"a": 60, "b": -30})
			},
		},
		{
			name:    "payer reflects declared total while debtors reflect splits",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}, {ID: "c", Name: "Carol"}, {ID: "d", Name: "Dave"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 10, Splits: []Split{
					{MemberID: "b", Amount: 3.33},
					{MemberID: "c", Amount: 3.33},
					{MemberID: "d", Amount: 3.33},
				}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				wantBalances(t, entries, map[string]float64{"a": 10, "b": -3.33, "c": -3.33, "d": -3.33})
				if sum := balanceSum(entries); math.Abs(sum) > 0.01*float64(len(entries)) {
					t.Errorf("balance sum = %v, want within %v of zero", sum, 0.01*float64(len(entries)))
				}
			},
		},
		{
			name:    "accumulated cents round cleanly",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 0.10, Splits: []Split{{MemberID: "b", Amount: 0.10}}},
				{PayerID: "a", Amount: 0.10, Splits: []Split{{MemberID: "b", Amount: 0.10}}},
				{PayerID: "a", Amount: 0.10, Splits: []Split{{MemberID: "b", Amount: 0.10}}},
				{PayerID: "a", Amount: 0.10, Splits: []Split{{MemberID: "b", Amount: 0.10}}},
				{PayerID: "a", Amount: 0.10, Splits: []Split{{MemberID: "b", Amount: 0.10}}},
				{PayerID: "a", Amount: 0.10, Splits: []Split{{MemberID: "b", Amount: 0.10}}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				for _, e := range entries {
					cents := e.Balance * 100
					if math.Abs(cents-math.Round(cents)) > 1e-9 {
						t.Errorf("%s balance %v is not an exact cent value", e.MemberName, e.Balance)
					}
				}
				wantBalances(t, entries, map[string]float64{"a": 0.60, "b": -0.60})
			},
		},
		{
			name: "no members yields empty result",
			expenses: []Expense{
				{PayerID: "a", Amount: 10, Splits: []Split{{MemberID: "b", Amount: 10}}},
			},
			validateFunc: func(t *testing.T, entries []BalanceEntry) {
				if len(entries) != 0 {
					t.Errorf("got %d entries, want 0", len(entries))
				}
			},
		},
		{
			name:    "NaN expense amount should error",
			members: []Member{{ID: "a", Name: "Alice"}},
			expenses: []Expense{
				{PayerID: "a", Amount: math.NaN(), Splits: []Split{{MemberID: "a", Amount: 1}}},
			},
			wantErr: true,
		},
		{
			name:    "infinite split amount should error",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 10, Splits: []Split{{MemberID: "b", Amount: math.Inf(1)}}},
			},
			wantErr: true,
		},
		{
			name:    "NaN settlement amount should error",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			settlements: []Settlement{
				{FromMemberID: "a", ToMemberID: "b", Amount: math.NaN()},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := CalculateBalances(tt.members, tt.expenses, tt.settlements)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CalculateBalances() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if entries != nil {
					t.Errorf("got entries alongside error: %v", entries)
				}
				return
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, entries)
			}
		})
	}
}

func TestCalculateBalancesZeroSum(t *testing.T) {
	// Every expense and settlement credits one side exactly what it debits
	// from the other, so visible balances sum to ~zero whenever splits cover
	// the declared totals.
	scenarios := []struct {
		name        string
		members     []Member
		expenses    []Expense
		settlements []Settlement
	}{
		{
			name:    "weekend trip",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}, {ID: "c", Name: "Carol"}},
			expenses: []Expense{
				{PayerID: "a", Amount: 120.50, Splits: []Split{
					{MemberID: "a", Amount: 40.17},
					{MemberID: "b", Amount: 40.17},
					{MemberID: "c", Amount: 40.16},
				}},
				{PayerID: "b", Amount: 75.25, Splits: []Split{
					{MemberID: "a", Amount: 25.09},
					{MemberID: "b", Amount: 25.08},
					{MemberID: "c", Amount: 25.08},
				}},
			},
			settlements: []Settlement{
				{FromMemberID: "c", ToMemberID: "a", Amount: 20},
			},
		},
		{
			name:    "uneven dinner",
			members: []Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}, {ID: "c", Name: "Carol"}, {ID: "d", Name: "Dave"}},
			expenses: []Expense{
				{PayerID: "d", Amount: 10, Splits: []Split{
					{MemberID: "a", Amount: 3.33},
					{MemberID: "b", Amount: 3.33},
					{MemberID: "c", Amount: 3.34},
				}},
			},
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			entries, err := CalculateBalances(sc.members, sc.expenses, sc.settlements)
			if err != nil {
				t.Fatalf("CalculateBalances() error = %v", err)
			}
			epsilon := 0.01 * float64(len(sc.members))
			if sum := balanceSum(entries); math.Abs(sum) > epsilon {
				t.Errorf("balance sum = %v, want within %v of zero", sum, epsilon)
			}
		})
	}
}

func wantBalances(t *testing.T, entries []BalanceEntry, want map[string]float64) {
	t.Helper()
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for _, e := range entries {
		w, ok := want[e.MemberID]
		if !ok {
			t.Errorf("unexpected member %q in result", e.MemberID)
			continue
		}
		if math.Abs(e.Balance-w) > 0.01 {
			t.Errorf("%s balance = %v, want %v", e.MemberName, e.Balance, w)
		}
	}
}

func balanceSum(entries []BalanceEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Balance
	}
	return sum
}
