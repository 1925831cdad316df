package core

import (
	"testing"
)

func budget(id, categoryID int64, name, amount string) Budget {
	return Budget{
		ID:           id,
		UserID:       1,
		CategoryID:   categoryID,
		CategoryName: name,
		Amount:       dec(amount),
		Month:        3,
		Year:         2024,
	}
}

func catTx(typ TransactionType, amount string, categoryID int64) Transaction {
	return Transaction{
		UserID:     1,
		CategoryID: &categoryID,
		Amount:     dec(amount),
		Type:       typ,
		Date:       NewDate(2024, 3, 12),
	}
}

func TestApplySpend(t *testing.T) {
	budgets := []Budget{
		budget(1, 10, "Food", "60"),
		budget(2, 11, "Shopping", "200"),
	}
	txs := []Transaction{
		catTx(Expense, "50", 10),
		catTx(Expense, "30", 10),
		catTx(Income, "1000", 10), // income never counts as spend
		{UserID: 1, Amount: dec("25"), Type: Expense, Date: NewDate(2024, 3, 3)}, // uncategorized
	}

	got := ApplySpend(budgets, txs)

	if len(got) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(got))
	}
	// Ordered by budget amount descending.
	if got[0].CategoryName != "Shopping" || got[1].CategoryName != "Food" {
		t.Errorf("unexpected order: %s, %s", got[0].CategoryName, got[1].CategoryName)
	}
	if !got[0].Spent.IsZero() {
		t.Errorf("Shopping spent = %s, want 0", got[0].Spent)
	}
	if !got[1].Spent.Equal(dec("80")) {
		t.Errorf("Food spent = %s, want 80", got[1].Spent)
	}

	// Input must not be mutated.
	if !budgets[0].Spent.IsZero() && budgets[0].CategoryName == "Food" {
		t.Errorf("input slice was mutated")
	}
}

func TestAlerts(t *testing.T) {
	budgets := ApplySpend(
		[]Budget{budget(1, 10, "Food", "60")},
		[]Transaction{catTx(Expense, "50", 10), catTx(Expense, "30", 10)},
	)

	alerts := Alerts(budgets)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Category != "Food" {
		t.Errorf("category = %s", a.Category)
	}
	if !a.Budget.Equal(dec("60")) || !a.Spent.Equal(dec("80")) {
		t.Errorf("budget/spent = %s/%s", a.Budget, a.Spent)
	}
	if !a.Overspent.Equal(dec("20")) {
		t.Errorf("overspent = %s, want 20", a.Overspent)
	}
	if a.Percentage != "133.3" {
		t.Errorf("percentage = %q, want 133.3", a.Percentage)
	}
}

func TestAlertsExactBudgetDoesNotAlert(t *testing.T) {
	budgets := ApplySpend(
		[]Budget{budget(1, 10, "Food", "80")},
		[]Transaction{catTx(Expense, "80", 10)},
	)
	if alerts := Alerts(budgets); len(alerts) != 0 {
		t.Errorf("spent == amount must not alert, got %+v", alerts)
	}
}

func TestAlertsPreserveBudgetOrder(t *testing.T) {
	budgets := ApplySpend(
		[]Budget{
			budget(1, 10, "Food", "50"),
			budget(2, 11, "Shopping", "100"),
		},
		[]Transaction{
			catTx(Expense, "500", 10), // massive overspend on the smaller budget
			catTx(Expense, "101", 11),
		},
	)

	alerts := Alerts(budgets)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	// Alert order follows budget-amount order, not severity.
	if alerts[0].Category != "Shopping" || alerts[1].Category != "Food" {
		t.Errorf("unexpected order: %s, %s", alerts[0].Category, alerts[1].Category)
	}
}

func TestBudgetValidate(t *testing.T) {
	b := budget(1, 10, "Food", "60")
	if err := b.Validate(); err != nil {
		t.Errorf("valid budget rejected: %v", err)
	}

	zero := b
	zero.Amount = dec("0")
	if err := zero.Validate(); err != ErrInvalidAmount {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}

	neg := b
	neg.Amount = dec("-5")
	if err := neg.Validate(); err != ErrInvalidAmount {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}

	badMonth := b
	badMonth.Month = 13
	if err := badMonth.Validate(); err != ErrInvalidMonth {
		t.Errorf("month 13: got %v, want ErrInvalidMonth", err)
	}
}
