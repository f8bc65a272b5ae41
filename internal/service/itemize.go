package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitpot/splitpot/internal/models"
)

// ItemInput is one line of an itemized receipt. Its amount is divided equally
// among the assigned members.
type ItemInput struct {
	Description string
	Amount      float64
	AssignedTo  []string
}

// itemizedSplits derives splits from receipt items. Each item produces one
// split per assignee, labeled with the item description; shares within an item
// differ by at most one cent, leftover cents going to the first assignees.
// Item amounts must sum to the expense amount.
func itemizedSplits(group *models.Group, items []ItemInput, total decimal.Decimal) ([]models.ExpenseSplit, error) {
	sum := decimal.Zero
	var splits []models.ExpenseSplit
	for i, item := range items {
		amount, err := parseAmount(fmt.Sprintf("items[%d].amount", i), item.Amount, true)
		if err != nil {
			return nil, err
		}
		if len(item.AssignedTo) == 0 {
			return nil, &ErrValidation{
				Field:   fmt.Sprintf("items[%d].assigned_to", i),
				Message: "item must be assigned to at least one member",
			}
		}
		for _, memberID := range item.AssignedTo {
			if findMember(group, memberID) == nil {
				return nil, &ErrValidation{
					Field:   fmt.Sprintf("items[%d].assigned_to", i),
					Message: "assignee must be a group member",
				}
			}
		}

		shares := equalShares(amount, len(item.AssignedTo))
		for j, memberID := range item.AssignedTo {
			splits = append(splits, models.ExpenseSplit{
				MemberID: memberID,
				Amount:   shares[j],
				Label:    item.Description,
			})
		}
		sum = sum.Add(amount)
	}

	if !sum.Equal(total) {
		return nil, &ErrValidation{
			Field:   "items",
			Message: fmt.Sprintf("item amounts sum to %s, expense amount is %s", sum.StringFixed(2), total.StringFixed(2)),
		}
	}
	return splits, nil
}
