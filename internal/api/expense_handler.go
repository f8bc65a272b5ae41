package api

import (
	"encoding/json"
	"net/http"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"

	"github.com/go-chi/chi/v5"
)

type splitRequest struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Label    string  `json:"label,omitempty"`
}

type itemRequest struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	AssignedTo  []string `json:"assigned_to"`
}

type createExpenseRequest struct {
	PayerMemberID string         `json:"payer_member_id"`
	Description   string         `json:"description"`
	Amount        float64        `json:"amount"`
	SplitEqually  bool           `json:"split_equally,omitempty"`
	Splits        []splitRequest `json:"splits,omitempty"`
	Items         []itemRequest  `json:"items,omitempty"`
}

type splitResponse struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Label    string  `json:"label,omitempty"`
}

type expenseResponse struct {
	ID            string          `json:"id"`
	GroupID       string          `json:"group_id"`
	PayerMemberID string          `json:"payer_member_id"`
	Description   string          `json:"description"`
	Amount        float64         `json:"amount"`
	Splits        []splitResponse `json:"splits"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     int64           `json:"created_at"`
}

func toExpenseResponse(expense *models.Expense) expenseResponse {
	splits := make([]splitResponse, 0, len(expense.Splits))
	for _, s := range expense.Splits {
		splits = append(splits, splitResponse{MemberID: s.MemberID, Amount: s.Amount, Label: s.Label})
	}
	return expenseResponse{
		ID:            expense.ID,
		GroupID:       expense.GroupID,
		PayerMemberID: expense.PayerMemberID,
		Description:   expense.Description,
		Amount:        expense.Amount,
		Splits:        splits,
		CreatedBy:     expense.CreatedBy,
		CreatedAt:     expense.CreatedAt,
	}
}

func createExpenseHandler(expenseSvc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		input := service.ExpenseInput{
			PayerMemberID: req.PayerMemberID,
			Description:   req.Description,
			Amount:        req.Amount,
			SplitEqually:  req.SplitEqually,
		}
		for _, s := range req.Splits {
			input.Splits = append(input.Splits, service.SplitInput{
				MemberID: s.MemberID,
				Amount:   s.Amount,
				Label:    s.Label,
			})
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, service.ItemInput{
				Description: item.Description,
				Amount:      item.Amount,
				AssignedTo:  item.AssignedTo,
			})
		}

		expense, err := expenseSvc.CreateExpense(r.Context(), chi.URLParam(r, "groupID"), input)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
	}
}

func listExpensesHandler(expenseSvc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenses, err := expenseSvc.ListExpenses(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]expenseResponse, 0, len(expenses))
		for _, e := range expenses {
			resp = append(resp, toExpenseResponse(e))
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": resp})
	}
}

func getExpenseHandler(expenseSvc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expense, err := expenseSvc.GetExpense(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toExpenseResponse(expense))
	}
}
