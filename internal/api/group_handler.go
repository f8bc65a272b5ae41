package api

import (
	"encoding/json"
	"net/http"

	"github.com/splitpot/splitpot/internal/calculator"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"

	"github.com/go-chi/chi/v5"
)

type memberRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

type createGroupRequest struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency,omitempty"`
	Members  []memberRequest `json:"members"`
}

type memberResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Currency  string           `json:"currency"`
	Members   []memberResponse `json:"members"`
	CreatedBy string           `json:"created_by"`
	CreatedAt int64            `json:"created_at"`
}

type balanceResponse struct {
	MemberID   string  `json:"member_id"`
	MemberName string  `json:"member_name"`
	Balance    float64 `json:"balance"`
	TotalPaid  float64 `json:"total_paid"`
	TotalShare float64 `json:"total_share"`
}

type suggestionResponse struct {
	FromMemberID string  `json:"from_member_id"`
	FromName     string  `json:"from_name"`
	ToMemberID   string  `json:"to_member_id"`
	ToName       string  `json:"to_name"`
	Amount       float64 `json:"amount"`
}

func toMemberResponse(member *models.GroupMember) memberResponse {
	return memberResponse{ID: member.ID, Name: member.Name, UserID: member.UserID}
}

func toGroupResponse(group *models.Group) groupResponse {
	members := make([]memberResponse, 0, len(group.Members))
	for i := range group.Members {
		members = append(members, toMemberResponse(&group.Members[i]))
	}
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		Currency:  group.Currency,
		Members:   members,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	}
}

func toMemberInputs(members []memberRequest) []service.MemberInput {
	inputs := make([]service.MemberInput, 0, len(members))
	for _, m := range members {
		inputs = append(inputs, service.MemberInput{Name: m.Name, UserID: m.UserID})
	}
	return inputs
}

func createGroupHandler(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		group, err := groupSvc.CreateGroup(r.Context(), req.Name, req.Currency, toMemberInputs(req.Members))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toGroupResponse(group))
	}
}

func listGroupsHandler(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := groupSvc.ListGroups(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]groupResponse, 0, len(groups))
		for _, g := range groups {
			resp = append(resp, toGroupResponse(g))
		}
		writeJSON(w, http.StatusOK, map[string]any{"groups": resp})
	}
}

func getGroupHandler(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, err := groupSvc.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGroupResponse(group))
	}
}

func addMemberHandler(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req memberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		member, err := groupSvc.AddMember(r.Context(), chi.URLParam(r, "groupID"), service.MemberInput{
			Name:   req.Name,
			UserID: req.UserID,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMemberResponse(member))
	}
}

func balancesHandler(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := groupSvc.Balances(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]balanceResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, balanceResponse{
				MemberID:   e.MemberID,
				MemberName: e.MemberName,
				Balance:    e.Balance,
				TotalPaid:  e.TotalPaid,
				TotalShare: e.TotalShare,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"balances": resp})
	}
}

func settleUpHandler(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestions, err := groupSvc.SettleUp(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"suggestions": toSuggestionResponses(suggestions)})
	}
}

func toSuggestionResponses(suggestions []calculator.TransactionSuggestion) []suggestionResponse {
	resp := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, suggestionResponse{
			FromMemberID: s.FromMemberID,
			FromName:     s.FromName,
			ToMemberID:   s.ToMemberID,
			ToName:       s.ToName,
			Amount:       s.Amount,
		})
	}
	return resp
}
