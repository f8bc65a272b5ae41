package api

import (
	"encoding/json"
	"net/http"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"

	"github.com/go-chi/chi/v5"
)

type createSettlementRequest struct {
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
	Note         string  `json:"note,omitempty"`
}

type settlementResponse struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"group_id"`
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
	Note         string  `json:"note,omitempty"`
	CreatedBy    string  `json:"created_by"`
	CreatedAt    int64   `json:"created_at"`
}

func toSettlementResponse(settlement *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:           settlement.ID,
		GroupID:      settlement.GroupID,
		FromMemberID: settlement.FromMemberID,
		ToMemberID:   settlement.ToMemberID,
		Amount:       settlement.Amount,
		Note:         settlement.Note,
		CreatedBy:    settlement.CreatedBy,
		CreatedAt:    settlement.CreatedAt,
	}
}

func createSettlementHandler(settlementSvc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSettlementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		settlement, err := settlementSvc.CreateSettlement(r.Context(), chi.URLParam(r, "groupID"), service.SettlementInput{
			FromMemberID: req.FromMemberID,
			ToMemberID:   req.ToMemberID,
			Amount:       req.Amount,
			Note:         req.Note,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
	}
}

func listSettlementsHandler(settlementSvc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settlements, err := settlementSvc.ListSettlements(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]settlementResponse, 0, len(settlements))
		for _, s := range settlements {
			resp = append(resp, toSettlementResponse(s))
		}
		writeJSON(w, http.StatusOK, map[string]any{"settlements": resp})
	}
}

func deleteSettlementHandler(settlementSvc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := chi.URLParam(r, "groupID")
		settlementID := chi.URLParam(r, "settlementID")

		if err := settlementSvc.DeleteSettlement(r.Context(), groupID, settlementID); err != nil {
			handleServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
