package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/models"
	"github.com/go-chi/chi/v5"
)

// ReassignService finds and records stock-hold reassignments
type ReassignService interface {
	FindCandidates(ctx context.Context, holdOrderID string) ([]models.Order, error)
	Propose(ctx context.Context, holdOrderID, targetOrderID string, actor auth.Actor) (*models.StaffMessage, error)
}

// ReassignHandler represents HTTP handler for reassignment requests
type ReassignHandler struct {
	svc ReassignService
}

// NewReassignHandler creates new ReassignHandler instance
func NewReassignHandler(svc ReassignService) *ReassignHandler {
	return &ReassignHandler{svc: svc}
}

// CandidateResp is one ranked reassignment target
type CandidateResp struct {
	OrderID    string `json:"order_id"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

// ProposeReq names the chosen target order
type ProposeReq struct {
	TargetOrderID string `json:"target_order_id"`
}

// Candidates returns ranked compatible orders for a stock-held shipment
func (rh *ReassignHandler) Candidates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidates, err := rh.svc.FindCandidates(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			var validationErr models.ValidationError
			switch {
			case errors.As(err, &validationErr):
				http.Error(w, validationErr.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := make([]CandidateResp, 0, len(candidates))
		for _, c := range candidates {
			resp = append(resp, CandidateResp{
				OrderID:    c.ID,
				PostalCode: c.Customer.PostalCode,
				City:       c.Customer.City,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// Propose records a redirect proposal in the staff channel
func (rh *ReassignHandler) Propose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req ProposeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetOrderID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		msg, err := rh.svc.Propose(r.Context(), chi.URLParam(r, "id"), req.TargetOrderID, *actor)
		if err != nil {
			var validationErr models.ValidationError
			switch {
			case errors.As(err, &validationErr):
				http.Error(w, validationErr.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		middleware.RecordReassignmentProposal()

		writeJSON(w, http.StatusCreated, map[string]string{
			"message_id": msg.ID,
			"target":     req.TargetOrderID,
		})
	}
}
