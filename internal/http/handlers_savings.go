package http

import (
	"net/http"
	"strings"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
)

type (
	goalRequest struct {
		Name          string `json:"name"`
		TargetAmount  string `json:"target_amount"`
		CurrentAmount string `json:"current_amount,omitempty"`
		Currency      string `json:"currency"`
		Deadline      string `json:"deadline"`
	}

	goalResponse struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		TargetAmount  string  `json:"target_amount"`
		CurrentAmount string  `json:"current_amount"`
		Currency      string  `json:"currency"`
		Deadline      string  `json:"deadline"`
		Progress      float64 `json:"progress"`
	}

	contributionRequest struct {
		Amount string `json:"amount"`
	}
)

func (req goalRequest) toGoal(id string) (core.SavingsGoal, error) {
	target, err := core.ParseAmount(req.TargetAmount)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	current := core.Money{}
	if strings.TrimSpace(req.CurrentAmount) != "" {
		if current, err = core.ParseAmount(req.CurrentAmount); err != nil {
			return core.SavingsGoal{}, err
		}
	}
	deadline, err := core.ParseDate(req.Deadline)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	return core.SavingsGoal{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  target,
		CurrentAmount: current,
		Currency:      core.Currency(strings.ToUpper(req.Currency)),
		Deadline:      deadline,
	}, nil
}

func toGoalResponse(g core.SavingsGoal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.Decimal().StringFixed(2),
		CurrentAmount: g.CurrentAmount.Decimal().StringFixed(2),
		Currency:      string(g.Currency),
		Deadline:      g.Deadline.Key(),
		Progress:      g.Progress(),
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.savings.ListGoals(r.Context(), UserID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	goal, err := req.toGoal("")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	created, err := s.savings.CreateGoal(r.Context(), UserID(r.Context()), goal)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	goal, err := req.toGoal(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.savings.UpdateGoal(r.Context(), UserID(r.Context()), goal); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.savings.DeleteGoal(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	goal, err := s.savings.AddContribution(r.Context(), UserID(r.Context()), r.PathValue("id"), amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}
