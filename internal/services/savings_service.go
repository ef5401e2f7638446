package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

// SavingsService manages goals and contributions toward them.
type SavingsService struct {
	store  store.Store
	logger *slog.Logger
}

func NewSavingsService(st store.Store, logger *slog.Logger) *SavingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavingsService{
		store:  st,
		logger: log.WithComponent(logger, log.ComponentSavings),
	}
}

func (s *SavingsService) CreateGoal(ctx context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if err := s.store.CreateGoal(ctx, userID, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

func (s *SavingsService) UpdateGoal(ctx context.Context, userID string, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.store.UpdateGoal(ctx, userID, g)
}

func (s *SavingsService) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.store.DeleteGoal(ctx, userID, id)
}

func (s *SavingsService) GetGoal(ctx context.Context, userID, id string) (core.SavingsGoal, error) {
	return s.store.GetGoal(ctx, userID, id)
}

func (s *SavingsService) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	return s.store.ListGoals(ctx, userID)
}

// AddContribution adds amount to the goal's saved total. Saving past
// the target is allowed; only display progress is capped.
func (s *SavingsService) AddContribution(ctx context.Context, userID, goalID string, amount core.Money) (core.SavingsGoal, error) {
	if amount.Paisa <= 0 {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}

	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	goal.CurrentAmount.Paisa += amount.Paisa
	if err := s.store.UpdateGoal(ctx, userID, goal); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save contribution: %w", err)
	}

	s.logger.InfoContext(ctx, "added contribution",
		"goal_id", goalID,
		log.FieldAmount, amount.Paisa)
	return goal, nil
}
