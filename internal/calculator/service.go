// Package calculator orchestrates a calculation request: evaluate the
// expression, record successes in the session's history and notify
// listeners of that session.
package calculator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// Display values shown when no result is available.
const (
	DisplayEmpty = "0"
	DisplayError = "Error"
)

// Publisher is notified after a session's history changes.
type Publisher interface {
	Publish(topic string)
}

// Outcome is what the display should show after a calculation request.
// Kind is set only when Failed is true; it is meant for logs and tests,
// never for rendering.
type Outcome struct {
	Expression  string
	Display     string
	Failed      bool
	Kind        calc.Kind
	Calculation *core.Calculation // nil unless a record was stored
}

// Service evaluates expressions and maintains session history.
type Service struct {
	store     core.Store
	publisher Publisher
	logger    *slog.Logger
}

// Config holds the dependencies of a Service.
type Config struct {
	Store     core.Store
	Publisher Publisher // optional
	Logger    *slog.Logger
}

// NewService creates a new calculator service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}

// Calculate evaluates expression on behalf of sessionKey.
//
// An exactly empty expression shows "0" without evaluating. Evaluation
// failures produce an "Error" outcome and are not recorded. Successful
// results are recorded when sessionKey is non-empty. The returned error is
// non-nil only when persistence fails.
func (s *Service) Calculate(ctx context.Context, sessionKey, expression string) (Outcome, error) {
	if expression == "" {
		return Outcome{Display: DisplayEmpty}, nil
	}

	out := Outcome{Expression: expression}

	result, err := calc.Evaluate(expression)
	if err != nil {
		out.Display = DisplayError
		out.Failed = true
		out.Kind = calc.KindOf(err)
		s.logger.Debug("evaluation failed",
			"expression", expression,
			"kind", out.Kind.String(),
			"error", err,
		)
		return out, nil
	}
	out.Display = result

	if sessionKey == "" || s.store == nil {
		return out, nil
	}

	record := &core.Calculation{
		Expression: storedExpression(expression),
		Result:     result,
		SessionKey: sessionKey,
	}
	if err := s.store.RecordCalculation(ctx, record); err != nil {
		return out, fmt.Errorf("failed to save calculation: %w", err)
	}
	out.Calculation = record

	s.publish(sessionKey)
	return out, nil
}

// History returns the most recent calculations of a session.
func (s *Service) History(ctx context.Context, sessionKey string, limit int) ([]*core.Calculation, error) {
	if sessionKey == "" || s.store == nil {
		return []*core.Calculation{}, nil
	}
	return s.store.ListHistory(ctx, sessionKey, limit)
}

// Clear removes every calculation of a session.
func (s *Service) Clear(ctx context.Context, sessionKey string) (int64, error) {
	if sessionKey == "" || s.store == nil {
		return 0, nil
	}
	deleted, err := s.store.ClearHistory(ctx, sessionKey)
	if err != nil {
		return 0, err
	}
	s.publish(sessionKey)
	return deleted, nil
}

// Search runs an unscoped history search for administrative views.
func (s *Service) Search(ctx context.Context, filter core.HistoryFilter) ([]*core.Calculation, error) {
	if s.store == nil {
		return []*core.Calculation{}, nil
	}
	return s.store.SearchHistory(ctx, filter)
}

// Delete removes one calculation and notifies its session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return nil
	}
	c, err := s.store.GetCalculation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCalculation(ctx, id); err != nil {
		return err
	}
	if c.SessionKey != "" {
		s.publish(c.SessionKey)
	}
	return nil
}

func (s *Service) publish(sessionKey string) {
	if s.publisher != nil {
		s.publisher.Publish(sessionKey)
	}
}

// storedExpression returns the form of expression to persist. Whitespace
// padding is trimmed; input that is still too long for the history column
// is stored normalized, which the length gate keeps short.
func storedExpression(expression string) string {
	trimmed := strings.TrimSpace(expression)
	if len(trimmed) <= core.MaxExpressionLength {
		return trimmed
	}
	return calc.Normalize(trimmed)
}
