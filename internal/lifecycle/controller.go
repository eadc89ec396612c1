// Package lifecycle orchestrates the three-stage installment flow:
// eligibility check, calculator, and confirmation. It owns the state machine
// and assembles the final plan record handed to the persistence collaborator.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/engine"
	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/pkg/constants"
	"github.com/dhiadhaw0/installment-engine/pkg/mathutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage identifies the controller's position in the flow.
type Stage string

const (
	StageEligibility  Stage = "ELIGIBILITY"
	StageCalculator   Stage = "CALCULATOR"
	StageConfirmation Stage = "CONFIRMATION"
)

var (
	// ErrIneligible indicates the backend rejected the user for installment
	// plans; the flow cannot advance past the eligibility stage.
	ErrIneligible = errors.New("user is not eligible for an installment plan")

	// ErrWrongStage indicates an operation was invoked outside the stage
	// that permits it.
	ErrWrongStage = errors.New("operation not allowed in current stage")

	// ErrNoComputation indicates confirmation was requested before any
	// valid amortization result was produced.
	ErrNoComputation = errors.New("no valid computation to confirm")

	// ErrPersistence indicates the backend failed to persist the plan.
	ErrPersistence = errors.New("plan persistence failed")
)

// EligibilityChecker is the backend collaborator that decides whether a user
// may enter an installment plan.
type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, userID, formationID string, totalAmount float64) (*plan.Eligibility, error)
}

// CreditBalanceReader is the backend collaborator exposing a user's
// available credits.
type CreditBalanceReader interface {
	GetCreditBalance(ctx context.Context, userID string) (*plan.CreditBalance, error)
}

// PlanCreator is the backend collaborator that persists a confirmed plan.
type PlanCreator interface {
	CreateInstallmentPlan(ctx context.Context, candidate *plan.InstallmentPlan) (*plan.InstallmentPlan, error)
}

// Controller drives one user's flow through the three stages. It is not safe
// for concurrent use; each flow operates on its own controller.
type Controller struct {
	governor    *engine.Governor
	eligibility EligibilityChecker
	credits     CreditBalanceReader
	plans       PlanCreator
	logger      *zap.Logger

	stage       Stage
	userID      string
	formationID string
	totalAmount float64
	startDate   time.Time

	verdict *plan.Eligibility
	credit  *plan.CreditBalance
	current *engine.Result
	created *plan.InstallmentPlan
}

// NewController creates a controller in the eligibility stage.
func NewController(governor *engine.Governor, eligibility EligibilityChecker, credits CreditBalanceReader, plans PlanCreator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		governor:    governor,
		eligibility: eligibility,
		credits:     credits,
		plans:       plans,
		logger:      logger,
		stage:       StageEligibility,
	}
}

// Stage returns the controller's current stage.
func (c *Controller) Stage() Stage {
	return c.stage
}

// Eligibility returns the backend verdict fetched at flow entry, or nil if
// the flow has not been entered.
func (c *Controller) Eligibility() *plan.Eligibility {
	return c.verdict
}

// Current returns the latest recomputation, or nil before the first
// parameter update.
func (c *Controller) Current() *engine.Result {
	return c.current
}

// CreatedPlan returns the persisted plan after a successful confirmation.
func (c *Controller) CreatedPlan() *plan.InstallmentPlan {
	return c.created
}

// EnterFlow fetches the eligibility verdict and credit balance for the given
// user and product. The two reads run concurrently and both must complete;
// cancelling the context abandons the flow entry and neither result is kept.
func (c *Controller) EnterFlow(ctx context.Context, userID, formationID string, totalAmount float64, startDate time.Time) error {
	if totalAmount <= 0 {
		return fmt.Errorf("%w: totalAmount=%.2f", engine.ErrInvalidAmount, totalAmount)
	}

	type eligibilityReply struct {
		verdict *plan.Eligibility
		err     error
	}
	type creditReply struct {
		credit *plan.CreditBalance
		err    error
	}

	eligibilityCh := make(chan eligibilityReply, 1)
	creditCh := make(chan creditReply, 1)

	go func() {
		verdict, err := c.eligibility.CheckEligibility(ctx, userID, formationID, totalAmount)
		eligibilityCh <- eligibilityReply{verdict: verdict, err: err}
	}()
	go func() {
		credit, err := c.credits.GetCreditBalance(ctx, userID)
		creditCh <- creditReply{credit: credit, err: err}
	}()

	var verdict *plan.Eligibility
	var credit *plan.CreditBalance
	for i := 0; i < 2; i++ {
		select {
		case reply := <-eligibilityCh:
			if reply.err != nil {
				return fmt.Errorf("checking eligibility: %w", reply.err)
			}
			verdict = reply.verdict
		case reply := <-creditCh:
			if reply.err != nil {
				return fmt.Errorf("reading credit balance: %w", reply.err)
			}
			credit = reply.credit
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.userID = userID
	c.formationID = formationID
	c.totalAmount = totalAmount
	c.startDate = startDate
	c.verdict = verdict
	c.credit = credit
	c.stage = StageEligibility

	c.logger.Debug("entered installment flow",
		zap.String("op", "lifecycle.EnterFlow"),
		zap.String("userId", userID),
		zap.Bool("eligible", verdict != nil && verdict.IsEligible),
	)

	return nil
}

// AdvanceToCalculator moves from the eligibility stage to the calculator.
// Fails with ErrIneligible when the backend verdict forbids it; the rejection
// reasons stay available through Eligibility.
func (c *Controller) AdvanceToCalculator() error {
	if c.stage != StageEligibility {
		return fmt.Errorf("%w: stage=%s", ErrWrongStage, c.stage)
	}
	if c.verdict == nil || !c.verdict.IsEligible {
		return ErrIneligible
	}
	c.stage = StageCalculator
	return nil
}

// UpdateParameters clamps the parameters, recomputes the amortization result
// and schedule, and republishes them. Only valid in the calculator stage.
func (c *Controller) UpdateParameters(params plan.PlanParameters) (*engine.Result, error) {
	if c.stage != StageCalculator {
		return nil, fmt.Errorf("%w: stage=%s", ErrWrongStage, c.stage)
	}
	params.TotalAmount = c.totalAmount

	result, err := c.governor.Apply(params, c.verdict, c.startDate)
	if err != nil {
		return nil, err
	}
	c.current = result
	return result, nil
}

// Confirm assembles the plan candidate from the latest computation and hands
// it to the persistence collaborator. On success the controller reaches the
// terminal confirmation stage; on failure it returns to the calculator stage
// with no automatic retry.
func (c *Controller) Confirm(ctx context.Context) (*plan.InstallmentPlan, error) {
	if c.stage != StageCalculator {
		return nil, fmt.Errorf("%w: stage=%s", ErrWrongStage, c.stage)
	}
	if c.current == nil {
		return nil, ErrNoComputation
	}

	guarantee := c.totalAmount * constants.CreditGuaranteeRate
	if c.credit != nil {
		guarantee = mathutil.Min(c.credit.AvailableCredits, guarantee)
	}

	candidate := &plan.InstallmentPlan{
		Reference:       uuid.NewString(),
		UserID:          c.userID,
		FormationID:     c.formationID,
		Parameters:      c.current.Parameters,
		Amortization:    c.current.Amortization,
		Schedule:        c.current.Schedule,
		CreditGuarantee: mathutil.Round(guarantee),
		CreatedAt:       time.Now().UTC(),
	}

	created, err := c.plans.CreateInstallmentPlan(ctx, candidate)
	if err != nil {
		c.stage = StageCalculator
		c.logger.Warn("plan persistence failed",
			zap.String("op", "lifecycle.Confirm"),
			zap.String("reference", candidate.Reference),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	c.created = created
	c.stage = StageConfirmation

	c.logger.Info("installment plan created",
		zap.String("op", "lifecycle.Confirm"),
		zap.String("planId", created.ID),
		zap.String("status", string(created.Status)),
	)

	return created, nil
}

// Reset returns the controller to the eligibility stage and clears all
// derived state. This is the only escape path out of the flow.
func (c *Controller) Reset() {
	c.stage = StageEligibility
	c.verdict = nil
	c.credit = nil
	c.current = nil
	c.created = nil
}
