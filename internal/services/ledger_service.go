package services

import (
	"context"
	"fmt"

	"hearth/internal/amqp"
	"hearth/internal/core"
	"hearth/internal/log"
)

// LedgerStore is the write surface for ledger entities whose mutations
// emit events.
type LedgerStore interface {
	CreateExpense(ctx context.Context, e *core.Expense) error
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, householdID, id int64) error

	CreateIncome(ctx context.Context, in *core.Income) error
	UpdateIncome(ctx context.Context, in core.Income) error
	DeleteIncome(ctx context.Context, householdID, id int64) error

	CreateBudget(ctx context.Context, b *core.Budget) error
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, householdID, id int64) error

	CreateBillPayment(ctx context.Context, householdID int64, p *core.BillPayment) error

	CreateDebtPayment(ctx context.Context, householdID int64, p *core.DebtPayment) error
	UpdateDebtPayment(ctx context.Context, householdID int64, p core.DebtPayment) error
	DeleteDebtPayment(ctx context.Context, householdID, debtID, paymentID int64) error

	CreateSavingsContribution(ctx context.Context, householdID int64, c *core.SavingsContribution) error
	DeleteSavingsContribution(ctx context.Context, householdID, goalID, contributionID int64) error

	CreateSettlement(ctx context.Context, st *core.Settlement) error
	DeleteSettlement(ctx context.Context, householdID, id int64) error
}

// EventPublisher emits ledger events. A nil publisher disables events.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// LedgerService is the write path for ledger entities. Writes hit the
// store first; the event publish is best-effort and never fails the
// request, the mutation already committed.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
}

func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

func (s *LedgerService) publishEvent(ctx context.Context, entityType, operation string, entityID, householdID int64) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewLedgerEventMessage(entityType, operation, entityID, householdID)
	if err := s.publisher.PublishLedgerEvent(ctx, msg); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to publish ledger event",
			"entity_type", entityType,
			log.FieldOperation, operation,
			log.FieldHouseholdID, householdID,
			log.FieldError, err)
	}
}

func (s *LedgerService) CreateExpense(ctx context.Context, e *core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityExpense, amqp.OperationCreated, e.ID, e.HouseholdID)
	return nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityExpense, amqp.OperationUpdated, e.ID, e.HouseholdID)
	return nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, householdID, id int64) error {
	if err := s.store.DeleteExpense(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityExpense, amqp.OperationDeleted, id, householdID)
	return nil
}

func (s *LedgerService) CreateIncome(ctx context.Context, in *core.Income) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateIncome(ctx, in); err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityIncome, amqp.OperationCreated, in.ID, in.HouseholdID)
	return nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, in core.Income) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateIncome(ctx, in); err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityIncome, amqp.OperationUpdated, in.ID, in.HouseholdID)
	return nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, householdID, id int64) error {
	if err := s.store.DeleteIncome(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityIncome, amqp.OperationDeleted, id, householdID)
	return nil
}

func (s *LedgerService) CreateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityBudget, amqp.OperationCreated, b.ID, b.HouseholdID)
	return nil
}

func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityBudget, amqp.OperationUpdated, b.ID, b.HouseholdID)
	return nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, householdID, id int64) error {
	if err := s.store.DeleteBudget(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityBudget, amqp.OperationDeleted, id, householdID)
	return nil
}

func (s *LedgerService) CreateBillPayment(ctx context.Context, householdID int64, p *core.BillPayment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateBillPayment(ctx, householdID, p); err != nil {
		return fmt.Errorf("create bill payment: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityBillPayment, amqp.OperationCreated, p.ID, householdID)
	return nil
}

func (s *LedgerService) CreateDebtPayment(ctx context.Context, householdID int64, p *core.DebtPayment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateDebtPayment(ctx, householdID, p); err != nil {
		return fmt.Errorf("create debt payment: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityDebtPayment, amqp.OperationCreated, p.ID, householdID)
	return nil
}

func (s *LedgerService) UpdateDebtPayment(ctx context.Context, householdID int64, p core.DebtPayment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateDebtPayment(ctx, householdID, p); err != nil {
		return fmt.Errorf("update debt payment: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityDebtPayment, amqp.OperationUpdated, p.ID, householdID)
	return nil
}

func (s *LedgerService) DeleteDebtPayment(ctx context.Context, householdID, debtID, paymentID int64) error {
	if err := s.store.DeleteDebtPayment(ctx, householdID, debtID, paymentID); err != nil {
		return fmt.Errorf("delete debt payment: %w", err)
	}
	s.publishEvent(ctx, amqp.EntityDebtPayment, amqp.OperationDeleted, paymentID, householdID)
	return nil
}

func (s *LedgerService) CreateSavingsContribution(ctx context.Context, householdID int64, c *core.SavingsContribution) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateSavingsContribution(ctx, householdID, c); err != nil {
		return fmt.Errorf("create savings contribution: %w", err)
	}
	s.publishEvent(ctx, amqp.EntitySavingsContribution, amqp.OperationCreated, c.ID, householdID)
	return nil
}

func (s *LedgerService) DeleteSavingsContribution(ctx context.Context, householdID, goalID, contributionID int64) error {
	if err := s.store.DeleteSavingsContribution(ctx, householdID, goalID, contributionID); err != nil {
		return fmt.Errorf("delete savings contribution: %w", err)
	}
	s.publishEvent(ctx, amqp.EntitySavingsContribution, amqp.OperationDeleted, contributionID, householdID)
	return nil
}

func (s *LedgerService) CreateSettlement(ctx context.Context, st *core.Settlement) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateSettlement(ctx, st); err != nil {
		return fmt.Errorf("create settlement: %w", err)
	}
	s.publishEvent(ctx, amqp.EntitySettlement, amqp.OperationCreated, st.ID, st.HouseholdID)
	return nil
}

func (s *LedgerService) DeleteSettlement(ctx context.Context, householdID, id int64) error {
	if err := s.store.DeleteSettlement(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete settlement: %w", err)
	}
	s.publishEvent(ctx, amqp.EntitySettlement, amqp.OperationDeleted, id, householdID)
	return nil
}
