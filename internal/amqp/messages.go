package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entity types carried by ledger events.
const (
	EntityExpense             = "expense"
	EntityIncome              = "income"
	EntityBudget              = "budget"
	EntityBillPayment         = "bill_payment"
	EntityDebtPayment         = "debt_payment"
	EntitySavingsContribution = "savings_contribution"
	EntitySettlement          = "settlement"
)

// Operations carried by ledger events.
const (
	OperationCreated = "created"
	OperationUpdated = "updated"
	OperationDeleted = "deleted"
)

// LedgerEventMessage announces a ledger write so downstream consumers
// can react without the API waiting on them. It carries identifiers
// only; consumers re-read the entity from the store.
type LedgerEventMessage struct {
	EventID     string    `json:"eventId"`
	EntityType  string    `json:"entityType"`
	Operation   string    `json:"operation"`
	EntityID    int64     `json:"entityId"`
	HouseholdID int64     `json:"householdId"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event for a ledger write.
func NewLedgerEventMessage(entityType, operation string, entityID, householdID int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		EventID:     uuid.NewString(),
		EntityType:  entityType,
		Operation:   operation,
		EntityID:    entityID,
		HouseholdID: householdID,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BillReminderMessage is emitted by the reminder worker for each bill
// approaching its due date.
type BillReminderMessage struct {
	EventID      string    `json:"eventId"`
	BillID       int64     `json:"billId"`
	HouseholdID  int64     `json:"householdId"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"dueDate"`
	DaysUntilDue int       `json:"daysUntilDue"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewBillReminderMessage creates a reminder for an upcoming bill.
func NewBillReminderMessage(billID, householdID int64, description string, dueDate time.Time, daysUntilDue int) *BillReminderMessage {
	return &BillReminderMessage{
		EventID:      uuid.NewString(),
		BillID:       billID,
		HouseholdID:  householdID,
		Description:  description,
		DueDate:      dueDate,
		DaysUntilDue: daysUntilDue,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillReminderMessageFromJSON creates a message from JSON bytes
func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
