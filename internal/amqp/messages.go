package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finassist/internal/core"
)

// EventTransactionRecorded is the AMQP message type for new ledger records.
const EventTransactionRecorded = "transaction.recorded"

var ErrInvalidMessage = errors.New("invalid message")

// TransactionRecordedMessage announces a newly stored expense or income.
type TransactionRecordedMessage struct {
	MessageID   string    `json:"message_id"`
	Kind        core.Kind `json:"kind"`
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionRecordedMessage builds a message for tx with a fresh id.
func NewTransactionRecordedMessage(tx core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		MessageID:   uuid.NewString(),
		Kind:        tx.Kind,
		ID:          tx.ID,
		Date:        tx.Date,
		AmountCents: tx.Amount.Cents,
		Timestamp:   time.Now().UTC(),
	}
}

// Month returns the YYYY-MM the recorded transaction falls in.
func (m *TransactionRecordedMessage) Month() (string, error) {
	d, err := core.ParseDate(m.Date)
	if err != nil {
		return "", err
	}
	return core.FormatMonth(d), nil
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedMessageFromJSON decodes and checks a message body.
func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.MessageID == "" {
		return nil, fmt.Errorf("%w: missing message_id", ErrInvalidMessage)
	}
	if err := msg.Kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return &msg, nil
}
