package amqp

import (
	"encoding/json"
	"time"

	"ledger/internal/ledger"
)

// TransactionChangeMessage announces a committed ledger mutation.
// It carries only ids and affected years; consumers read the current
// state from storage.
type TransactionChangeMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Years     []int     `json:"years"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionChangeMessage(c ledger.Change) *TransactionChangeMessage {
	years := append([]int(nil), c.Years...)
	return &TransactionChangeMessage{
		ID:        c.ID,
		Kind:      string(c.Kind),
		Years:     years,
		Revision:  c.Revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangeMessageFromJSON decodes a message body.
func TransactionChangeMessageFromJSON(data []byte) (*TransactionChangeMessage, error) {
	var msg TransactionChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
