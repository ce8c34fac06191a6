package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransactionSyncMessage asks the sync worker to export one ledger row to the
// Sheets replica. Version lets the worker skip stale notifications.
type TransactionSyncMessage struct {
	TransactionID int64     `json:"transaction_id"`
	Version       int64     `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(transactionID, version int64) TransactionSyncMessage {
	return TransactionSyncMessage{
		TransactionID: transactionID,
		Version:       version,
		Timestamp:     time.Now().UTC(),
	}
}

func (m TransactionSyncMessage) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal sync message: %w", err)
	}
	return data, nil
}

func FromJSON(data []byte) (TransactionSyncMessage, error) {
	var m TransactionSyncMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return TransactionSyncMessage{}, fmt.Errorf("unmarshal sync message: %w", err)
	}
	if m.TransactionID == 0 {
		return TransactionSyncMessage{}, fmt.Errorf("sync message missing transaction_id")
	}
	return m, nil
}
