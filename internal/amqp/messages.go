package amqp

import (
	"encoding/json"
	"time"
)

// RunCompletedMessage announces one finished forecast run. It carries
// only the run id and enough context for the report worker to label a
// row; the worker fetches details from the database when it needs more.
type RunCompletedMessage struct {
	RunID     int64     `json:"run_id"`
	Sheet     string    `json:"sheet"`
	Concepto  string    `json:"concepto"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRunCompletedMessage(runID int64, sheet, concepto, model string) *RunCompletedMessage {
	return &RunCompletedMessage{
		RunID:     runID,
		Sheet:     sheet,
		Concepto:  concepto,
		Model:     model,
		Timestamp: time.Now(),
	}
}

func (m *RunCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RunCompletedMessageFromJSON(data []byte) (*RunCompletedMessage, error) {
	var msg RunCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
