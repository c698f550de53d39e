package uds

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

var reqCounter atomic.Uint64

// MsgType identifies the kind of message.
type MsgType string

const (
	MsgTypeReq MsgType = "req"
	MsgTypeRes MsgType = "res"
)

// Message is the NDJSON envelope for all communication.
type Message struct {
	Type   MsgType         `json:"type"`
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// UnmarshalData decodes the message payload into v.
func (m Message) UnmarshalData(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s: empty payload", m.Method)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("%s: decode payload: %w", m.Method, err)
	}
	return nil
}

// NewRequest creates a new request message with a unique ID.
func NewRequest(method string, data any) (Message, error) {
	id := fmt.Sprintf("req-%d", reqCounter.Add(1))
	raw, err := marshalData(data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:   MsgTypeReq,
		ID:     id,
		Method: method,
		Data:   raw,
	}, nil
}

// NewResponse creates a response to a request.
func NewResponse(reqID, method string, data any) (Message, error) {
	raw, err := marshalData(data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:   MsgTypeRes,
		ID:     reqID,
		Method: method,
		Data:   raw,
	}, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(reqID, method, errMsg string) Message {
	return Message{
		Type:   MsgTypeRes,
		ID:     reqID,
		Method: method,
		Error:  errMsg,
	}
}

func marshalData(data any) (json.RawMessage, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Methods
const (
	MethodPing   = "Ping"
	MethodRead   = "Read"
	MethodStatus = "Status"
)

// PingResponse is the response to a Ping request.
type PingResponse struct {
	Pong bool `json:"pong"`
}

// ReadResponse carries the joined console lines.
type ReadResponse struct {
	Text string `json:"text"`
}

// StatusResponse describes the console connection and buffer.
type StatusResponse struct {
	State     string    `json:"state"`
	Socket    string    `json:"socket"`
	Policy    string    `json:"policy"`
	Lines     int       `json:"lines"`
	Capacity  int       `json:"capacity"`
	Received  uint64    `json:"received"`
	Connects  uint64    `json:"connects"`
	Failures  int       `json:"failures"`
	LastError string    `json:"last_error,omitempty"`
	Since     time.Time `json:"since"`
	Bus       string    `json:"bus,omitempty"`
	UptimeSec uint64    `json:"uptime_sec"`
}
