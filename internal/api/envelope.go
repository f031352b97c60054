package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the uniform result shape of every command.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// OK wraps a payload in a successful envelope. A nil payload, including a
// typed nil pointer, produces a success envelope without data.
func OK(payload any) Envelope {
	if payload == nil {
		return Envelope{Success: true}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Fail(fmt.Errorf("encode payload: %w", err))
	}
	if string(data) == "null" {
		return Envelope{Success: true}
	}
	return Envelope{Success: true, Data: data}
}

// Fail wraps an error in a failed envelope.
func Fail(err error) Envelope {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	return Envelope{Success: false, Error: message}
}

// Decode unmarshals the envelope data into target. It fails on error
// envelopes so callers cannot silently read an empty payload.
func (e Envelope) Decode(target any) error {
	if !e.Success {
		if e.Error == "" {
			return errors.New("command failed")
		}
		return errors.New(e.Error)
	}
	if target == nil || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, target)
}

// Err returns the envelope error as an error value, or nil for successes.
func (e Envelope) Err() error {
	if e.Success {
		return nil
	}
	if e.Error == "" {
		return errors.New("command failed")
	}
	return errors.New(e.Error)
}
