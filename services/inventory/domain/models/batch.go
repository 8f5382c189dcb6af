package models

import (
	"bytes"
	"encoding/json"
)

// Batch is a create request body: either one JSON object or an array of them.
// Each element is kept raw so a malformed candidate fails on its own.
type Batch []json.RawMessage

// UnmarshalJSON accepts a single value or an array of values.
func (b *Batch) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return err
		}
		*b = elems
		return nil
	}
	*b = Batch{append(json.RawMessage(nil), trimmed...)}
	return nil
}

// Items decodes each candidate. A candidate that is not a JSON object decodes
// to nil and is rejected downstream as missing required fields.
func (b Batch) Items() []*Item {
	out := make([]*Item, len(b))
	for i, raw := range b {
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		out[i] = &item
	}
	return out
}

// Users decodes each candidate. Non-objects and candidates whose "items" is
// not an array of strings decode to nil.
func (b Batch) Users() []*User {
	out := make([]*User, len(b))
	for i, raw := range b {
		var user User
		if err := json.Unmarshal(raw, &user); err != nil {
			continue
		}
		out[i] = &user
	}
	return out
}

// Result reports the outcome for one create candidate, in request order.
type Result struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Item item1 added successfully"`
	// ID is the candidate id, empty when the candidate had none.
	ID string `json:"-"`
} // @name Result
