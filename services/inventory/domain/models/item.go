package models

import (
	"encoding/json"

	"github.com/ghuser/inventory/services/inventory/domain"
)

// Item is a catalog entry. Identity is ID; fields beyond the four modeled
// ones are carried in Extra and passed through untouched.
type Item struct {
	ID     string `json:"id"     validate:"required" example:"item1"`
	Name   string `json:"name"   validate:"required" example:"Health Potion"`
	Type   string `json:"type"   validate:"required" example:"Consumable"`
	Effect string `json:"effect" validate:"required" example:"Restores 50 HP"`
	Extra  Fields `json:"-"`
} // @name Item

// UnmarshalJSON decodes a JSON object. A modeled key whose value is not a
// JSON string is treated as absent.
func (i *Item) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*i = Item{
		ID:     takeString(raw, "id"),
		Name:   takeString(raw, "name"),
		Type:   takeString(raw, "type"),
		Effect: takeString(raw, "effect"),
		Extra:  nonEmpty(raw),
	}
	return nil
}

// MarshalJSON renders the item as one flat object including Extra fields.
func (i Item) MarshalJSON() ([]byte, error) {
	doc := i.Extra.document(4)
	doc["id"] = i.ID
	doc["name"] = i.Name
	doc["type"] = i.Type
	doc["effect"] = i.Effect
	return json.Marshal(doc)
}

// Clone returns a deep copy safe to hand out of the store.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	out.Extra = i.Extra.Clone()
	return &out
}

// Apply returns a copy of the item with p shallow-merged on top.
// The id may be repeated but not changed. A modeled field set to a non-string
// value is cleared; callers re-validate the result.
func (i *Item) Apply(p Patch) (*Item, error) {
	out := i.Clone()
	for k, v := range p {
		switch k {
		case "id":
			if id, ok := rawString(v); !ok || id != i.ID {
				return nil, domain.ErrIDImmutable
			}
		case "name":
			out.Name, _ = rawString(v)
		case "type":
			out.Type, _ = rawString(v)
		case "effect":
			out.Effect, _ = rawString(v)
		default:
			if out.Extra == nil {
				out.Extra = Fields{}
			}
			out.Extra[k] = v
		}
	}
	return out, nil
}
