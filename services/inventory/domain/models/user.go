package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ghuser/inventory/services/inventory/domain"
)

// User owns an ordered list of item ids. Identity is ID; unmodeled fields are
// carried in Extra.
type User struct {
	ID    string   `json:"id"    validate:"required" example:"user1"`
	Name  string   `json:"name"  validate:"required" example:"John"`
	Email string   `json:"email" validate:"required" example:"john@x.com"`
	Items []string `json:"items" example:"item1"`
	Extra Fields   `json:"-"`
} // @name User

// UnmarshalJSON decodes a JSON object. A modeled string key holding another
// JSON type reads as absent; "items" must be null or an array of strings.
func (u *User) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	var items []string
	if v, ok := raw["items"]; ok {
		delete(raw, "items")
		if items, err = rawStrings(v); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
	}
	*u = User{
		ID:    takeString(raw, "id"),
		Name:  takeString(raw, "name"),
		Email: takeString(raw, "email"),
		Items: items,
		Extra: nonEmpty(raw),
	}
	return nil
}

// MarshalJSON renders the user as one flat object; a nil Items renders as [].
func (u User) MarshalJSON() ([]byte, error) {
	doc := u.document()
	items := u.Items
	if items == nil {
		items = []string{}
	}
	doc["items"] = items
	return json.Marshal(doc)
}

func (u *User) document() map[string]any {
	doc := u.Extra.document(4)
	doc["id"] = u.ID
	doc["name"] = u.Name
	doc["email"] = u.Email
	return doc
}

// Clone returns a deep copy safe to hand out of the store.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Items = slices.Clone(u.Items)
	out.Extra = u.Extra.Clone()
	return &out
}

// Apply returns a copy of the user with p shallow-merged on top. The id may be
// repeated but not changed; "items" must be null or an array of strings.
func (u *User) Apply(p Patch) (*User, error) {
	out := u.Clone()
	for k, v := range p {
		switch k {
		case "id":
			if id, ok := rawString(v); !ok || id != u.ID {
				return nil, domain.ErrIDImmutable
			}
		case "name":
			out.Name, _ = rawString(v)
		case "email":
			out.Email, _ = rawString(v)
		case "items":
			items, err := rawStrings(v)
			if err != nil {
				return nil, fmt.Errorf("%w: items: %w", domain.ErrMalformedField, err)
			}
			out.Items = items
		default:
			if out.Extra == nil {
				out.Extra = Fields{}
			}
			out.Extra[k] = v
		}
	}
	return out, nil
}

// EnrichedUser is a user whose item ids have been resolved against the
// current items collection. Items[i] is nil when the i-th id no longer exists.
type EnrichedUser struct {
	User  *User
	Items []*Item
}

// MarshalJSON renders the user with "items" holding full item objects;
// dangling references render as null.
func (e EnrichedUser) MarshalJSON() ([]byte, error) {
	doc := e.User.document()
	items := e.Items
	if items == nil {
		items = []*Item{}
	}
	doc["items"] = items
	return json.Marshal(doc)
}
