package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/inventory/services/inventory/domain"
)

func TestItem_RoundTripKeepsExtraFields(t *testing.T) {
	in := `{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP","rarity":"common","stats":{"hp":50}}`

	var item Item
	require.NoError(t, json.Unmarshal([]byte(in), &item))
	assert.Equal(t, "item1", item.ID)
	assert.Equal(t, "Health Potion", item.Name)
	assert.Len(t, item.Extra, 2)

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestItem_NonStringModeledFieldReadsAsAbsent(t *testing.T) {
	var item Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"name":"x","type":"t","effect":"e"}`), &item))
	assert.Empty(t, item.ID)
	assert.NotContains(t, item.Extra, "id")
}

func TestItem_UnmarshalRejectsNonObject(t *testing.T) {
	var item Item
	assert.Error(t, json.Unmarshal([]byte(`"item1"`), &item))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &item))
}

func TestItem_CloneIsIndependent(t *testing.T) {
	orig := &Item{ID: "item1", Name: "a", Type: "b", Effect: "c", Extra: Fields{"k": json.RawMessage(`1`)}}
	cp := orig.Clone()
	cp.Name = "changed"
	cp.Extra["k"] = json.RawMessage(`2`)

	assert.Equal(t, "a", orig.Name)
	assert.Equal(t, json.RawMessage(`1`), orig.Extra["k"])
	assert.Nil(t, (*Item)(nil).Clone())
}

func TestItem_Apply(t *testing.T) {
	base := &Item{ID: "item1", Name: "Health Potion", Type: "Consumable", Effect: "Restores 50 HP"}

	t.Run("merges shallowly", func(t *testing.T) {
		got, err := base.Apply(Patch{
			"effect": json.RawMessage(`"Restores 75 HP"`),
			"rarity": json.RawMessage(`"rare"`),
		})
		require.NoError(t, err)
		assert.Equal(t, "Restores 75 HP", got.Effect)
		assert.Equal(t, "Health Potion", got.Name)
		assert.Equal(t, json.RawMessage(`"rare"`), got.Extra["rarity"])
		assert.Equal(t, "Restores 50 HP", base.Effect, "receiver must not change")
	})

	t.Run("same id is allowed", func(t *testing.T) {
		got, err := base.Apply(Patch{"id": json.RawMessage(`"item1"`)})
		require.NoError(t, err)
		assert.Equal(t, "item1", got.ID)
	})

	t.Run("changed id is rejected", func(t *testing.T) {
		_, err := base.Apply(Patch{"id": json.RawMessage(`"item2"`)})
		assert.ErrorIs(t, err, domain.ErrIDImmutable)
	})

	t.Run("non-string modeled field clears it", func(t *testing.T) {
		got, err := base.Apply(Patch{"name": json.RawMessage(`42`)})
		require.NoError(t, err)
		assert.Empty(t, got.Name)
	})
}

func TestUser_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantItems []string
		wantErr   bool
	}{
		{"items absent", `{"id":"u","name":"n","email":"e"}`, nil, false},
		{"items null", `{"id":"u","name":"n","email":"e","items":null}`, []string{}, false},
		{"items listed", `{"id":"u","name":"n","email":"e","items":["a","b"]}`, []string{"a", "b"}, false},
		{"items not array", `{"id":"u","name":"n","email":"e","items":"a"}`, nil, true},
		{"items not strings", `{"id":"u","name":"n","email":"e","items":[1]}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u User
			err := json.Unmarshal([]byte(tt.in), &u)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantItems, u.Items)
		})
	}
}

func TestUser_MarshalNilItemsAsEmptyArray(t *testing.T) {
	out, err := json.Marshal(User{ID: "u", Name: "n", Email: "e"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u","name":"n","email":"e","items":[]}`, string(out))
}

func TestUser_Apply(t *testing.T) {
	base := &User{ID: "user1", Name: "John", Email: "john@x.com", Items: []string{"item1"}}

	got, err := base.Apply(Patch{"items": json.RawMessage(`["item1","item2"]`), "age": json.RawMessage(`30`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"item1", "item2"}, got.Items)
	assert.Equal(t, []string{"item1"}, base.Items)
	assert.Equal(t, json.RawMessage(`30`), got.Extra["age"])

	got, err = base.Apply(Patch{"items": json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Items)

	_, err = base.Apply(Patch{"items": json.RawMessage(`{"a":1}`)})
	assert.ErrorIs(t, err, domain.ErrMalformedField)

	_, err = base.Apply(Patch{"id": json.RawMessage(`"user2"`)})
	assert.ErrorIs(t, err, domain.ErrIDImmutable)
}

func TestEnrichedUser_MarshalRendersDanglingAsNull(t *testing.T) {
	e := EnrichedUser{
		User:  &User{ID: "user1", Name: "John", Email: "john@x.com", Items: []string{"item1", "gone"}, Extra: Fields{"age": json.RawMessage(`30`)}},
		Items: []*Item{{ID: "item1", Name: "Health Potion", Type: "Consumable", Effect: "Restores 50 HP"}, nil},
	}
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"user1","name":"John","email":"john@x.com","age":30,
		"items":[{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP"},null]
	}`, string(out))
}

func TestBatch_Unmarshal(t *testing.T) {
	var single Batch
	require.NoError(t, json.Unmarshal([]byte(` {"id":"item1"} `), &single))
	require.Len(t, single, 1)
	assert.JSONEq(t, `{"id":"item1"}`, string(single[0]))

	var many Batch
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"a"},{"id":"b"},3]`), &many))
	assert.Len(t, many, 3)

	var empty Batch
	require.NoError(t, json.Unmarshal([]byte(`[]`), &empty))
	assert.Empty(t, empty)
}

func TestBatch_DecodeCandidates(t *testing.T) {
	b := Batch{
		json.RawMessage(`{"id":"item1","name":"a","type":"b","effect":"c"}`),
		json.RawMessage(`"not an object"`),
	}
	items := b.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "item1", items[0].ID)
	assert.Nil(t, items[1])

	users := Batch{
		json.RawMessage(`{"id":"user1","name":"n","email":"e","items":["item1"]}`),
		json.RawMessage(`{"id":"user2","items":"item1"}`),
	}.Users()
	require.Len(t, users, 2)
	assert.Equal(t, []string{"item1"}, users[0].Items)
	assert.Nil(t, users[1])
}
