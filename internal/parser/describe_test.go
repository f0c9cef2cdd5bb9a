package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescribe(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := `{
			"name": "Contact",
			"label": "Contact",
			"custom": false,
			"queryable": true,
			"keyPrefix": "003",
			"fields": [
				{
					"name": "AccountId",
					"label": "Account ID",
					"type": "reference",
					"referenceTo": ["Account"],
					"relationshipName": "Account",
					"relationshipOrder": null,
					"nillable": true
				}
			],
			"childRelationships": [
				{"childSObject": "Case", "field": "ContactId", "cascadeDelete": false}
			]
		}`

		desc, err := ParseDescribe([]byte(payload))
		require.NoError(t, err)

		assert.Equal(t, "Contact", desc.Name)
		require.NotNil(t, desc.KeyPrefix)
		assert.Equal(t, "003", *desc.KeyPrefix)
		require.Len(t, desc.Fields, 1)
		assert.Equal(t, []string{"Account"}, desc.Fields[0].ReferenceTo)
		assert.Nil(t, desc.Fields[0].RelationshipOrder)
		require.Len(t, desc.ChildRelationships, 1)
		assert.Equal(t, "Case", desc.ChildRelationships[0].ChildSObject)
	})

	t.Run("null keyPrefix decodes to nil", func(t *testing.T) {
		desc, err := ParseDescribe([]byte(`{"name": "Task", "keyPrefix": null, "fields": []}`))
		require.NoError(t, err)
		assert.Nil(t, desc.KeyPrefix)
	})

	t.Run("unknown attributes are ignored", func(t *testing.T) {
		desc, err := ParseDescribe([]byte(`{"name": "Account", "urls": {"describe": "/x"}, "actionOverrides": []}`))
		require.NoError(t, err)
		assert.Equal(t, "Account", desc.Name)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := ParseDescribe(nil)
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseDescribe([]byte(`{"name":`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal")
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseDescribe([]byte(`{"label": "Anonymous"}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing name")
	})
}

func TestParseObjectList(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := `{
			"encoding": "UTF-8",
			"maxBatchSize": 200,
			"sobjects": [
				{"name": "Account", "label": "Account", "queryable": true, "keyPrefix": "001"},
				{"name": "Contact", "label": "Contact", "queryable": true, "keyPrefix": "003"}
			]
		}`

		list, err := ParseObjectList([]byte(payload))
		require.NoError(t, err)

		require.Len(t, list.Sobjects, 2)
		assert.Equal(t, "Account", list.Sobjects[0].Name)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := ParseObjectList(nil)
		assert.Error(t, err)
	})

	t.Run("missing sobjects", func(t *testing.T) {
		_, err := ParseObjectList([]byte(`{"encoding": "UTF-8"}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing sobjects")
	})
}
