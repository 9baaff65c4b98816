package dmmf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawDocument = `{
  "datamodel": {
    "models": [{
      "name": "User",
      "fields": [
        {"name": "id", "kind": "scalar", "type": "Int", "isList": false, "isRequired": true, "isId": true, "isUnique": false, "hasDefaultValue": false},
        {"name": "role", "kind": "enum", "type": "Role", "isList": false, "isRequired": true, "isId": false, "isUnique": false, "hasDefaultValue": true, "default": {"kind": "enum", "value": "USER"}},
        {"name": "posts", "kind": "object", "type": "Post", "isList": true, "isRequired": true, "isId": false, "isUnique": false, "hasDefaultValue": false, "relationName": "PostToUser"}
      ],
      "idFields": ["id"]
    }],
    "enums": [{"name": "Role", "values": [{"name": "USER"}, {"name": "ADMIN"}]}]
  },
  "mappings": [{
    "model": "User", "plural": "users",
    "findOne": "findOneUser", "findMany": "findManyUser", "create": "createOneUser",
    "update": "updateOneUser", "delete": "deleteOneUser", "count": "countUser"
  }]
}`

func TestParseClass(t *testing.T) {
	c, err := ParseClass([]byte(rawDocument))
	require.NoError(t, err)

	t.Run("lookups", func(t *testing.T) {
		user, ok := c.Model("User")
		require.True(t, ok)
		assert.Equal(t, []string{"id"}, user.IDFields)

		role, ok := c.Enum("Role")
		require.True(t, ok)
		assert.Len(t, role.Values, 2)

		m, ok := c.Mapping("User")
		require.True(t, ok)
		assert.Equal(t, "users", m.Plural)

		_, ok = c.Model("Post")
		assert.False(t, ok)
	})

	t.Run("resolve action", func(t *testing.T) {
		tests := map[string]Action{
			"findOneUser":   ActionFindOne,
			"findManyUser":  ActionFindMany,
			"createOneUser": ActionCreate,
			"updateOneUser": ActionUpdate,
			"deleteOneUser": ActionDelete,
			"countUser":     ActionCount,
		}
		for name, want := range tests {
			m, action, ok := c.ResolveAction(name)
			require.True(t, ok, name)
			assert.Equal(t, "User", m.Name)
			assert.Equal(t, want, action)
		}
		_, _, ok := c.ResolveAction("upsertOneUser")
		assert.False(t, ok)
	})

	t.Run("fields", func(t *testing.T) {
		user, _ := c.Model("User")
		posts, ok := user.Field("posts")
		require.True(t, ok)
		assert.True(t, posts.IsRelation())

		role, _ := user.Field("role")
		require.NotNil(t, role.Default)
		assert.Equal(t, DefaultEnum, role.Default.Kind)

		scalars := user.ScalarFields()
		require.Len(t, scalars, 2)
		assert.Equal(t, "id", scalars[0].Name)
		assert.Equal(t, "role", scalars[1].Name)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseClass([]byte("{"))
		assert.Error(t, err)
	})
}
