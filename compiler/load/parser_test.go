package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/photon/runtime/dmmf"
)

const blogSchema = `datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}

generator photon {
  provider = "photonjs"
  output   = "./generated" // relative to the schema
}

/// A registered author.
model User {
  id        String   @id @default(cuid())
  email     String   @unique
  name      String?  @map("display_name")
  role      Role     @default(USER)
  posts     Post[]
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt

  @@map("users")
}

model Post {
  id       Int      @id @default(autoincrement())
  title    String   @db.VarChar(200)
  score    Float    @default(1.5)
  draft    Boolean  @default(true)
  tags     String[]
  author   User     @relation("Authorship", fields: [authorId], references: [id])
  authorId String

  @@unique([title, authorId])
}

enum Role {
  USER
  ADMIN @map("admin")
}
`

func TestParse(t *testing.T) {
	f, err := Parse(blogSchema)
	require.NoError(t, err)

	t.Run("config blocks", func(t *testing.T) {
		require.Len(t, f.Datasources, 1)
		db := f.Datasources[0]
		assert.Equal(t, "db", db.Name)
		assert.Equal(t, 1, db.Line)

		provider, ok := db.Property("provider")
		require.True(t, ok)
		lit, ok := provider.Value.Literal()
		require.True(t, ok)
		assert.Equal(t, "postgresql", lit)

		url, ok := db.Property("url")
		require.True(t, ok)
		env, ok := url.Value.Env()
		require.True(t, ok)
		assert.Equal(t, "DATABASE_URL", env)

		require.Len(t, f.Generators, 1)
		output, ok := f.Generators[0].Property("output")
		require.True(t, ok)
		assert.Equal(t, Value(`"./generated"`), output.Value)
	})

	t.Run("models", func(t *testing.T) {
		models := f.Document.Datamodel.Models
		require.Len(t, models, 2)

		user := models[0]
		assert.Equal(t, "User", user.Name)
		assert.Equal(t, "users", user.DBName)
		assert.Equal(t, "A registered author.", user.Documentation)
		assert.Equal(t, []string{"id"}, user.IDFields)

		id, ok := user.Field("id")
		require.True(t, ok)
		assert.True(t, id.IsID)
		assert.Equal(t, dmmf.ScalarKind, id.Kind)
		require.NotNil(t, id.Default)
		assert.Equal(t, dmmf.DefaultFunction, id.Default.Kind)
		assert.Equal(t, "cuid", id.Default.Value)

		name, _ := user.Field("name")
		assert.False(t, name.IsRequired)
		assert.Equal(t, "display_name", name.DBName)

		role, _ := user.Field("role")
		assert.Equal(t, dmmf.EnumKind, role.Kind)
		assert.Equal(t, dmmf.DefaultEnum, role.Default.Kind)

		posts, _ := user.Field("posts")
		assert.True(t, posts.IsList)
		assert.True(t, posts.IsRelation())
		assert.Equal(t, "PostToUser", posts.RelationName)

		updatedAt, _ := user.Field("updatedAt")
		assert.True(t, updatedAt.IsUpdatedAt)

		post := models[1]
		author, _ := post.Field("author")
		assert.Equal(t, "Authorship", author.RelationName)
		assert.Equal(t, []string{"authorId"}, author.RelationFromFields)
		assert.Equal(t, []string{"id"}, author.RelationToFields)
		assert.Equal(t, [][]string{{"title", "authorId"}}, post.UniqueFields)

		score, _ := post.Field("score")
		assert.Equal(t, dmmf.Default{Kind: dmmf.DefaultNumber, Value: "1.5"}, *score.Default)
		draft, _ := post.Field("draft")
		assert.Equal(t, dmmf.DefaultBoolean, draft.Default.Kind)
		tags, _ := post.Field("tags")
		assert.True(t, tags.IsList)
		assert.Equal(t, dmmf.ScalarKind, tags.Kind)
	})

	t.Run("enums", func(t *testing.T) {
		require.Len(t, f.Document.Datamodel.Enums, 1)
		role := f.Document.Datamodel.Enums[0]
		assert.Equal(t, []dmmf.EnumValue{{Name: "USER"}, {Name: "ADMIN", DBName: "admin"}}, role.Values)
	})

	t.Run("mappings", func(t *testing.T) {
		require.Len(t, f.Document.Mappings, 2)
		m := f.Document.Mappings[0]
		assert.Equal(t, dmmf.Mapping{
			Model:    "User",
			Plural:   "users",
			FindOne:  "findOneUser",
			FindMany: "findManyUser",
			Create:   "createOneUser",
			Update:   "updateOneUser",
			Delete:   "deleteOneUser",
			Count:    "countUser",
		}, m)
	})
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, f.Document.Datamodel.Models)
	assert.Empty(t, f.Datasources)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		line   int
		msg    string
	}{
		{name: "garbage", schema: "this is not a schema", line: 1, msg: "expected a block declaration"},
		{name: "unknown block", schema: "table A {\n}", line: 1, msg: "unknown block type"},
		{name: "unclosed", schema: "model A {\n  id Int @id\n", line: 1, msg: "not closed"},
		{name: "unknown type", schema: "model A {\n  id Int @id\n  b Widget\n}", line: 3, msg: "unknown type Widget"},
		{name: "duplicate model", schema: "model A {\n id Int @id\n}\nmodel A {\n id Int @id\n}", line: 4, msg: "already defined"},
		{name: "duplicate field", schema: "model A {\n id Int @id\n id Int\n}", line: 3, msg: "already defined"},
		{name: "unknown attribute", schema: "model A {\n id Int @primary\n}", line: 2, msg: "unknown attribute @primary"},
		{name: "bad relation field", schema: "model A {\n id Int @id\n b B @relation(fields: [bId], references: [id])\n}\nmodel B {\n id Int @id\n}", line: 3, msg: "unknown field bId"},
		{name: "empty enum", schema: "enum E {\n}", line: 2, msg: "no values"},
		{name: "bad property", schema: "datasource db {\n provider \"x\"\n}", line: 2, msg: "key = value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSchema))

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.line, loadErr.Line)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	assert.Nil(t, splitArgs(""))
	assert.Equal(t, []string{`"a, b"`, "fields: [x, y]", "f(1, 2)"}, splitArgs(`"a, b", fields: [x, y], f(1, 2)`))
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, `url = "a//b"`, stripComment(`url = "a//b" // note`))
	assert.Equal(t, "", stripComment("// only"))
}
