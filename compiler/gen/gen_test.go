package gen

import (
	"context"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/photon/compiler/load"
	"github.com/syssam/photon/compiler/project"
	"github.com/syssam/photon/compiler/transpile"
	"github.com/syssam/photon/runtime/dmmf"
)

const runtimePath = "github.com/syssam/photon/runtime"

const shopSchema = `/// A customer account.
model User {
  id        String   @id @default(cuid())
  email     String   @unique
  name      String?
  role      Role     @default(CUSTOMER)
  orders    Order[]
  avatar    Bytes?
  settings  Json?
  createdAt DateTime @default(now())
}

model Order {
  id      Int      @id @default(autoincrement())
  total   Float
  amount  Decimal
  ref     BigInt
  paid    Boolean  @default(false)
  tags    String[]
  buyer   User     @relation(fields: [buyerId], references: [id])
  buyerId String
}

enum Role {
  CUSTOMER
  STAFF_ADMIN
}
`

func parseDoc(t *testing.T, schema string) *dmmf.Document {
	t.Helper()
	f, err := load.Parse(schema)
	require.NoError(t, err)
	return &f.Document
}

// squash collapses runs of blanks so assertions ignore gofmt alignment.
func squash(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' }), " ")
}

func emit(t *testing.T, in Input, opts ...Option) string {
	t.Helper()
	g, err := NewGenerator(opts...)
	require.NoError(t, err)
	src, err := g.Emit(context.Background(), in)
	require.NoError(t, err)
	return src
}

func TestEmit(t *testing.T) {
	in := Input{
		Document:    parseDoc(t, shopSchema),
		Cwd:         "/srv/shop",
		Datamodel:   shopSchema,
		RuntimePath: runtimePath,
		Datasources: []project.Datasource{{Name: "db", Provider: "postgresql", URL: "postgresql://localhost/shop"}},
	}
	src := emit(t, in)

	t.Run("is valid go", func(t *testing.T) {
		f, err := parser.ParseFile(token.NewFileSet(), "index.go", src, parser.ParseComments)
		require.NoError(t, err)
		assert.Equal(t, DefaultPackage, f.Name.Name)
		assert.Contains(t, src, "// "+DefaultHeader)
	})

	t.Run("declarations", func(t *testing.T) {
		flat := squash(src)
		for _, want := range []string{
			"const Datamodel = ",
			`engineCwd = "/srv/shop"`,
			`runtime "github.com/syssam/photon/runtime"`,
			"type Role string",
			`RoleCustomer Role = "CUSTOMER"`,
			`RoleStaffAdmin Role = "STAFF_ADMIN"`,
			"// A customer account.",
			"type User struct",
			"type UserWhereUniqueInput struct",
			"type UserWhereInput struct",
			"type UserCreateInput struct",
			"type UserUpdateInput struct",
			"type FindManyUserArgs struct",
			"type UserDelegate struct",
			"Users *UserDelegate",
			"Orders *OrderDelegate",
			"func NewClient(opts ...runtime.Option) *Client",
			"runtime.NewEngine(cfg)",
			"func (c *Client) Connect(ctx context.Context) error",
			"func (d *UserDelegate) FindOne(ctx context.Context, where UserWhereUniqueInput) (*User, error)",
			"func (d *OrderDelegate) FindMany(ctx context.Context, args FindManyOrderArgs) ([]*Order, error)",
			"func (d *UserDelegate) Count(ctx context.Context, where *UserWhereInput) (int, error)",
			`"findOneUser"`,
			`"countOrder"`,
			`Provider: "postgresql"`,
		} {
			assert.Contains(t, flat, want)
		}
	})

	t.Run("field types", func(t *testing.T) {
		flat := squash(src)
		for _, want := range []string{
			"ID string `json:\"id\"`",
			"Name *string `json:\"name,omitempty\"`",
			"Role Role `json:\"role\"`",
			"Orders []*Order `json:\"orders,omitempty\"`",
			"Avatar []byte `json:\"avatar,omitempty\"`",
			"Settings any `json:\"settings,omitempty\"`",
			"CreatedAt time.Time `json:\"createdAt\"`",
			"Amount float64 `json:\"amount\"`",
			"Ref int64 `json:\"ref\"`",
			"Tags []string `json:\"tags\"`",
			"Buyer *User `json:\"buyer,omitempty\"`",
			"BuyerID string `json:\"buyerId\"`",
		} {
			assert.Contains(t, flat, want)
		}
	})

	t.Run("create input", func(t *testing.T) {
		flat := squash(src)
		assert.Contains(t, flat, "Email string `json:\"email\"`")
		assert.Contains(t, flat, "CreatedAt *time.Time `json:\"createdAt,omitempty\"`")
		assert.Contains(t, flat, "Role *Role `json:\"role,omitempty\"`")
	})

	t.Run("browser mode", func(t *testing.T) {
		in := in
		in.Browser = true
		src := emit(t, in)
		assert.Contains(t, src, "runtime.NewRemoteEngine(cfg)")
		assert.NotContains(t, src, "runtime.NewEngine(cfg)")
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, src, emit(t, in))
	})
}

func TestEmitCompiles(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		ds     []project.Datasource
	}{
		{name: "single model", schema: "model User {\n  id Int @id\n}\n"},
		{name: "empty schema", schema: ""},
		{name: "shop", schema: shopSchema, ds: []project.Datasource{{Name: "db", Provider: "sqlite", URL: "file:dev.db"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := emit(t, Input{
				Document:    parseDoc(t, tt.schema),
				Datamodel:   tt.schema,
				RuntimePath: runtimePath,
				Datasources: tt.ds,
			})
			opts := transpile.DefaultOptions().WithPath(runtimePath, "lib.runtime.d.go")
			files, diags := transpile.TranspileFile(transpile.VirtualFile{
				Path:    "@generated/photon/index.go",
				Content: src,
			}, transpile.Config{Options: opts})
			require.Empty(t, diags, "%v\n%s", diags, src)
			assert.NotEmpty(t, files["@generated/photon/index.ssa"])
			assert.NotEmpty(t, files["@generated/photon/index.export"])
		})
	}
}

func TestEmitErrors(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("nil document", func(t *testing.T) {
		_, err := g.Emit(ctx, Input{RuntimePath: runtimePath})
		assert.True(t, IsConfigError(err))
	})

	t.Run("missing runtime path", func(t *testing.T) {
		_, err := g.Emit(ctx, Input{Document: &dmmf.Document{}})
		assert.True(t, IsConfigError(err))
	})

	t.Run("reserved model name", func(t *testing.T) {
		_, err := g.Emit(ctx, Input{Document: parseDoc(t, "model Client {\n  id Int @id\n}"), RuntimePath: runtimePath})
		assert.True(t, IsSchemaError(err))
	})

	t.Run("colliding names", func(t *testing.T) {
		_, err := g.Emit(ctx, Input{Document: parseDoc(t, "model A {\n  user_id Int @id\n  userId Int\n}"), RuntimePath: runtimePath})
		assert.True(t, IsSchemaError(err))
	})

	t.Run("unknown scalar", func(t *testing.T) {
		doc := &dmmf.Document{
			Datamodel: dmmf.Datamodel{Models: []dmmf.Model{{Name: "A", Fields: []dmmf.Field{{Name: "x", Kind: dmmf.ScalarKind, Type: "Money"}}}}},
			Mappings:  load.BuildMappings([]dmmf.Model{{Name: "A"}}),
		}
		_, err := g.Emit(ctx, Input{Document: doc, RuntimePath: runtimePath})
		assert.True(t, IsSchemaError(err))
	})

	t.Run("missing mapping", func(t *testing.T) {
		doc := &dmmf.Document{Datamodel: dmmf.Datamodel{Models: []dmmf.Model{{Name: "A"}}}}
		_, err := g.Emit(ctx, Input{Document: doc, RuntimePath: runtimePath})
		assert.True(t, IsSchemaError(err))
	})
}

func TestScalarOverride(t *testing.T) {
	src := emit(t, Input{
		Document:    parseDoc(t, "model A {\n  id Int @id\n  price Decimal\n}"),
		RuntimePath: runtimePath,
	}, WithScalarType("Decimal", "", "string"))
	assert.Contains(t, src, "Price string")
}

func TestPascal(t *testing.T) {
	tests := map[string]string{
		"id":           "ID",
		"authorId":     "AuthorID",
		"created_at":   "CreatedAt",
		"display_name": "DisplayName",
		"url":          "URL",
		"avatarUrl":    "AvatarURL",
		"User":         "User",
		"identity":     "Identity",
	}
	for in, want := range tests {
		assert.Equal(t, want, pascal(in), in)
	}
	assert.Equal(t, "Users", plural("User"))
	assert.Equal(t, "Categories", plural("Category"))
	assert.Equal(t, "RoleStaffAdmin", enumConst("Role", "STAFF_ADMIN"))
}
