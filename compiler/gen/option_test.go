package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithPackage(t *testing.T) {
	t.Run("sets package", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithPackage("db")(c))
		assert.Equal(t, "db", c.Package)
	})

	t.Run("empty package fails", func(t *testing.T) {
		err := WithPackage("")(&Config{})
		assert.True(t, IsConfigError(err))
	})

	t.Run("package must be an identifier", func(t *testing.T) {
		err := WithPackage("my-client")(&Config{})
		assert.True(t, IsConfigError(err))
	})
}

func TestWithScalarType(t *testing.T) {
	t.Run("sets override", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithScalarType("Decimal", "github.com/shopspring/decimal", "Decimal")(c))
		assert.Equal(t, GoType{PkgPath: "github.com/shopspring/decimal", Name: "Decimal"}, c.Scalars["Decimal"])
	})

	t.Run("unknown scalar fails", func(t *testing.T) {
		err := WithScalarType("Money", "", "string")(&Config{})
		assert.True(t, IsConfigError(err))
	})

	t.Run("empty name fails", func(t *testing.T) {
		err := WithScalarType("Decimal", "", "")(&Config{})
		assert.True(t, IsConfigError(err))
	})
}

func TestWithScalarTypes(t *testing.T) {
	c := &Config{Scalars: map[string]GoType{"Json": {Name: "string"}}}
	require.NoError(t, WithScalarTypes(map[string]GoType{"BigInt": {Name: "int"}})(c))
	assert.Len(t, c.Scalars, 2)

	err := WithScalarTypes(map[string]GoType{"Money": {Name: "int"}})(c)
	assert.True(t, IsConfigError(err))
}

func TestConfigApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithPackage(""), WithHeader("never"))

		require.Error(t, err)
		assert.Empty(t, c.Header)
	})
}

func TestConfigApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithPackage(""), WithHeader("applied"), WithScalarType("Money", "", "int"))

	require.Error(t, err)
	assert.Equal(t, "applied", c.Header)
	assert.Contains(t, err.Error(), "Package")
	assert.Contains(t, err.Error(), "ScalarType")
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, DefaultPackage, c.Package)
		assert.Nil(t, c.Scalars)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := NewConfig(WithPackage("1x"))
		assert.True(t, IsConfigError(err))
	})
}
