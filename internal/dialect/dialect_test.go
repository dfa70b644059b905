package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonguard/internal/schemaerr"
)

func TestLookup_NormalizesSchemeAndFragment(t *testing.T) {
	cases := map[string]*Dialect{
		"http://json-schema.org/draft-04/schema#":       Dialect4,
		"https://json-schema.org/draft-04/schema":       Dialect4,
		"http://json-schema.org/draft-06/schema":        Dialect6,
		"http://json-schema.org/draft-07/schema#":       Dialect7,
		"https://json-schema.org/draft/2019-09/schema":  Dialect2019,
		"http://json-schema.org/draft/2020-12/schema#":  Dialect2020,
		"https://json-schema.org/draft/2020-12/schema ": Dialect2020,

		"draft-07": Dialect7,
		"2020-12":  Dialect2020,
	}
	for id, want := range cases {
		got, err := Lookup(id)
		require.NoError(t, err, id)
		assert.Same(t, want, got, id)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("https://example.com/my-dialect")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schemaerr.ErrUnsupportedDialect))
}

func TestProfiles_KeywordSets(t *testing.T) {
	has := func(d *Dialect, kw string) bool {
		_, ok := d.Keyword(kw)
		return ok
	}
	assert.False(t, has(Dialect4, "const"))
	assert.True(t, has(Dialect6, "const"))
	assert.False(t, has(Dialect6, "if"))
	assert.True(t, has(Dialect7, "if"))
	assert.True(t, has(Dialect7, "dependencies"))
	assert.False(t, has(Dialect2019, "dependencies"))
	assert.True(t, has(Dialect2019, "dependentRequired"))
	assert.True(t, has(Dialect2019, "$recursiveRef"))
	assert.False(t, has(Dialect2020, "$recursiveRef"))
	assert.True(t, has(Dialect2020, "prefixItems"))
	assert.False(t, has(Dialect2020, "additionalItems"))

	assert.Equal(t, "id", Dialect4.IDKeyword)
	assert.True(t, Dialect7.RefOverridesSiblings)
	assert.False(t, Dialect2020.RefOverridesSiblings)
	assert.Same(t, Dialect2020, Default())
	assert.Len(t, All(), 5)
}
