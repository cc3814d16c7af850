package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(11) 98888-7777":   "11988887777",
		"+55 11 98888-7777": "5511988887777",
		"1133334444":        "1133334444",
		"98888-7777":        "",
		"":                  "",
		"abc":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestHasEmailShape(t *testing.T) {
	assert.True(t, HasEmailShape("ana@example.com"))
	assert.False(t, HasEmailShape("@example.com"))
	assert.False(t, HasEmailShape("ana@"))
	assert.False(t, HasEmailShape("ana@localhost"))
	assert.False(t, HasEmailShape("ana silva@example.com"))
}
