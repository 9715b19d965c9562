package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "asset_id,trait_type,value\n1,Hat,Cap\n", ','},
		{"semicolon", "asset_id;trait_type;value\n1;Hat;Cap\n", ';'},
		{"tab", "asset_id\ttrait_type\tvalue\n", '\t'},
		{"pipe", "asset_id|trait_type|value", '|'},
		{"quoted commas ignored", "\"a,b,c\";\"d\";e\n", ';'},
		{"single column", "asset_id\n1\n", ','},
		{"bom", "\xEF\xBB\xBFasset_id;value\n", ';'},
		{"only first line counts", "a;b\n1,2,3,4,5\n", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.data)))
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	r, err := ParseDelimiter("")
	require.NoError(t, err)
	assert.Equal(t, rune(0), r)

	r, err = ParseDelimiter("tab")
	require.NoError(t, err)
	assert.Equal(t, '\t', r)

	r, err = ParseDelimiter(";")
	require.NoError(t, err)
	assert.Equal(t, ';', r)

	_, err = ParseDelimiter("::")
	assert.Error(t, err)
	_, err = ParseDelimiter("x")
	assert.Error(t, err)
}

func TestStripBOMAndValidate(t *testing.T) {
	assert.Equal(t, []byte("a,b"), StripBOM([]byte("\xEF\xBB\xBFa,b")))
	assert.Equal(t, []byte("a,b"), StripBOM([]byte("a,b")))
	assert.True(t, ValidateUTF8([]byte("héllo")))
	assert.False(t, ValidateUTF8([]byte{0xff, 0xfe}))
}
