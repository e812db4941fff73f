package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableLoads(t *testing.T) {
	tbl := Default()
	require.NotNil(t, tbl)
	assert.Same(t, tbl, Default())
	assert.Contains(t, tbl.Features("x86_64"), "avx2")
	assert.Contains(t, tbl.Features("aarch64"), "neon")
}

func TestImplied(t *testing.T) {
	tbl := Default()
	tests := []struct {
		arch, feature string
		want          []string
	}{
		{"x86_64", "sse2", []string{"fxsr", "sse"}},
		{"x86_64", "avx", []string{"fxsr", "sse", "sse2", "sse3", "sse4.1", "sse4.2", "ssse3"}},
		{"aarch64", "sve2", []string{"fp", "fp16", "neon", "sve"}},
		{"x86_64", "popcnt", nil},
		{"x86_64", "nonexistent", nil},
		{"z80", "avx", nil},
	}
	for _, tt := range tests {
		t.Run(tt.arch+"/"+tt.feature, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.Implied(tt.arch, tt.feature))
		})
	}
}

func TestImpliesIsTransitive(t *testing.T) {
	tbl := Default()
	assert.True(t, tbl.Implies("x86_64", "avx512f", "sse2"))
	assert.True(t, tbl.Implies("x86_64", "avx2", "avx2"))
	assert.True(t, tbl.Implies("x86", "avx2", "sse4.2"))
	assert.False(t, tbl.Implies("x86_64", "sse2", "avx"))
	assert.False(t, tbl.Implies("x86_64", "avx2", "fma"))
	assert.False(t, tbl.Implies("aarch64", "avx2", "sse"))
}

func TestExpand(t *testing.T) {
	tbl := Default()
	got := tbl.Expand("x86_64", []string{"ssse3", "popcnt", "ssse3"})
	assert.Equal(t, []string{"fxsr", "popcnt", "sse", "sse2", "sse3", "ssse3"}, got)
	assert.Empty(t, tbl.Expand("x86_64", nil))
}

func TestCPUBaselines(t *testing.T) {
	tbl := Default()

	v1, ok := tbl.CPU("x86_64", "x86-64")
	require.True(t, ok)
	assert.Equal(t, []string{"fxsr", "sse", "sse2"}, v1)

	v3, ok := tbl.CPU("x86_64", "x86-64-v3")
	require.True(t, ok)
	for _, f := range []string{"avx2", "fma", "sse4.2", "popcnt", "sse2"} {
		assert.Contains(t, v3, f)
	}
	assert.NotContains(t, v3, "avx512f")

	m1, ok := tbl.CPU("aarch64", "apple-m1")
	require.True(t, ok)
	assert.Contains(t, m1, "neon")
	assert.Contains(t, m1, "dotprod")

	_, ok = tbl.CPU("x86_64", "pentium-pro")
	assert.False(t, ok)

	assert.Contains(t, tbl.CPUs("x86_64"), "skylake-avx512")
}

func TestParseRejectsBadCPUTables(t *testing.T) {
	implied := []byte("x86_64:\n  sse: []\n")

	_, err := Parse(implied, []byte("x86_64:\n  a:\n    inherits: b\n  b:\n    inherits: a\n"))
	assert.Error(t, err)

	_, err = Parse(implied, []byte("x86_64:\n  a:\n    inherits: missing\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("x86_64: [not, a, map]"), nil)
	assert.Error(t, err)
}

func TestKnown(t *testing.T) {
	tbl := Default()
	assert.True(t, tbl.Known("x86_64", "avx512fp16"))
	assert.False(t, tbl.Known("x86_64", "neon"))
}
