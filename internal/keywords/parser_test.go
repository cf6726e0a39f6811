package keywords

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		keyword string
		want    []string
	}{
		{
			name:    "quoted phrases and bare words",
			raw:     `"a b" c "d e"`,
			keyword: "seed",
			want:    []string{"a b", "c", "d e", "seed"},
		},
		{
			name:    "lowercases everything",
			raw:     `Surfing "Jamie OBrien" PIPELINE`,
			keyword: "surf",
			want:    []string{"jamie obrien", "pipeline", "surf", "surfing"},
		},
		{
			name:    "commas separate like spaces",
			raw:     "drills,saws hammers",
			keyword: "",
			want:    []string{"drills", "hammers", "saws"},
		},
		{
			name:    "duplicates collapse",
			raw:     "tools tools Tools",
			keyword: "tools",
			want:    []string{"tools"},
		},
		{
			name:    "empty raw keeps search keyword",
			raw:     "",
			keyword: "woodworking",
			want:    []string{"woodworking"},
		},
		{
			name:    "empty raw and empty keyword",
			raw:     "",
			keyword: "",
			want:    []string{},
		},
		{
			name:    "unbalanced quote swallows the tail as one phrase",
			raw:     `garden "flower beds`,
			keyword: "",
			want:    []string{"flower beds", "garden"},
		},
		{
			name:    "runs of spaces produce no empty tags",
			raw:     "a   b",
			keyword: "",
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseTags(tt.raw, tt.keyword)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseTagsOutputIsSorted(t *testing.T) {
	t.Parallel()

	got := ParseTags("zebra apple mango", "kiwi")
	require.Equal(t, []string{"apple", "kiwi", "mango", "zebra"}, got)
}
