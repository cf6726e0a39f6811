package keywords

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractEmails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		desc string
		want []string
	}{
		{
			name: "plain and spelled-out forms",
			desc: "contact bob@x.com or jane AT y.org for business",
			want: []string{"bob@x.com", "jane at y.org"},
		},
		{
			name: "lowercased and deduplicated",
			desc: "Bob@X.com bob@x.com BOB@x.COM",
			want: []string{"bob@x.com"},
		},
		{
			name: "no contacts",
			desc: "just a channel about woodworking",
			want: []string{},
		},
		{
			name: "lowercase at is not spelled-out form",
			desc: "reach me at example dot com",
			want: []string{},
		},
		{
			name: "punctuated local parts survive",
			desc: "biz: first.last+promo%tag-x@sub.domain.co",
			want: []string{"first.last+promo%tag-x@sub.domain.co"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractEmails(tt.desc)
			require.Equal(t, tt.want, got)
		})
	}
}
