package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venturehunt/channelscout/internal/crawl"
)

func row(fields ...string) crawl.SeedRow {
	return crawl.SeedRow{Keyword: fields[0], Type: fields[1], Fields: fields}
}

func TestPlannerBreadthFirstOrder(t *testing.T) {
	t.Parallel()

	modifiers := []crawl.Modifier{
		{Term: "best ", Position: crawl.ModifierPre, Column: 2},
		{Term: " reviews", Position: crawl.ModifierPost, Column: 3},
	}
	rows := []crawl.SeedRow{
		row("drills", "channels", "TRUE", "TRUE"),
		row("saws", "videos", "TRUE", "FALSE"),
		row("hammers", "channels", "FALSE", "TRUE"),
	}

	p, err := New(modifiers, rows)
	require.NoError(t, err)

	var got []string
	for {
		q, ok := p.Next()
		if !ok {
			break
		}
		got = append(got, q.Encoded)
	}

	// Every flagged keyword under the first modifier before any keyword
	// under the second.
	require.Equal(t, []string{
		"q=best%20drills&type=channel",
		"q=best%20saws&type=video",
		"q=drills%20reviews&type=channel",
		"q=hammers%20reviews&type=channel",
	}, got)
}

func TestPlannerEncoding(t *testing.T) {
	t.Parallel()

	p, err := New(
		[]crawl.Modifier{{Term: "best ", Position: crawl.ModifierPre, Column: 2}},
		[]crawl.SeedRow{row("  Drills ", "channels", "TRUE")},
	)
	require.NoError(t, err)

	q, ok := p.Next()
	require.True(t, ok)
	require.Equal(t, "drills", q.Keyword)
	require.Equal(t, "best ", q.Modifier)
	require.Equal(t, crawl.ModifierPre, q.Position)
	require.Equal(t, crawl.ResultTypeChannel, q.Type)
	// Spaces encode as %20, never as +.
	require.Equal(t, "q=best%20drills&type=channel", q.Encoded)
}

func TestPlannerSkipsUnflaggedRows(t *testing.T) {
	t.Parallel()

	p, err := New(
		[]crawl.Modifier{{Term: " tips", Position: crawl.ModifierPost, Column: 5}},
		[]crawl.SeedRow{
			// Column 5 absent entirely.
			row("drills", "channels", "TRUE"),
			// Lowercase "true" is not a flag.
			row("saws", "videos", "FALSE", "FALSE", "FALSE", "true", "FALSE"),
			row("hammers", "channels", "FALSE", "FALSE", "FALSE", "TRUE"),
		},
	)
	require.NoError(t, err)

	q, ok := p.Next()
	require.True(t, ok)
	require.Equal(t, "hammers", q.Keyword)

	_, ok = p.Next()
	require.False(t, ok)
}

func TestPlannerExhaustedStaysExhausted(t *testing.T) {
	t.Parallel()

	p, err := New(nil, []crawl.SeedRow{row("drills", "channels")})
	require.NoError(t, err)

	_, ok := p.Next()
	require.False(t, ok)
	_, ok = p.Next()
	require.False(t, ok)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modifiers []crawl.Modifier
		rows      []crawl.SeedRow
		wantErr   string
	}{
		{
			name:      "bad position",
			modifiers: []crawl.Modifier{{Term: "best ", Position: "mid", Column: 2}},
			wantErr:   "invalid position",
		},
		{
			name:      "column overlaps keyword column",
			modifiers: []crawl.Modifier{{Term: "best ", Position: crawl.ModifierPre, Column: 1}},
			wantErr:   "overlaps fixed columns",
		},
		{
			name:    "bad seed type",
			rows:    []crawl.SeedRow{row("drills", "playlists")},
			wantErr: "invalid result type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.modifiers, tt.rows)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
