// Package planner expands the keyword seed list against the modifier set
// into an ordered stream of query descriptors.
package planner

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/venturehunt/channelscout/internal/crawl"
)

// Seed row result types.
const (
	typeVideos   = "videos"
	typeChannels = "channels"
)

// Planner walks the modifier list as the outer loop and the seed rows as
// the inner loop. Breadth-first on purpose: a partial crawl covers every
// keyword under the first modifiers instead of burying a few keywords
// under every modifier.
type Planner struct {
	modifiers []crawl.Modifier
	rows      []crawl.SeedRow
	mi        int
	ri        int
}

// New validates the modifier set and seed rows and returns a Planner
// positioned at the first query. The stream restarts only by building a
// new Planner.
func New(modifiers []crawl.Modifier, rows []crawl.SeedRow) (*Planner, error) {
	for _, m := range modifiers {
		if m.Position != crawl.ModifierPre && m.Position != crawl.ModifierPost {
			return nil, fmt.Errorf("modifier %q: invalid position %q", m.Term, m.Position)
		}
		if m.Column <= 1 {
			return nil, fmt.Errorf("modifier %q: flag column %d overlaps fixed columns", m.Term, m.Column)
		}
	}
	for _, r := range rows {
		if r.Type != typeVideos && r.Type != typeChannels {
			return nil, fmt.Errorf("seed keyword %q: invalid result type %q", r.Keyword, r.Type)
		}
	}
	return &Planner{modifiers: modifiers, rows: rows}, nil
}

// Next returns the next query descriptor, or false when the stream is
// exhausted.
func (p *Planner) Next() (crawl.QueryDescriptor, bool) {
	for p.mi < len(p.modifiers) {
		mod := p.modifiers[p.mi]
		for p.ri < len(p.rows) {
			row := p.rows[p.ri]
			p.ri++
			if !row.Flag(mod.Column) {
				continue
			}
			return describe(mod, row), true
		}
		p.mi++
		p.ri = 0
	}
	return crawl.QueryDescriptor{}, false
}

// describe builds the canonical encoded query. The keyword is lowercased
// and trimmed, the literal modifier is concatenated per its position, and
// the combined term is percent-encoded (space stays %20 so keys match rows
// written by earlier crawls). The type filter is appended unencoded.
func describe(mod crawl.Modifier, row crawl.SeedRow) crawl.QueryDescriptor {
	keyword := strings.ToLower(strings.TrimSpace(row.Keyword))

	term := keyword + mod.Term
	if mod.Position == crawl.ModifierPre {
		term = mod.Term + keyword
	}

	resultType := crawl.ResultTypeChannel
	if row.Type == typeVideos {
		resultType = crawl.ResultTypeVideo
	}

	return crawl.QueryDescriptor{
		Keyword:  keyword,
		Modifier: mod.Term,
		Position: mod.Position,
		Type:     resultType,
		Encoded:  fmt.Sprintf("q=%s&type=%s", url.PathEscape(term), resultType),
	}
}
