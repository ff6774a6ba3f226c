package app

import (
	"github.com/hanebox/ekphos/pkg/search"
)

// StartContentSearch launches a one-shot goroutine scanning a snapshot
// of every loaded note for query, for use while the background index
// build hasn't delivered yet. Each launch gets a monotone search id;
// PollContentSearch discards responses whose id is no longer current,
// so a fast typist only ever sees results for what's in the box now.
func (c *Core) StartContentSearch(query string) uint64 {
	c.searchID++
	id := c.searchID
	if c.searchCh == nil {
		c.searchCh = make(chan SearchResultMsg, 4)
	}

	sources := make([]search.NoteSource, len(c.Repo.Notes))
	titles := make([]string, len(c.Repo.Notes))
	for i, n := range c.Repo.Notes {
		sources[i] = search.NoteSource{NoteIndex: i, Content: n.Content}
		titles[i] = n.Title
	}

	ch := c.searchCh
	go func() {
		results := search.Scan(sources, query, func(noteIdx int) string {
			if noteIdx < 0 || noteIdx >= len(titles) {
				return ""
			}
			return titles[noteIdx]
		})
		msg := SearchResultMsg{SearchID: id, Query: query, Results: results}
		for {
			select {
			case ch <- msg:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}()
	return id
}

// PollContentSearch drains pending live-search responses, returning the
// first one that matches the current search id. Stale responses (an
// older query's answer arriving after a newer query was launched) are
// discarded without being surfaced.
func (c *Core) PollContentSearch() (SearchResultMsg, bool) {
	if c.searchCh == nil {
		return SearchResultMsg{}, false
	}
	for {
		select {
		case msg := <-c.searchCh:
			if msg.SearchID != c.searchID {
				continue
			}
			return msg, true
		default:
			return SearchResultMsg{}, false
		}
	}
}
