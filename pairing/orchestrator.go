/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SectionContext is the immutable per-section view every engine works
// from: that section's players, teams, and result history only. It is
// constructed once per section per request and never shared, so no
// section can influence another's pairings, board numbers, or byes.
type SectionContext struct {
	Name    string
	Config  TournamentConfig
	Players []Player
	Teams   []Team
	History *HistoryIndex
}

// NewSectionContext builds the context for one section of a snapshot. A
// result that references an opponent outside the section is rejected;
// history must never leak across section boundaries.
func NewSectionContext(snap *Snapshot, name string) (*SectionContext, error) {
	sec := &SectionContext{
		Name:   name,
		Config: snap.Config,
	}
	members := make(map[PlayerID]bool)
	for _, p := range snap.Players {
		if p.Section != name {
			continue
		}
		sec.Players = append(sec.Players, p)
		members[p.ID] = true
	}
	for _, t := range snap.Teams {
		if t.Section == name {
			sec.Teams = append(sec.Teams, t)
		}
	}

	var results []GameResult
	for _, res := range snap.Results {
		if !members[res.PlayerID] {
			continue
		}
		if res.OpponentID != 0 && !members[res.OpponentID] {
			return nil, &DataIntegrityError{
				Section: name,
				Detail: fmt.Sprintf("result for player %d round %d references opponent %d outside the section",
					res.PlayerID, res.Round, res.OpponentID),
			}
		}
		results = append(results, res)
	}

	idx, err := BuildHistoryIndex(name, results)
	if err != nil {
		return nil, err
	}
	sec.History = idx

	return sec, nil
}

// SectionNames returns the snapshot's distinct section names in display
// order.
func SectionNames(snap *Snapshot) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range snap.Players {
		if !seen[p.Section] {
			seen[p.Section] = true
			names = append(names, p.Section)
		}
	}
	sort.Sort(SectionSorter(names))
	return names
}

// PairSection routes one section to the engine its format selects. A
// mismatched engine invocation is a hard error, never a fallback.
func PairSection(sec *SectionContext, round int) (*RoundPairings, error) {
	switch sec.Config.Format {
	case FormatSwiss:
		return PairSwissSection(sec, round)
	case FormatQuad:
		return PairQuadSection(sec, round)
	case FormatTeamSwiss:
		return PairTeamSwissSection(sec, round)
	}
	return nil, &FormatMismatchError{
		Section: sec.Name,
		Want:    FormatSwiss,
		Got:     sec.Config.Format,
	}
}

// GeneratePairings pairs every section of the snapshot for the given
// round. Sections are independent, so they are paired concurrently; the
// combined output is ordered by section then board so results are
// reproducible. A failed section is reported in the returned error map
// and never aborts its siblings.
func GeneratePairings(ctx context.Context, snap *Snapshot, round int) (*RoundPairings, map[string]error) {
	names := SectionNames(snap)

	var (
		mu      sync.Mutex
		perSec  = make(map[string]*RoundPairings)
		secErrs = make(map[string]error)
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			rp, err := pairOneSection(ctx, snap, name, round)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				secErrs[name] = err
			} else {
				perSec[name] = rp
			}

			return nil
		})
	}
	// closures collect their own errors; Wait only orders completion
	g.Wait()

	out := &RoundPairings{Round: round}
	for _, name := range names {
		rp, ok := perSec[name]
		if !ok {
			continue
		}
		out.Pairings = append(out.Pairings, rp.Pairings...)
		out.Byes = append(out.Byes, rp.Byes...)
		out.Quads = append(out.Quads, rp.Quads...)
		out.TeamPairings = append(out.TeamPairings, rp.TeamPairings...)
		out.Warnings = append(out.Warnings, rp.Warnings...)
	}

	if len(secErrs) == 0 {
		secErrs = nil
	}
	return out, secErrs
}

func pairOneSection(ctx context.Context, snap *Snapshot, name string, round int) (*RoundPairings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sec, err := NewSectionContext(snap, name)
	if err != nil {
		return nil, err
	}
	return PairSection(sec, round)
}

// ComputeStandings computes tiebreak-ordered standings for every section
// of the snapshot, concurrently and independently.
func ComputeStandings(ctx context.Context, snap *Snapshot) (map[string][]Standing, map[string]error) {
	names := SectionNames(snap)

	var (
		mu        sync.Mutex
		standings = make(map[string][]Standing)
		secErrs   = make(map[string]error)
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			var rows []Standing
			err := ctx.Err()
			if err == nil {
				var sec *SectionContext
				sec, err = NewSectionContext(snap, name)
				if err == nil {
					rows, err = ComputeSectionStandings(sec)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				secErrs[name] = err
			} else {
				standings[name] = rows
			}

			return nil
		})
	}
	g.Wait()

	if len(secErrs) == 0 {
		secErrs = nil
	}
	return standings, secErrs
}
