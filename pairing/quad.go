/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"sort"
)

// berger4 is the rotation table for a 4-player quad: three rounds, each
// entry white-first. Every player meets every other exactly once with a
// 2-1 color split.
var berger4 = [][][2]int{
	{{0, 1}, {2, 3}},
	{{2, 0}, {3, 1}},
	{{0, 3}, {1, 2}},
}

// berger3 is the rotation table for a 3-player quad; the player absent
// from a round sits out.
var berger3 = [][][2]int{
	{{0, 1}},
	{{2, 0}},
	{{1, 2}},
}

// BuildQuads distributes a section's active players into fixed groups of
// up to 4 by rating-snake: quad 1 takes ranks 1, 1+Q, 1+2Q, ...; quad 2
// takes ranks 2, 2+Q, ...; and so on, Q being the quad count. The
// distribution is a pure function of the player set, so membership is
// stable across every round of the event.
func BuildQuads(section string, players []Player) ([]Quad, error) {
	var active []Player
	for _, p := range players {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil, &EmptySectionError{Section: section}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Rating != active[j].Rating {
			return active[i].Rating > active[j].Rating
		}
		return active[i].ID < active[j].ID
	})

	numQuads := (len(active) + 3) / 4
	quads := make([]Quad, numQuads)
	for i := range quads {
		quads[i] = Quad{
			ID:      fmt.Sprintf("Q%d", i+1),
			Section: section,
		}
	}
	for rank, p := range active {
		q := rank % numQuads
		quads[q].Players = append(quads[q].Players, p.ID)
	}

	return quads, nil
}

// PairQuadSection emits the given round of each quad's round-robin
// schedule. Board numbers run 1..N across the whole section; players
// sitting out a 3-player quad's round receive a bye record.
func PairQuadSection(sec *SectionContext, round int) (*RoundPairings, error) {
	if sec.Config.Format != FormatQuad {
		return nil, &FormatMismatchError{
			Section: sec.Name,
			Want:    FormatQuad,
			Got:     sec.Config.Format,
		}
	}

	quads, err := BuildQuads(sec.Name, sec.Players)
	if err != nil {
		return nil, err
	}

	out := &RoundPairings{Round: round, Quads: quads}
	boardNum := 1
	for _, quad := range quads {
		games, sitOuts := quadRound(quad, round)
		for _, g := range games {
			out.Pairings = append(out.Pairings, Pairing{
				Section:     sec.Name,
				RoundNumber: round,
				BoardNumber: boardNum,
				WhiteID:     g[0],
				BlackID:     g[1],
				GroupID:     quad.ID,
			})
			boardNum++
		}
		for _, id := range sitOuts {
			out.Byes = append(out.Byes, ByeRecord{
				PlayerID: id,
				Section:  sec.Name,
				Round:    round,
				Kind:     ByeAllocated,
				Points:   1.0,
			})
		}
	}

	return out, nil
}

// quadRound returns the games (white-first) and sitting-out players for
// one quad in one round. Members without a game that round sit out; that
// covers 3-player rotations, singleton quads, and rounds past the end of
// a short quad's schedule.
func quadRound(quad Quad, round int) (games [][2]PlayerID, sitOuts []PlayerID) {
	if round < 1 {
		return nil, nil
	}
	var table [][][2]int
	switch len(quad.Players) {
	case 4:
		table = berger4
	case 3:
		table = berger3
	case 2:
		table = [][][2]int{{{0, 1}}}
	}
	if round > len(table) {
		return nil, append([]PlayerID(nil), quad.Players...)
	}

	playing := make(map[int]bool)
	for _, g := range table[round-1] {
		games = append(games, [2]PlayerID{
			quad.Players[g[0]],
			quad.Players[g[1]],
		})
		playing[g[0]] = true
		playing[g[1]] = true
	}
	for i, id := range quad.Players {
		if !playing[i] {
			sitOuts = append(sitOuts, id)
		}
	}

	return games, sitOuts
}
