/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"sort"
)

// PairSwissSection runs the Dutch-system matcher for one section and
// round: requested byes first, then score groups highest-first with
// downfloats, then color assignment and section-local board numbers.
// At most one pairing-allocated bye is produced per call.
func PairSwissSection(sec *SectionContext, round int) (*RoundPairings, error) {
	if sec.Config.Format != FormatSwiss {
		return nil, &FormatMismatchError{
			Section: sec.Name,
			Want:    FormatSwiss,
			Got:     sec.Config.Format,
		}
	}

	out := &RoundPairings{Round: round}
	candidates := splitRequestedByes(sec, round, out)
	if len(candidates) == 0 {
		if len(out.Byes) == 0 {
			return nil, &EmptySectionError{Section: sec.Name}
		}
		return out, nil
	}

	idx := sec.History
	var pairs [][2]Player
	var forced map[[2]PlayerID]bool
	if round == 1 || idx.MaxRound() == 0 {
		pairs = pairFirstRound(candidates, out, sec.Name, round)
	} else {
		groups, err := BuildScoreGroups(sec.Name, candidates, idx)
		if err != nil {
			return nil, err
		}
		if countGroupPlayers(groups)%2 == 1 {
			bye := chooseByePlayer(groups, idx)
			groups = removeFromGroups(groups, bye.ID)
			out.Byes = append(out.Byes, ByeRecord{
				PlayerID: bye.ID,
				Section:  sec.Name,
				Round:    round,
				Kind:     ByeAllocated,
				Points:   1.0,
			})
		}
		pairs, forced = pairScoreGroups(groups, idx, out, sec.Name, round)
	}

	for i, pr := range pairs {
		white, black := assignColors(pr[0], pr[1], idx, out, sec.Name, round)
		out.Pairings = append(out.Pairings, Pairing{
			Section:     sec.Name,
			RoundNumber: round,
			BoardNumber: i + 1,
			WhiteID:     white.ID,
			BlackID:     black.ID,
		})
		// forced repeats are flagged with the colors actually assigned
		if forced[pairKey(pr[0].ID, pr[1].ID)] {
			out.Warnings = append(out.Warnings, ConstraintRelaxed{
				Section: sec.Name,
				Round:   round,
				WhiteID: white.ID,
				BlackID: black.ID,
				Reason:  "repeat pairing forced; no legal alternative",
			})
		}
	}

	return out, nil
}

func pairKey(a, b PlayerID) [2]PlayerID {
	if a > b {
		a, b = b, a
	}
	return [2]PlayerID{a, b}
}

// splitRequestedByes peels off active players who pre-declared a bye for
// this round, recording a ByeRecord per player at the configured point
// value, and returns the remaining pairing candidates.
func splitRequestedByes(sec *SectionContext, round int, out *RoundPairings) []Player {
	var candidates []Player
	for _, p := range sec.Players {
		if !p.Active {
			continue
		}
		if p.byeRequestedFor(round) {
			kind := ByeHalfPoint
			if sec.Config.ByeType == ByeFull {
				kind = ByeFullPoint
			}
			out.Byes = append(out.Byes, ByeRecord{
				PlayerID: p.ID,
				Section:  sec.Name,
				Round:    round,
				Kind:     kind,
				Points:   sec.Config.ByeType.Points(),
			})
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates
}

// pairFirstRound pairs a historyless field: highest rated player against
// the (n/2)-th highest, second highest against (n/2+1)-th, and so on,
// alternating which side of each board the stronger player sits on. The
// odd player out is the lowest rated and takes a full-point bye.
func pairFirstRound(candidates []Player, out *RoundPairings, section string, round int) [][2]Player {
	remaining := append([]Player(nil), candidates...)
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].Rating != remaining[j].Rating {
			return remaining[i].Rating > remaining[j].Rating
		}
		return remaining[i].ID < remaining[j].ID
	})

	if len(remaining)%2 == 1 {
		last := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		out.Byes = append(out.Byes, ByeRecord{
			PlayerID: last.ID,
			Section:  section,
			Round:    round,
			Kind:     ByeAllocated,
			Points:   1.0,
		})
	}

	var pairs [][2]Player
	topColor := Black
	for len(remaining) >= 2 {
		n := len(remaining)
		top := remaining[0]
		opp := remaining[n/2]
		if topColor == Black {
			topColor = White
			pairs = append(pairs, [2]Player{top, opp})
		} else {
			topColor = Black
			pairs = append(pairs, [2]Player{opp, top})
		}
		remaining = removePlayerAt(remaining, n/2)
		remaining = removePlayerAt(remaining, 0)
	}

	return pairs
}

// pairScoreGroups walks groups highest-score-first. Unpairable players
// downfloat into the next group, where they are prioritized. Leftovers in
// the lowest group are force-paired; those pairs come back in the forced
// set so the caller can flag them once colors are known.
func pairScoreGroups(groups []ScoreGroup, idx *HistoryIndex, out *RoundPairings,
	section string, round int) ([][2]Player, map[[2]PlayerID]bool) {

	var pairs [][2]Player
	var floaters []Player
	forced := make(map[[2]PlayerID]bool)
	for gi, group := range groups {
		pool := append(append([]Player(nil), floaters...), group.Players...)
		groupPairs, unpaired := pairPool(pool, idx)
		pairs = append(pairs, groupPairs...)

		if gi < len(groups)-1 {
			floaters = unpaired
			continue
		}

		// lowest group: nothing left to float into, so force-pair any
		// leftovers
		for len(unpaired) >= 2 {
			a, b := unpaired[0], unpaired[1]
			unpaired = unpaired[2:]
			pairs = append(pairs, [2]Player{a, b})
			forced[pairKey(a.ID, b.ID)] = true
		}
		floaters = unpaired
	}

	// A straggler can only appear here when the field size changed under
	// us (e.g. a late withdrawal left an odd group after bye selection);
	// give it the bye rather than drop it.
	for _, p := range floaters {
		out.Byes = append(out.Byes, ByeRecord{
			PlayerID: p.ID,
			Section:  section,
			Round:    round,
			Kind:     ByeAllocated,
			Points:   1.0,
		})
	}

	return pairs, forced
}

// pairPool pairs one score group's pool (downfloaters first, then the
// group by descending rating). For each top seed the preferred opponent
// is the head of the lower half (S2); on a rematch the candidate slides
// through the rest of S2 before trying the upper half. Players with no
// legal opponent are returned unpaired.
func pairPool(pool []Player, idx *HistoryIndex) (pairs [][2]Player, unpaired []Player) {
	remaining := append([]Player(nil), pool...)
	for len(remaining) >= 2 {
		n := len(remaining)
		top := remaining[0]
		found := -1
		for _, j := range opponentOrder(n) {
			if !idx.HavePlayed(top.ID, remaining[j].ID) {
				found = j
				break
			}
		}
		if found < 0 {
			unpaired = append(unpaired, top)
			remaining = remaining[1:]
			continue
		}
		pairs = append(pairs, [2]Player{top, remaining[found]})
		remaining = removePlayerAt(remaining, found)
		remaining = removePlayerAt(remaining, 0)
	}
	unpaired = append(unpaired, remaining...)

	return pairs, unpaired
}

// opponentOrder yields candidate opponent indices for the pool's top
// player: the natural S2 counterpart first, the rest of S2 in order, then
// the upper half bottom-up.
func opponentOrder(n int) []int {
	order := make([]int, 0, n-1)
	for j := n / 2; j < n; j++ {
		order = append(order, j)
	}
	for j := n/2 - 1; j >= 1; j-- {
		order = append(order, j)
	}
	return order
}

// chooseByePlayer picks the pairing-allocated bye: the lowest-rated
// player without a prior bye, searching the lowest score group first and
// walking upward. Only when every candidate already holds a bye does the
// lowest-rated player overall receive a second one.
func chooseByePlayer(groups []ScoreGroup, idx *HistoryIndex) Player {
	for gi := len(groups) - 1; gi >= 0; gi-- {
		players := groups[gi].Players
		for i := len(players) - 1; i >= 0; i-- {
			if idx.ByeCount(players[i].ID) == 0 {
				return players[i]
			}
		}
	}

	lowest := groups[0].Players[0]
	for _, g := range groups {
		for _, p := range g.Players {
			if p.Rating < lowest.Rating ||
				(p.Rating == lowest.Rating && p.ID > lowest.ID) {
				lowest = p
			}
		}
	}
	return lowest
}

// assignColors decides which player takes White under the color-due rule.
// When both players are due the same color, the larger color imbalance
// wins it; a denial that would push a player past a two-game imbalance is
// flagged as a relaxed constraint.
func assignColors(a, b Player, idx *HistoryIndex, out *RoundPairings,
	section string, round int) (white, black Player) {

	dueA := idx.ColorDue(a.ID)
	dueB := idx.ColorDue(b.ID)

	switch {
	case dueA == dueB && dueA != ColorNone:
		diffA := idx.ColorDiff(a.ID)
		diffB := idx.ColorDiff(b.ID)
		strongerA := abs(diffA) > abs(diffB) ||
			(abs(diffA) == abs(diffB) && a.Rating >= b.Rating)
		if dueA == White {
			white, black = a, b
			if !strongerA {
				white, black = b, a
			}
		} else {
			white, black = b, a
			if !strongerA {
				white, black = a, b
			}
		}
		denied := black
		if dueA == Black {
			denied = white
		}
		deniedDiff := idx.ColorDiff(denied.ID)
		if denied.ID == white.ID {
			deniedDiff++
		} else {
			deniedDiff--
		}
		if abs(deniedDiff) > 2 {
			out.Warnings = append(out.Warnings, ConstraintRelaxed{
				Section: section,
				Round:   round,
				WhiteID: white.ID,
				BlackID: black.ID,
				Reason:  "imperfect color balance forced",
			})
		}
	case dueA == White || dueB == Black:
		white, black = a, b
	case dueA == Black || dueB == White:
		white, black = b, a
	default:
		// neither player has a color history
		white, black = a, b
	}

	return white, black
}

func countGroupPlayers(groups []ScoreGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Players)
	}
	return n
}

func removeFromGroups(groups []ScoreGroup, id PlayerID) []ScoreGroup {
	out := make([]ScoreGroup, 0, len(groups))
	for _, g := range groups {
		players := make([]Player, 0, len(g.Players))
		for _, p := range g.Players {
			if p.ID != id {
				players = append(players, p)
			}
		}
		if len(players) > 0 {
			out = append(out, ScoreGroup{Score: g.Score, Players: players})
		}
	}
	return out
}

func removePlayerAt(s []Player, i int) []Player {
	return append(s[:i], s[i+1:]...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
