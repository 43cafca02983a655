/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"sort"
)

// teamState is the per-team view derived from result history: the roster
// in board order, cumulative match points, and the set of teams already
// faced.
type teamState struct {
	team        Team
	boards      []Player // descending rating
	matchPoints float64
	gamePoints  float64
	opponents   map[string]bool
	byes        int
}

func (ts *teamState) avgRating() int {
	if len(ts.boards) == 0 {
		return 0
	}
	sum := 0
	for _, p := range ts.boards {
		sum += p.Rating
	}
	return sum / len(ts.boards)
}

// PairTeamSwissSection pairs teams as single Swiss units scored by match
// points, then maps each team pairing to per-board individual pairings by
// aligning both rosters in descending rating order. The first-named team
// takes White on odd boards.
func PairTeamSwissSection(sec *SectionContext, round int) (*RoundPairings, error) {
	if sec.Config.Format != FormatTeamSwiss {
		return nil, &FormatMismatchError{
			Section: sec.Name,
			Want:    FormatTeamSwiss,
			Got:     sec.Config.Format,
		}
	}

	states, err := buildTeamStates(sec)
	if err != nil {
		return nil, err
	}

	out := &RoundPairings{Round: round}

	// team-level score groups, highest match score first
	sort.Slice(states, func(i, j int) bool {
		if states[i].matchPoints != states[j].matchPoints {
			return states[i].matchPoints > states[j].matchPoints
		}
		if states[i].avgRating() != states[j].avgRating() {
			return states[i].avgRating() > states[j].avgRating()
		}
		return states[i].team.ID < states[j].team.ID
	})

	if len(states)%2 == 1 {
		bye := chooseTeamBye(states)
		states = removeTeamState(states, bye.team.ID)
		for _, p := range bye.boards {
			out.Byes = append(out.Byes, ByeRecord{
				PlayerID: p.ID,
				Section:  sec.Name,
				Round:    round,
				Kind:     ByeAllocated,
				Points:   1.0,
			})
		}
	}

	matches := pairTeamPool(states, out, sec.Name, round)

	boardNum := 1
	for _, m := range matches {
		home, away := m[0], m[1]
		tp := TeamPairing{
			Section:     sec.Name,
			RoundNumber: round,
			HomeTeamID:  home.team.ID,
			AwayTeamID:  away.team.ID,
		}
		n := len(home.boards)
		if len(away.boards) < n {
			n = len(away.boards)
		}
		for i := 0; i < n; i++ {
			white, black := home.boards[i], away.boards[i]
			if i%2 == 1 {
				white, black = black, white
			}
			p := Pairing{
				Section:     sec.Name,
				RoundNumber: round,
				BoardNumber: boardNum,
				WhiteID:     white.ID,
				BlackID:     black.ID,
				GroupID:     fmt.Sprintf("%s-%s", home.team.ID, away.team.ID),
			}
			tp.Boards = append(tp.Boards, p)
			out.Pairings = append(out.Pairings, p)
			boardNum++
		}
		out.TeamPairings = append(out.TeamPairings, tp)
	}

	return out, nil
}

// buildTeamStates derives each team's board order, match points, and
// opponent history from the section's players and results.
func buildTeamStates(sec *SectionContext) ([]*teamState, error) {
	byID := make(map[string]*teamState)
	playerTeam := make(map[PlayerID]string)
	var states []*teamState

	for _, t := range sec.Teams {
		ts := &teamState{team: t, opponents: make(map[string]bool)}
		byID[t.ID] = ts
		states = append(states, ts)
	}
	for _, p := range sec.Players {
		if !p.Active {
			continue
		}
		ts, ok := byID[p.TeamID]
		if !ok {
			return nil, &DataIntegrityError{
				Section: sec.Name,
				Detail:  fmt.Sprintf("player %d references unknown team %q", p.ID, p.TeamID),
			}
		}
		ts.boards = append(ts.boards, p)
		playerTeam[p.ID] = p.TeamID
	}

	var live []*teamState
	for _, ts := range states {
		if len(ts.boards) == 0 {
			continue
		}
		sort.Slice(ts.boards, func(i, j int) bool {
			if ts.boards[i].Rating != ts.boards[j].Rating {
				return ts.boards[i].Rating > ts.boards[j].Rating
			}
			return ts.boards[i].ID < ts.boards[j].ID
		})
		live = append(live, ts)
	}
	if len(live) == 0 {
		return nil, &EmptySectionError{Section: sec.Name}
	}

	if err := scoreTeamMatches(sec, byID, playerTeam); err != nil {
		return nil, err
	}

	return live, nil
}

// scoreTeamMatches replays the result history round by round, summing
// board points into per-match totals and awarding each team 1 match point
// for a won match and half for a drawn one.
func scoreTeamMatches(sec *SectionContext, byID map[string]*teamState,
	playerTeam map[PlayerID]string) error {

	type matchKey struct {
		round     int
		team, opp string
	}
	boardPoints := make(map[matchKey]float64)
	boardCounts := make(map[matchKey]int)
	byeRounds := make(map[string]map[int]int)

	for _, ts := range byID {
		for _, p := range ts.boards {
			for _, res := range sec.History.Results(p.ID) {
				if res.OpponentID == 0 {
					ts.gamePoints += res.PointsEarned
					if byeRounds[ts.team.ID] == nil {
						byeRounds[ts.team.ID] = make(map[int]int)
					}
					byeRounds[ts.team.ID][res.Round]++
					continue
				}
				oppTeam, ok := playerTeam[res.OpponentID]
				if !ok {
					return &DataIntegrityError{
						Section: sec.Name,
						Detail: fmt.Sprintf("result for player %d round %d references opponent %d with no team",
							p.ID, res.Round, res.OpponentID),
					}
				}
				if oppTeam == ts.team.ID {
					return &DataIntegrityError{
						Section: sec.Name,
						Detail: fmt.Sprintf("players %d and %d of team %q paired against each other in round %d",
							p.ID, res.OpponentID, ts.team.ID, res.Round),
					}
				}
				key := matchKey{round: res.Round, team: ts.team.ID, opp: oppTeam}
				boardPoints[key] += res.PointsEarned
				boardCounts[key]++
				ts.gamePoints += res.PointsEarned
				ts.opponents[oppTeam] = true
			}
		}
	}

	for key, pts := range boardPoints {
		ts := byID[key.team]
		boards := float64(boardCounts[key])
		switch {
		case pts > boards/2:
			ts.matchPoints += 1.0
		case pts == boards/2:
			ts.matchPoints += 0.5
		}
	}

	// a round in which every board sat out counts as a team bye and
	// scores as a won match, keeping the bye team level with teams that
	// won over the board
	for teamID, rounds := range byeRounds {
		ts := byID[teamID]
		for _, n := range rounds {
			if n == len(ts.boards) {
				ts.byes++
				ts.matchPoints += 1.0
			}
		}
	}

	return nil
}

// pairTeamPool mirrors the individual Dutch matcher at team granularity:
// top team against the head of the lower half, sliding on a rematch, with
// forced repeats flagged rather than dropped.
func pairTeamPool(pool []*teamState, out *RoundPairings, section string,
	round int) [][2]*teamState {

	remaining := append([]*teamState(nil), pool...)
	var matches [][2]*teamState
	var unpaired []*teamState
	for len(remaining) >= 2 {
		n := len(remaining)
		top := remaining[0]
		found := -1
		for _, j := range opponentOrder(n) {
			if !top.opponents[remaining[j].team.ID] {
				found = j
				break
			}
		}
		if found < 0 {
			unpaired = append(unpaired, top)
			remaining = remaining[1:]
			continue
		}
		matches = append(matches, [2]*teamState{top, remaining[found]})
		remaining = append(remaining[:found], remaining[found+1:]...)
		remaining = remaining[1:]
	}
	unpaired = append(unpaired, remaining...)

	for len(unpaired) >= 2 {
		a, b := unpaired[0], unpaired[1]
		unpaired = unpaired[2:]
		matches = append(matches, [2]*teamState{a, b})
		if len(a.boards) > 0 && len(b.boards) > 0 {
			out.Warnings = append(out.Warnings, ConstraintRelaxed{
				Section: section,
				Round:   round,
				WhiteID: a.boards[0].ID,
				BlackID: b.boards[0].ID,
				Reason: fmt.Sprintf("repeat team pairing %s vs %s forced; no legal alternative",
					a.team.ID, b.team.ID),
			})
		}
	}

	return matches
}

// chooseTeamBye picks the lowest-standing team without a prior bye,
// falling back to the lowest-standing team outright.
func chooseTeamBye(states []*teamState) *teamState {
	for i := len(states) - 1; i >= 0; i-- {
		if states[i].byes == 0 {
			return states[i]
		}
	}
	return states[len(states)-1]
}

func removeTeamState(states []*teamState, id string) []*teamState {
	out := make([]*teamState, 0, len(states))
	for _, ts := range states {
		if ts.team.ID != id {
			out = append(out, ts)
		}
	}
	return out
}

// TeamStanding ranks one team by match points, with cumulative game
// points as the first tiebreak.
type TeamStanding struct {
	Team        Team    `json:"team"`
	MatchPoints float64 `json:"matchPoints"`
	GamePoints  float64 `json:"gamePoints"`
	Place       int     `json:"place"`
}

// ComputeTeamStandings ranks a team-swiss section's teams. Teams tied on
// both match and game points share a place.
func ComputeTeamStandings(sec *SectionContext) ([]TeamStanding, error) {
	if sec.Config.Format != FormatTeamSwiss {
		return nil, &FormatMismatchError{
			Section: sec.Name,
			Want:    FormatTeamSwiss,
			Got:     sec.Config.Format,
		}
	}
	states, err := buildTeamStates(sec)
	if err != nil {
		return nil, err
	}

	sort.Slice(states, func(i, j int) bool {
		if states[i].matchPoints != states[j].matchPoints {
			return states[i].matchPoints > states[j].matchPoints
		}
		if states[i].gamePoints != states[j].gamePoints {
			return states[i].gamePoints > states[j].gamePoints
		}
		return states[i].team.ID < states[j].team.ID
	})

	standings := make([]TeamStanding, 0, len(states))
	place := 0
	for i, ts := range states {
		if i == 0 || states[i-1].matchPoints != ts.matchPoints ||
			states[i-1].gamePoints != ts.gamePoints {
			place = i + 1
		}
		standings = append(standings, TeamStanding{
			Team:        ts.team,
			MatchPoints: ts.matchPoints,
			GamePoints:  ts.gamePoints,
			Place:       place,
		})
	}

	return standings, nil
}
