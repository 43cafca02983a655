/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// playerHistory accumulates one player's prior opponents, color sequence,
// and per-round points, all derived from raw results.
type playerHistory struct {
	results   []GameResult // ordered by round
	opponents map[PlayerID]bool
	colors    []Color // colors actually played, byes excluded
	score     float64
	byeRounds []int
}

// HistoryIndex is the per-section index over result history that every
// engine consults. It is rebuilt from scratch on each request and holds
// no state between calls.
type HistoryIndex struct {
	section  string
	players  map[PlayerID]*playerHistory
	maxRound int
}

// BuildHistoryIndex constructs the index for one section from its flat
// result list. Malformed rows are rejected with a DataIntegrityError.
func BuildHistoryIndex(section string, results []GameResult) (*HistoryIndex, error) {
	idx := &HistoryIndex{
		section: section,
		players: make(map[PlayerID]*playerHistory),
	}

	seen := make(map[PlayerID]map[int]bool)
	for _, res := range results {
		if res.Round < 1 {
			return nil, &DataIntegrityError{
				Section: section,
				Detail:  fmt.Sprintf("result for player %d has round %d", res.PlayerID, res.Round),
			}
		}
		if !validPoints(res.PointsEarned) {
			return nil, &DataIntegrityError{
				Section: section,
				Detail: fmt.Sprintf("result for player %d round %d has points %v",
					res.PlayerID, res.Round, res.PointsEarned),
			}
		}
		if res.OpponentID != 0 && res.Color == ColorNone {
			return nil, &DataIntegrityError{
				Section: section,
				Detail: fmt.Sprintf("game result for player %d round %d is missing a color",
					res.PlayerID, res.Round),
			}
		}
		rounds, ok := seen[res.PlayerID]
		if !ok {
			rounds = make(map[int]bool)
			seen[res.PlayerID] = rounds
		}
		if rounds[res.Round] {
			return nil, &DataIntegrityError{
				Section: section,
				Detail: fmt.Sprintf("player %d has two results for round %d",
					res.PlayerID, res.Round),
			}
		}
		rounds[res.Round] = true

		ph := idx.history(res.PlayerID)
		ph.results = append(ph.results, res)
		ph.score += res.PointsEarned
		if res.OpponentID != 0 {
			ph.opponents[res.OpponentID] = true
		} else {
			ph.byeRounds = append(ph.byeRounds, res.Round)
		}
		if res.Round > idx.maxRound {
			idx.maxRound = res.Round
		}
	}

	// Order each player's results by round so color sequences and the
	// cumulative tiebreak see rounds in play order regardless of input
	// ordering.
	for _, ph := range idx.players {
		sort.Slice(ph.results, func(i, j int) bool {
			return ph.results[i].Round < ph.results[j].Round
		})
		for _, res := range ph.results {
			if res.OpponentID != 0 {
				ph.colors = append(ph.colors, res.Color)
			}
		}
	}

	return idx, nil
}

func validPoints(pts float64) bool {
	return pts >= 0.0 && pts <= 1.0 && math.Mod(pts*2, 1) == 0
}

func (idx *HistoryIndex) history(id PlayerID) *playerHistory {
	ph, ok := idx.players[id]
	if !ok {
		ph = &playerHistory{opponents: make(map[PlayerID]bool)}
		idx.players[id] = ph
	}
	return ph
}

// Score returns the player's cumulative score from history.
func (idx *HistoryIndex) Score(id PlayerID) float64 {
	if ph, ok := idx.players[id]; ok {
		return ph.score
	}
	return 0
}

// HavePlayed reports whether the two players already met in any round.
func (idx *HistoryIndex) HavePlayed(a, b PlayerID) bool {
	if ph, ok := idx.players[a]; ok {
		return ph.opponents[b]
	}
	return false
}

// ByeCount returns how many byes of any kind the player has received.
func (idx *HistoryIndex) ByeCount(id PlayerID) int {
	if ph, ok := idx.players[id]; ok {
		return len(ph.byeRounds)
	}
	return 0
}

// ColorDiff returns whites played minus blacks played.
func (idx *HistoryIndex) ColorDiff(id PlayerID) int {
	ph, ok := idx.players[id]
	if !ok {
		return 0
	}
	diff := 0
	for _, c := range ph.colors {
		if c == White {
			diff++
		} else {
			diff--
		}
	}
	return diff
}

// ColorDue returns the color the player is owed next: a player who has had
// more blacks is due White and vice versa; on an even split the player
// alternates away from the last color played. ColorNone means no
// preference (no games yet).
func (idx *HistoryIndex) ColorDue(id PlayerID) Color {
	ph, ok := idx.players[id]
	if !ok || len(ph.colors) == 0 {
		return ColorNone
	}
	diff := idx.ColorDiff(id)
	switch {
	case diff > 0:
		return Black
	case diff < 0:
		return White
	}
	return ph.colors[len(ph.colors)-1].other()
}

// Results returns the player's results ordered by round. The returned
// slice is shared; callers must not modify it.
func (idx *HistoryIndex) Results(id PlayerID) []GameResult {
	if ph, ok := idx.players[id]; ok {
		return ph.results
	}
	return nil
}

// MaxRound returns the highest round number present in the history.
func (idx *HistoryIndex) MaxRound() int {
	return idx.maxRound
}

var (
	byeNumOnlyRe = regexp.MustCompile(`^\d+$`)
	byeListRe    = regexp.MustCompile(`(?i)\b(?:round|rnd|rounds|rnds)\b[\s:]*((?:\d+(?:\s*[,&;/]\s*\d+)*))`)
	byeDigitsRe  = regexp.MustCompile(`\d+`)
)

// byeRequestedForRound reports whether a free-form registration note like
// "round 1,5" or "rnds 1&4" requests a bye for the given round.
func byeRequestedForRound(req string, round int) bool {
	s := strings.TrimSpace(req)
	if s == "" {
		return false
	}
	// If input is just a number, e.g., "1"
	if byeNumOnlyRe.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil && n == round {
			return true
		}
	}

	if matches := byeListRe.FindStringSubmatch(strings.ToLower(s)); matches != nil {
		for _, m := range byeDigitsRe.FindAllString(matches[1], -1) {
			if n, err := strconv.Atoi(m); err == nil && n == round {
				return true
			}
		}
	}

	return false
}
