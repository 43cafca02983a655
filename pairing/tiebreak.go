/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TiebreakCriterion names one tiebreak formula. Standings compare the
// configured criteria lexicographically, in order, never one alone.
type TiebreakCriterion int

const (
	TbBuchholz TiebreakCriterion = iota
	TbMedianBuchholz
	TbModifiedMedian
	TbSonnebornBerger
	TbCumulative
	TbPerformance
)

// DefaultTiebreakOrder is the order used when a tournament configures
// none, matching common USCF practice.
var DefaultTiebreakOrder = []TiebreakCriterion{
	TbModifiedMedian,
	TbSonnebornBerger,
	TbCumulative,
}

func (tc TiebreakCriterion) String() string {
	switch tc {
	case TbBuchholz:
		return "buchholz"
	case TbMedianBuchholz:
		return "median-buchholz"
	case TbModifiedMedian:
		return "modified-median"
	case TbSonnebornBerger:
		return "sonneborn-berger"
	case TbCumulative:
		return "cumulative"
	case TbPerformance:
		return "performance"
	}
	return "?"
}

// DisplayName returns the column header used in standings output.
func (tc TiebreakCriterion) DisplayName() string {
	switch tc {
	case TbBuchholz:
		return "Buch"
	case TbMedianBuchholz:
		return "Median"
	case TbModifiedMedian:
		return "ModMed"
	case TbSonnebornBerger:
		return "S-B"
	case TbCumulative:
		return "Cumul"
	case TbPerformance:
		return "Perf"
	}
	return "?"
}

func (tc TiebreakCriterion) MarshalJSON() ([]byte, error) {
	return json.Marshal(tc.String())
}

func (tc *TiebreakCriterion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("TiebreakCriterion unmarshal: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buchholz", "solkoff":
		*tc = TbBuchholz
	case "median-buchholz", "median":
		*tc = TbMedianBuchholz
	case "modified-median", "harkness":
		*tc = TbModifiedMedian
	case "sonneborn-berger", "sb":
		*tc = TbSonnebornBerger
	case "cumulative":
		*tc = TbCumulative
	case "performance", "performance-rating":
		*tc = TbPerformance
	default:
		return fmt.Errorf("TiebreakCriterion unmarshal: unknown criterion %q", s)
	}
	return nil
}

// ComputeTiebreaks evaluates the configured criteria for one player,
// returning the ordered tiebreak vector. ratings maps every roster
// player to their rating for the performance criterion.
func ComputeTiebreaks(id PlayerID, idx *HistoryIndex, ratings map[PlayerID]int,
	criteria []TiebreakCriterion) []float64 {

	vector := make([]float64, len(criteria))
	for i, criterion := range criteria {
		switch criterion {
		case TbBuchholz:
			vector[i] = buchholz(id, idx, keepAll)
		case TbMedianBuchholz:
			vector[i] = buchholz(id, idx, dropHighAndLow)
		case TbModifiedMedian:
			vector[i] = buchholz(id, idx, dropLow)
		case TbSonnebornBerger:
			vector[i] = sonnebornBerger(id, idx)
		case TbCumulative:
			vector[i] = cumulative(id, idx)
		case TbPerformance:
			vector[i] = performanceRating(id, idx, ratings)
		}
	}
	return vector
}

type medianCut int

const (
	keepAll medianCut = iota
	dropLow
	dropHighAndLow
)

// buchholz sums opponents' final scores. A bye contributes the player's
// own final score as a virtual opponent. The cut variants remove the
// single lowest, or both the highest and lowest, contribution.
func buchholz(id PlayerID, idx *HistoryIndex, cut medianCut) float64 {
	var scores []float64
	for _, res := range idx.Results(id) {
		if res.OpponentID != 0 {
			scores = append(scores, idx.Score(res.OpponentID))
		} else {
			scores = append(scores, idx.Score(id))
		}
	}
	sort.Float64s(scores)
	switch cut {
	case dropLow:
		if len(scores) >= 2 {
			scores = scores[1:]
		}
	case dropHighAndLow:
		if len(scores) >= 3 {
			scores = scores[1 : len(scores)-1]
		}
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total
}

// sonnebornBerger sums the scores of defeated opponents plus half the
// scores of drawn opponents. Losses and byes contribute nothing.
func sonnebornBerger(id PlayerID, idx *HistoryIndex) float64 {
	total := 0.0
	for _, res := range idx.Results(id) {
		if res.OpponentID == 0 {
			continue
		}
		switch res.PointsEarned {
		case 1.0:
			total += idx.Score(res.OpponentID)
		case 0.5:
			total += 0.5 * idx.Score(res.OpponentID)
		}
	}
	return total
}

// cumulative sums the player's running score after each round, rewarding
// early wins.
func cumulative(id PlayerID, idx *HistoryIndex) float64 {
	running := 0.0
	total := 0.0
	for _, res := range idx.Results(id) {
		running += res.PointsEarned
		total += running
	}
	return total
}

// performanceRating is the standard linear approximation: average
// opponent rating plus 400 times (wins minus losses) over games played.
// Byes and opponents with no known rating are excluded.
func performanceRating(id PlayerID, idx *HistoryIndex, ratings map[PlayerID]int) float64 {
	games := 0
	ratingSum := 0
	winLoss := 0
	for _, res := range idx.Results(id) {
		if res.OpponentID == 0 {
			continue
		}
		oppRating, ok := ratings[res.OpponentID]
		if !ok {
			continue
		}
		games++
		ratingSum += oppRating
		switch res.PointsEarned {
		case 1.0:
			winLoss++
		case 0.0:
			winLoss--
		}
	}
	if games == 0 {
		return 0
	}
	avg := float64(ratingSum) / float64(games)
	return avg + 400.0*float64(winLoss)/float64(games)
}

// ComputeSectionStandings ranks one section's players by raw score, then
// lexicographically by the configured tiebreak vector. Players still tied
// after every criterion share a place number.
func ComputeSectionStandings(sec *SectionContext) ([]Standing, error) {
	criteria := sec.Config.TiebreakOrder
	if len(criteria) == 0 {
		criteria = DefaultTiebreakOrder
	}

	ratings := make(map[PlayerID]int, len(sec.Players))
	for _, p := range sec.Players {
		ratings[p.ID] = p.Rating
	}

	var standings []Standing
	for _, p := range sec.Players {
		if !p.Active && len(sec.History.Results(p.ID)) == 0 {
			continue
		}
		standings = append(standings, Standing{
			Player:    p,
			Score:     sec.History.Score(p.ID),
			Tiebreaks: ComputeTiebreaks(p.ID, sec.History, ratings, criteria),
		})
	}
	if len(standings) == 0 {
		return nil, &EmptySectionError{Section: sec.Name}
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if c := compareVectors(a.Tiebreaks, b.Tiebreaks); c != 0 {
			return c > 0
		}
		// presentation order only; the shared place number below is what
		// marks these as tied
		if a.Player.Rating != b.Player.Rating {
			return a.Player.Rating > b.Player.Rating
		}
		return a.Player.ID < b.Player.ID
	})

	place := 0
	for i := range standings {
		if i == 0 || standings[i-1].Score != standings[i].Score ||
			compareVectors(standings[i-1].Tiebreaks, standings[i].Tiebreaks) != 0 {
			place = i + 1
		}
		standings[i].Place = place
	}

	return standings, nil
}

// compareVectors compares two tiebreak vectors lexicographically,
// returning 1, -1, or 0.
func compareVectors(a, b []float64) int {
	for i := range a {
		if i >= len(b) {
			break
		}
		if a[i] > b[i] {
			return 1
		}
		if a[i] < b[i] {
			return -1
		}
	}
	return 0
}
