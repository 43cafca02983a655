/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"sort"
)

// ScoreGroup holds the players of one section sharing an identical score,
// ordered descending by rating.
type ScoreGroup struct {
	Score   float64
	Players []Player
}

// BuildScoreGroups partitions the active players of one section into
// descending score groups. Scores come from the history index, never from
// the roster's cached score field. Returns EmptySectionError when the
// section has no active players.
func BuildScoreGroups(section string, players []Player, idx *HistoryIndex) ([]ScoreGroup, error) {
	byScore := make(map[float64][]Player)
	active := 0
	for _, p := range players {
		if !p.Active {
			continue
		}
		active++
		score := idx.Score(p.ID)
		byScore[score] = append(byScore[score], p)
	}
	if active == 0 {
		return nil, &EmptySectionError{Section: section}
	}

	groups := make([]ScoreGroup, 0, len(byScore))
	for score, members := range byScore {
		sort.Slice(members, func(i, j int) bool {
			if members[i].Rating != members[j].Rating {
				return members[i].Rating > members[j].Rating
			}
			return members[i].ID < members[j].ID
		})
		groups = append(groups, ScoreGroup{Score: score, Players: members})
	}
	// groups are processed strictly highest-score-first
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Score > groups[j].Score
	})

	return groups, nil
}
