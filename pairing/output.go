/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mikeb26/chesspair/internal"
)

// SectionSorter implements sort.Interface for custom section ordering
// Order: "Open" first, then U<Number> sections descending by number, then
// others lexicographically
type SectionSorter []string

func (s SectionSorter) Len() int { return len(s) }

func (s SectionSorter) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s SectionSorter) Less(i, j int) bool {
	a, b := s[i], s[j]
	// "Open" or "Championship" always first
	if a == "Open" && b != "Open" {
		return true
	}
	if b == "Open" && a != "Open" {
		return false
	}
	if a == "Championship" && b != "Championship" {
		return true
	}
	if b == "Championship" && a != "Championship" {
		return false
	}
	ua, ub := strings.HasPrefix(a, "U"), strings.HasPrefix(b, "U")
	// Both U-sections: compare numeric suffix descending
	if ua && ub {
		ai, errA := strconv.Atoi(strings.TrimPrefix(a, "U"))
		bi, errB := strconv.Atoi(strings.TrimPrefix(b, "U"))
		if errA == nil && errB == nil {
			return ai > bi
		}
	}
	// U-sections before non-U (after Championship)
	if ua != ub {
		return ua
	}
	// Fallback lexicographical
	return a < b
}

type rosterView struct {
	players map[PlayerID]Player
	scores  map[PlayerID]float64
}

func newRosterView(snap *Snapshot) *rosterView {
	rv := &rosterView{
		players: make(map[PlayerID]Player, len(snap.Players)),
		scores:  make(map[PlayerID]float64),
	}
	for _, p := range snap.Players {
		rv.players[p.ID] = p
	}
	for _, res := range snap.Results {
		rv.scores[res.PlayerID] += res.PointsEarned
	}
	return rv
}

func (rv *rosterView) label(id PlayerID) string {
	p, ok := rv.players[id]
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	rating := "unrated"
	if p.Rating != 0 {
		rating = strconv.Itoa(p.Rating)
	}
	return fmt.Sprintf("%s(%s %s)", p.DisplayName, rating,
		internal.ScoreToString(rv.scores[id]))
}

// BuildPairingsOutput formats pairings into grouped, aligned string output
func BuildPairingsOutput(snap *Snapshot, rp *RoundPairings) string {
	rv := newRosterView(snap)

	// Group pairings and byes by section
	sections := make(map[string][]Pairing)
	for _, p := range rp.Pairings {
		sections[p.Section] = append(sections[p.Section], p)
	}
	secByes := make(map[string][]ByeRecord)
	for _, b := range rp.Byes {
		secByes[b.Section] = append(secByes[b.Section], b)
	}
	var sectionNames []string
	seen := make(map[string]bool)
	for sec := range sections {
		seen[sec] = true
		sectionNames = append(sectionNames, sec)
	}
	for sec := range secByes {
		if !seen[sec] {
			sectionNames = append(sectionNames, sec)
		}
	}
	sort.Sort(SectionSorter(sectionNames))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", rp.Round))

	for _, sec := range sectionNames {
		list := sections[sec]
		sort.Slice(list, func(i, j int) bool {
			return list[i].BoardNumber < list[j].BoardNumber
		})

		type row struct{ board, white, black string }
		var rows []row
		for _, p := range list {
			rows = append(rows, row{
				board: fmt.Sprintf("%d.", p.BoardNumber),
				white: rv.label(p.WhiteID),
				black: rv.label(p.BlackID),
			})
		}
		for _, b := range secByes[sec] {
			bl := "BYE(1)"
			if b.Points != 1.0 {
				bl = "BYE(½)"
			}
			rows = append(rows, row{board: "n/a", white: rv.label(b.PlayerID), black: bl})
		}

		// Compute column widths
		maxB, maxW, maxBl := len("Board"), len("White"), len("Black")
		for _, r := range rows {
			if l := len(r.board); l > maxB {
				maxB = l
			}
			if l := len(r.white); l > maxW {
				maxW = l
			}
			if l := len(r.black); l > maxBl {
				maxBl = l
			}
		}

		// Write section header and table
		if len(sectionNames) > 1 {
			if sec == "" {
				sec = "UNNAMED"
			}
			sb.WriteString(fmt.Sprintf("%s Section\n", sec))
		}
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxB, "Board", maxW,
			"White", maxBl, "Black"))
		for _, r := range rows {
			sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxB, r.board,
				maxW, r.white, maxBl, r.black))
		}
		sb.WriteString("\n")
	}

	for _, w := range rp.Warnings {
		sb.WriteString(fmt.Sprintf("* director review: %v\n", w))
	}

	return sb.String()
}

// BuildStandingsOutput formats standings into grouped, aligned string
// output, one tiebreak column per configured criterion.
func BuildStandingsOutput(snap *Snapshot, standings map[string][]Standing) string {
	criteria := snap.Config.TiebreakOrder
	if len(criteria) == 0 {
		criteria = DefaultTiebreakOrder
	}

	var sectionNames []string
	for sec := range standings {
		sectionNames = append(sectionNames, sec)
	}
	sort.Sort(SectionSorter(sectionNames))

	var sb strings.Builder
	for _, sec := range sectionNames {
		rows := make([][]string, 0, len(standings[sec]))
		priorPlace := 0
		for _, st := range standings[sec] {
			rank := ""
			if st.Place != priorPlace {
				rank = fmt.Sprintf("%v.", st.Place)
				priorPlace = st.Place
			}
			row := []string{rank, st.Player.DisplayName,
				fmt.Sprintf("%.1f", st.Score)}
			for _, tb := range st.Tiebreaks {
				row = append(row, fmt.Sprintf("%.1f", tb))
			}
			rows = append(rows, row)
		}

		header := []string{"Place", "Name", "Score"}
		for _, c := range criteria {
			header = append(header, c.DisplayName())
		}
		widths := make([]int, len(header))
		for i, h := range header {
			widths[i] = len(h)
		}
		for _, row := range rows {
			for i, cell := range row {
				if i < len(widths) && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}

		if len(sectionNames) > 1 {
			name := sec
			if name == "" {
				name = "UNNAMED"
			}
			sb.WriteString(fmt.Sprintf("%s Section\n", name))
		}
		writeAligned(&sb, header, widths)
		for _, row := range rows {
			writeAligned(&sb, row, widths)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildQuadsOutput formats quad assignments into aligned string output.
func BuildQuadsOutput(snap *Snapshot, quads []Quad) string {
	rv := newRosterView(snap)

	var sb strings.Builder
	for _, q := range quads {
		if q.Section != "" {
			sb.WriteString(fmt.Sprintf("%s %s\n", q.Section, q.ID))
		} else {
			sb.WriteString(fmt.Sprintf("%s\n", q.ID))
		}
		for _, id := range q.Players {
			sb.WriteString(fmt.Sprintf("  %s\n", rv.label(id)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeAligned(sb *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
	}
	sb.WriteString("\n")
}
