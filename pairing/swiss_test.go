/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"errors"
	"testing"
)

// newTestSection builds a SectionContext directly from players and
// results, bypassing snapshot plumbing.
func newTestSection(t *testing.T, name string, cfg TournamentConfig,
	players []Player, teams []Team, results []GameResult) *SectionContext {

	t.Helper()
	idx, err := BuildHistoryIndex(name, results)
	if err != nil {
		t.Fatalf("BuildHistoryIndex returned error: %v", err)
	}
	return &SectionContext{
		Name:    name,
		Config:  cfg,
		Players: players,
		Teams:   teams,
		History: idx,
	}
}

func swissPlayers() []Player {
	return []Player{
		{ID: 1, DisplayName: "Alice", Rating: 1800, Section: "Open", Active: true},
		{ID: 2, DisplayName: "Bob", Rating: 1700, Section: "Open", Active: true},
		{ID: 3, DisplayName: "Carol", Rating: 1600, Section: "Open", Active: true},
		{ID: 4, DisplayName: "Dave", Rating: 1500, Section: "Open", Active: true},
		{ID: 5, DisplayName: "Eve", Rating: 1400, Section: "Open", Active: true},
	}
}

// pairedWith returns the opponent of id in the round's pairings, or 0.
func pairedWith(rp *RoundPairings, id PlayerID) PlayerID {
	for _, p := range rp.Pairings {
		if p.WhiteID == id {
			return p.BlackID
		}
		if p.BlackID == id {
			return p.WhiteID
		}
	}
	return 0
}

// TestPairSwissFirstRound verifies the half-split round 1: top half against
// bottom half by rating, lowest rated player taking the odd bye.
func TestPairSwissFirstRound(t *testing.T) {
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		swissPlayers(), nil, nil)

	rp, err := PairSwissSection(sec, 1)
	if err != nil {
		t.Fatalf("PairSwissSection returned error: %v", err)
	}

	if len(rp.Pairings) != 2 {
		t.Fatalf("expected 2 pairings, got %d", len(rp.Pairings))
	}
	if got := pairedWith(rp, 1); got != 3 {
		t.Errorf("1800 paired with %d; want 1600 (id 3)", got)
	}
	if got := pairedWith(rp, 2); got != 4 {
		t.Errorf("1700 paired with %d; want 1500 (id 4)", got)
	}

	if len(rp.Byes) != 1 {
		t.Fatalf("expected 1 bye, got %d", len(rp.Byes))
	}
	bye := rp.Byes[0]
	if bye.PlayerID != 5 {
		t.Errorf("bye went to %d; want lowest rated (id 5)", bye.PlayerID)
	}
	if bye.Kind != ByeAllocated || bye.Points != 1.0 {
		t.Errorf("bye = %+v; want allocated full point", bye)
	}

	for i, p := range rp.Pairings {
		if p.BoardNumber != i+1 {
			t.Errorf("board %d numbered %d; boards must be contiguous from 1",
				i, p.BoardNumber)
		}
	}
}

// TestPairSwissSecondRound verifies score-group pairing with no rematches
// and color alternation after round 1.
func TestPairSwissSecondRound(t *testing.T) {
	results := []GameResult{
		{Round: 1, PlayerID: 1, OpponentID: 3, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 3, OpponentID: 1, Color: Black, PointsEarned: 0.0},
		{Round: 1, PlayerID: 2, OpponentID: 4, Color: Black, PointsEarned: 1.0},
		{Round: 1, PlayerID: 4, OpponentID: 2, Color: White, PointsEarned: 0.0},
	}
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		swissPlayers()[:4], nil, results)

	rp, err := PairSwissSection(sec, 2)
	if err != nil {
		t.Fatalf("PairSwissSection returned error: %v", err)
	}
	if len(rp.Pairings) != 2 {
		t.Fatalf("expected 2 pairings, got %d", len(rp.Pairings))
	}

	// winners meet winners, losers meet losers; nobody repeats
	if got := pairedWith(rp, 1); got != 2 {
		t.Errorf("round 2 paired 1 with %d; want 2", got)
	}
	if got := pairedWith(rp, 3); got != 4 {
		t.Errorf("round 2 paired 3 with %d; want 4", got)
	}

	// both round-1 whites are due black and vice versa
	for _, p := range rp.Pairings {
		if p.WhiteID == 1 || p.WhiteID == 4 {
			t.Errorf("player %d got white twice in a row", p.WhiteID)
		}
	}
}

// TestPairSwissByeRotation verifies the allocated bye goes to the
// lowest-rated player in the lowest score group who has not yet had one.
func TestPairSwissByeRotation(t *testing.T) {
	results := []GameResult{
		{Round: 1, PlayerID: 1, OpponentID: 3, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 3, OpponentID: 1, Color: Black, PointsEarned: 0.0},
		{Round: 1, PlayerID: 2, OpponentID: 4, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 4, OpponentID: 2, Color: Black, PointsEarned: 0.0},
		{Round: 1, PlayerID: 5, Color: ColorNone, PointsEarned: 1.0},
	}
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		swissPlayers(), nil, results)

	rp, err := PairSwissSection(sec, 2)
	if err != nil {
		t.Fatalf("PairSwissSection returned error: %v", err)
	}
	if len(rp.Byes) != 1 {
		t.Fatalf("expected 1 bye, got %d", len(rp.Byes))
	}
	if rp.Byes[0].PlayerID == 5 {
		t.Errorf("player 5 received a second bye")
	}
	if got := rp.Byes[0].PlayerID; got != 4 {
		t.Errorf("bye went to %d; want 4 (lowest in lowest group without one)", got)
	}
	if len(rp.Pairings) != 2 {
		t.Errorf("expected 2 pairings, got %d", len(rp.Pairings))
	}
}

// TestPairSwissByeExhaustedLowestGroup verifies that when every player in
// the lowest score group already holds a bye, the allocated bye climbs to
// a bye-free player in a higher group instead of repeating.
func TestPairSwissByeExhaustedLowestGroup(t *testing.T) {
	results := []GameResult{
		{Round: 1, PlayerID: 1, OpponentID: 4, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 4, OpponentID: 1, Color: Black, PointsEarned: 0.0},
		{Round: 1, PlayerID: 2, OpponentID: 5, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 5, OpponentID: 2, Color: Black, PointsEarned: 0.0},
		{Round: 2, PlayerID: 3, OpponentID: 1, Color: White, PointsEarned: 1.0},
		{Round: 2, PlayerID: 1, OpponentID: 3, Color: Black, PointsEarned: 0.0},
		{Round: 2, PlayerID: 4, Color: ColorNone, PointsEarned: 0.5},
		{Round: 2, PlayerID: 5, Color: ColorNone, PointsEarned: 0.5},
	}
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		swissPlayers(), nil, results)

	rp, err := PairSwissSection(sec, 3)
	if err != nil {
		t.Fatalf("PairSwissSection returned error: %v", err)
	}
	if len(rp.Byes) != 1 {
		t.Fatalf("expected 1 bye, got %d", len(rp.Byes))
	}
	bye := rp.Byes[0]
	if bye.PlayerID == 4 || bye.PlayerID == 5 {
		t.Errorf("bye repeated for player %d while bye-free players exist", bye.PlayerID)
	}
	if bye.PlayerID != 3 {
		t.Errorf("bye went to %d; want 3 (lowest-rated bye-free player)", bye.PlayerID)
	}
	if len(rp.Pairings) != 2 {
		t.Errorf("expected 2 pairings, got %d", len(rp.Pairings))
	}
}

// TestPairSwissByeAllExhausted verifies the fallback when everyone holds a
// bye: the lowest-rated player overall, regardless of score group.
func TestPairSwissByeAllExhausted(t *testing.T) {
	players := []Player{
		{ID: 1, DisplayName: "Alice", Rating: 1400, Section: "Open", Active: true},
		{ID: 2, DisplayName: "Bob", Rating: 1800, Section: "Open", Active: true},
		{ID: 3, DisplayName: "Carol", Rating: 1700, Section: "Open", Active: true},
	}
	results := []GameResult{
		{Round: 1, PlayerID: 1, Color: ColorNone, PointsEarned: 1.0},
		{Round: 1, PlayerID: 2, Color: ColorNone, PointsEarned: 0.0},
		{Round: 1, PlayerID: 3, Color: ColorNone, PointsEarned: 0.0},
	}
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		players, nil, results)

	rp, err := PairSwissSection(sec, 2)
	if err != nil {
		t.Fatalf("PairSwissSection returned error: %v", err)
	}
	if len(rp.Byes) != 1 {
		t.Fatalf("expected 1 bye, got %d", len(rp.Byes))
	}
	if got := rp.Byes[0].PlayerID; got != 1 {
		t.Errorf("bye went to %d; want 1 (lowest rated overall)", got)
	}
	if len(rp.Pairings) != 1 {
		t.Errorf("expected 1 pairing of the remaining players, got %d",
			len(rp.Pairings))
	}
}

// TestPairSwissRequestedByes verifies pre-declared byes are honored at the
// configured point value before pairing begins.
func TestPairSwissRequestedByes(t *testing.T) {
	cases := []struct {
		name     string
		byeType  ByeType
		wantKind ByeKind
		wantPts  float64
	}{
		{name: "half point default", byeType: ByeHalf, wantKind: ByeHalfPoint, wantPts: 0.5},
		{name: "full point configured", byeType: ByeFull, wantKind: ByeFullPoint, wantPts: 1.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			players := swissPlayers()[:4]
			players[2].PendingByeRounds = []int{1}
			players[3].ByeRequests = "rnds 1&3"
			sec := newTestSection(t, "Open",
				TournamentConfig{Format: FormatSwiss, ByeType: c.byeType},
				players, nil, nil)

			rp, err := PairSwissSection(sec, 1)
			if err != nil {
				t.Fatalf("%s: PairSwissSection returned error: %v", c.name, err)
			}
			if len(rp.Byes) != 2 {
				t.Fatalf("%s: expected 2 requested byes, got %d", c.name, len(rp.Byes))
			}
			for _, b := range rp.Byes {
				if b.Kind != c.wantKind || b.Points != c.wantPts {
					t.Errorf("%s: bye = %+v; want kind %v points %v",
						c.name, b, c.wantKind, c.wantPts)
				}
			}
			if len(rp.Pairings) != 1 {
				t.Errorf("%s: expected 1 pairing of the remaining players, got %d",
					c.name, len(rp.Pairings))
			}
		})
	}
}

// TestPairSwissForcedRepeat verifies that when no legal opponent exists the
// matcher pairs anyway and flags the repeat for director review.
func TestPairSwissForcedRepeat(t *testing.T) {
	results := []GameResult{
		{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 2, OpponentID: 1, Color: Black, PointsEarned: 0.0},
	}
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		swissPlayers()[:2], nil, results)

	rp, err := PairSwissSection(sec, 2)
	if err != nil {
		t.Fatalf("PairSwissSection returned error: %v", err)
	}
	if len(rp.Pairings) != 1 {
		t.Fatalf("expected 1 forced pairing, got %d", len(rp.Pairings))
	}
	if len(rp.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(rp.Warnings))
	}
	w := rp.Warnings[0]
	if w.Section != "Open" || w.Round != 2 {
		t.Errorf("warning = %+v; want section Open round 2", w)
	}
	// the warning reports the colors actually assigned: player 1 had
	// white in round 1, so the forced rematch gives white to player 2
	p := rp.Pairings[0]
	if w.WhiteID != p.WhiteID || w.BlackID != p.BlackID {
		t.Errorf("warning colors %d/%d disagree with pairing %d/%d",
			w.WhiteID, w.BlackID, p.WhiteID, p.BlackID)
	}
	if p.WhiteID != 2 || p.BlackID != 1 {
		t.Errorf("forced pairing = %d vs %d; want 2 (white) vs 1", p.WhiteID, p.BlackID)
	}
}

// TestPairSwissErrors verifies the format and empty-section error paths.
func TestPairSwissErrors(t *testing.T) {
	sec := newTestSection(t, "Open", TournamentConfig{Format: FormatQuad},
		swissPlayers(), nil, nil)
	_, err := PairSwissSection(sec, 1)
	var fmtErr *FormatMismatchError
	if !errors.As(err, &fmtErr) {
		t.Errorf("expected FormatMismatchError, got %v", err)
	}

	inactive := swissPlayers()
	for i := range inactive {
		inactive[i].Active = false
	}
	sec = newTestSection(t, "Open", TournamentConfig{Format: FormatSwiss},
		inactive, nil, nil)
	_, err = PairSwissSection(sec, 1)
	var emptyErr *EmptySectionError
	if !errors.As(err, &emptyErr) {
		t.Errorf("expected EmptySectionError, got %v", err)
	}
}

// TestAssignColorsImbalanceWarning verifies a denial that pushes a player
// past a two-game color imbalance is surfaced.
func TestAssignColorsImbalanceWarning(t *testing.T) {
	// both players have had two whites and are due black; one denial is
	// unavoidable and leaves the loser at +3
	results := []GameResult{
		{Round: 1, PlayerID: 1, OpponentID: 3, Color: White, PointsEarned: 1.0},
		{Round: 2, PlayerID: 1, OpponentID: 4, Color: White, PointsEarned: 1.0},
		{Round: 1, PlayerID: 2, OpponentID: 4, Color: White, PointsEarned: 1.0},
		{Round: 2, PlayerID: 2, OpponentID: 3, Color: White, PointsEarned: 1.0},
	}
	idx, err := BuildHistoryIndex("Open", results)
	if err != nil {
		t.Fatalf("BuildHistoryIndex returned error: %v", err)
	}

	out := &RoundPairings{Round: 3}
	a := Player{ID: 1, Rating: 1800}
	b := Player{ID: 2, Rating: 1700}
	white, black := assignColors(a, b, idx, out, "Open", 3)
	if white.ID == black.ID {
		t.Fatalf("assignColors returned the same player twice")
	}
	// equal imbalance: the higher rated player gets the due color
	if black.ID != 1 {
		t.Errorf("black = %d; want higher-rated player 1 to receive due color", black.ID)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("expected imbalance warning, got %d warnings", len(out.Warnings))
	}
}
