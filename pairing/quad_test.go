/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"reflect"
	"testing"
)

func quadPlayers(n int) []Player {
	players := make([]Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, Player{
			ID:      PlayerID(i + 1),
			Rating:  2000 - 100*i,
			Section: "Quads",
			Active:  true,
		})
	}
	return players
}

// TestBuildQuadsSnake verifies the rating-snake distribution: rank r goes
// to quad r mod Q.
func TestBuildQuadsSnake(t *testing.T) {
	quads, err := BuildQuads("Quads", quadPlayers(8))
	if err != nil {
		t.Fatalf("BuildQuads returned error: %v", err)
	}
	if len(quads) != 2 {
		t.Fatalf("expected 2 quads, got %d", len(quads))
	}
	wantQ1 := []PlayerID{1, 3, 5, 7}
	wantQ2 := []PlayerID{2, 4, 6, 8}
	if !reflect.DeepEqual(quads[0].Players, wantQ1) {
		t.Errorf("Q1 = %v; want %v", quads[0].Players, wantQ1)
	}
	if !reflect.DeepEqual(quads[1].Players, wantQ2) {
		t.Errorf("Q2 = %v; want %v", quads[1].Players, wantQ2)
	}
}

// TestBuildQuadsStable verifies membership is independent of roster input
// order, so re-running any round reproduces the same quads.
func TestBuildQuadsStable(t *testing.T) {
	players := quadPlayers(7)
	shuffled := []Player{players[3], players[6], players[0], players[5],
		players[1], players[4], players[2]}

	a, err := BuildQuads("Quads", players)
	if err != nil {
		t.Fatalf("BuildQuads returned error: %v", err)
	}
	b, err := BuildQuads("Quads", shuffled)
	if err != nil {
		t.Fatalf("BuildQuads returned error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("quad membership depends on input order:\n%v\n%v", a, b)
	}
}

// TestPairQuadFullSchedule verifies a 4-player quad's 3-round round robin:
// every pair meets exactly once and rounds past the schedule are empty.
func TestPairQuadFullSchedule(t *testing.T) {
	sec := newTestSection(t, "Quads", TournamentConfig{Format: FormatQuad},
		quadPlayers(4), nil, nil)

	met := make(map[[2]PlayerID]int)
	for round := 1; round <= 3; round++ {
		rp, err := PairQuadSection(sec, round)
		if err != nil {
			t.Fatalf("round %d: PairQuadSection returned error: %v", round, err)
		}
		if len(rp.Pairings) != 2 {
			t.Fatalf("round %d: expected 2 pairings, got %d", round, len(rp.Pairings))
		}
		if len(rp.Byes) != 0 {
			t.Errorf("round %d: unexpected byes %v", round, rp.Byes)
		}
		for _, p := range rp.Pairings {
			lo, hi := p.WhiteID, p.BlackID
			if lo > hi {
				lo, hi = hi, lo
			}
			met[[2]PlayerID{lo, hi}]++
			if p.GroupID != "Q1" {
				t.Errorf("round %d: GroupID = %q; want Q1", round, p.GroupID)
			}
		}
	}

	if len(met) != 6 {
		t.Errorf("expected 6 distinct matchups, got %d", len(met))
	}
	for pair, n := range met {
		if n != 1 {
			t.Errorf("pair %v met %d times; want 1", pair, n)
		}
	}

	rp, err := PairQuadSection(sec, 4)
	if err != nil {
		t.Fatalf("round 4: PairQuadSection returned error: %v", err)
	}
	if len(rp.Pairings) != 0 {
		t.Errorf("round 4: expected no pairings past the schedule, got %d",
			len(rp.Pairings))
	}
}

// TestPairQuadThreePlayerByes verifies each member of a 3-player quad sits
// out exactly one round with a full-point bye.
func TestPairQuadThreePlayerByes(t *testing.T) {
	sec := newTestSection(t, "Quads", TournamentConfig{Format: FormatQuad},
		quadPlayers(3), nil, nil)

	byes := make(map[PlayerID]int)
	for round := 1; round <= 3; round++ {
		rp, err := PairQuadSection(sec, round)
		if err != nil {
			t.Fatalf("round %d: PairQuadSection returned error: %v", round, err)
		}
		if len(rp.Pairings) != 1 || len(rp.Byes) != 1 {
			t.Fatalf("round %d: got %d pairings %d byes; want 1 and 1",
				round, len(rp.Pairings), len(rp.Byes))
		}
		b := rp.Byes[0]
		if b.Kind != ByeAllocated || b.Points != 1.0 {
			t.Errorf("round %d: bye = %+v; want allocated full point", round, b)
		}
		byes[b.PlayerID]++
	}
	if len(byes) != 3 {
		t.Errorf("byes spread over %d players; want all 3", len(byes))
	}
}

// TestPairQuadShortQuadByes verifies every quad member without a game in a
// round gets a bye record: a leftover pair past its one-round schedule and
// a singleton quad must never silently vanish.
func TestPairQuadShortQuadByes(t *testing.T) {
	// 5 players split Q1={1,3,5}, Q2={2,4}; Q2's schedule is one round
	sec := newTestSection(t, "Quads", TournamentConfig{Format: FormatQuad},
		quadPlayers(5), nil, nil)

	for round := 1; round <= 3; round++ {
		rp, err := PairQuadSection(sec, round)
		if err != nil {
			t.Fatalf("round %d: PairQuadSection returned error: %v", round, err)
		}
		seen := make(map[PlayerID]int)
		for _, p := range rp.Pairings {
			seen[p.WhiteID]++
			seen[p.BlackID]++
		}
		for _, b := range rp.Byes {
			seen[b.PlayerID]++
			if b.Kind != ByeAllocated || b.Points != 1.0 {
				t.Errorf("round %d: bye = %+v; want allocated full point", round, b)
			}
		}
		if len(seen) != 5 {
			t.Errorf("round %d: %d players accounted for; want all 5", round, len(seen))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("round %d: player %d appears %d times", round, id, n)
			}
		}
	}

	// rounds 2 and 3 have no game for the leftover pair
	rp, err := PairQuadSection(sec, 2)
	if err != nil {
		t.Fatalf("PairQuadSection returned error: %v", err)
	}
	byed := make(map[PlayerID]bool)
	for _, b := range rp.Byes {
		byed[b.PlayerID] = true
	}
	if !byed[2] || !byed[4] {
		t.Errorf("round 2 byes = %v; want both leftover-pair members", rp.Byes)
	}

	single := newTestSection(t, "Quads", TournamentConfig{Format: FormatQuad},
		quadPlayers(1), nil, nil)
	rp, err = PairQuadSection(single, 1)
	if err != nil {
		t.Fatalf("PairQuadSection returned error: %v", err)
	}
	if len(rp.Pairings) != 0 || len(rp.Byes) != 1 {
		t.Errorf("singleton quad: got %d pairings %d byes; want 0 and 1",
			len(rp.Pairings), len(rp.Byes))
	}
}

// TestPairQuadBoardNumbering verifies board numbers run contiguously
// across all quads in a section.
func TestPairQuadBoardNumbering(t *testing.T) {
	sec := newTestSection(t, "Quads", TournamentConfig{Format: FormatQuad},
		quadPlayers(8), nil, nil)

	rp, err := PairQuadSection(sec, 1)
	if err != nil {
		t.Fatalf("PairQuadSection returned error: %v", err)
	}
	if len(rp.Pairings) != 4 {
		t.Fatalf("expected 4 pairings across 2 quads, got %d", len(rp.Pairings))
	}
	for i, p := range rp.Pairings {
		if p.BoardNumber != i+1 {
			t.Errorf("pairing %d has board %d; boards must run 1..4", i, p.BoardNumber)
		}
	}
	if len(rp.Quads) != 2 {
		t.Errorf("expected quad detail for 2 quads, got %d", len(rp.Quads))
	}
}
