/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"errors"
	"testing"
)

// TestBuildHistoryIndexRejectsBadRows verifies malformed result rows are
// rejected with a DataIntegrityError.
func TestBuildHistoryIndexRejectsBadRows(t *testing.T) {
	cases := []struct {
		name    string
		results []GameResult
	}{
		{
			name: "round zero",
			results: []GameResult{
				{Round: 0, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 1.0},
			},
		},
		{
			name: "points out of range",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 2.0},
			},
		},
		{
			name: "points not a half multiple",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 0.3},
			},
		},
		{
			name: "game missing color",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: ColorNone, PointsEarned: 1.0},
			},
		},
		{
			name: "duplicate result for one round",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 1.0},
				{Round: 1, PlayerID: 1, OpponentID: 3, Color: Black, PointsEarned: 0.0},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := BuildHistoryIndex("Open", c.results)
			if err == nil {
				t.Fatalf("%s: expected error, got nil", c.name)
			}
			var dataErr *DataIntegrityError
			if !errors.As(err, &dataErr) {
				t.Errorf("%s: expected DataIntegrityError, got %T", c.name, err)
			}
		})
	}
}

// TestHistoryIndexDerivations verifies score, opponent, bye, and color
// derivations from an out-of-order result list.
func TestHistoryIndexDerivations(t *testing.T) {
	results := []GameResult{
		{Round: 3, PlayerID: 1, OpponentID: 3, Color: White, PointsEarned: 0.5},
		{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 1.0},
		{Round: 2, PlayerID: 1, Color: ColorNone, PointsEarned: 1.0},
		{Round: 1, PlayerID: 2, OpponentID: 1, Color: Black, PointsEarned: 0.0},
	}
	idx, err := BuildHistoryIndex("Open", results)
	if err != nil {
		t.Fatalf("BuildHistoryIndex returned error: %v", err)
	}

	if got := idx.Score(1); got != 2.5 {
		t.Errorf("Score(1) = %v; want 2.5", got)
	}
	if !idx.HavePlayed(1, 2) || !idx.HavePlayed(1, 3) {
		t.Errorf("HavePlayed(1, ...) missing recorded opponents")
	}
	if idx.HavePlayed(2, 3) {
		t.Errorf("HavePlayed(2, 3) = true; want false")
	}
	if got := idx.ByeCount(1); got != 1 {
		t.Errorf("ByeCount(1) = %d; want 1", got)
	}
	if got := idx.MaxRound(); got != 3 {
		t.Errorf("MaxRound() = %d; want 3", got)
	}
	// two whites, zero blacks; the bye round contributes no color
	if got := idx.ColorDiff(1); got != 2 {
		t.Errorf("ColorDiff(1) = %d; want 2", got)
	}
	// results arrive out of round order but must be returned sorted
	rs := idx.Results(1)
	for i := 1; i < len(rs); i++ {
		if rs[i].Round < rs[i-1].Round {
			t.Errorf("Results(1) not sorted by round: %v", rs)
		}
	}
}

// TestColorDue verifies the due-color rule including the alternation case.
func TestColorDue(t *testing.T) {
	cases := []struct {
		name    string
		results []GameResult
		want    Color
	}{
		{
			name: "more whites due black",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 1.0},
			},
			want: Black,
		},
		{
			name: "more blacks due white",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: Black, PointsEarned: 0.0},
			},
			want: White,
		},
		{
			name: "balanced alternates from last",
			results: []GameResult{
				{Round: 1, PlayerID: 1, OpponentID: 2, Color: White, PointsEarned: 1.0},
				{Round: 2, PlayerID: 1, OpponentID: 3, Color: Black, PointsEarned: 1.0},
			},
			want: White,
		},
		{
			name:    "no history no preference",
			results: nil,
			want:    ColorNone,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			idx, err := BuildHistoryIndex("Open", c.results)
			if err != nil {
				t.Fatalf("BuildHistoryIndex returned error: %v", err)
			}
			if got := idx.ColorDue(1); got != c.want {
				t.Errorf("%s: ColorDue(1) = %v; want %v", c.name, got, c.want)
			}
		})
	}
}

// TestByeRequestedForRound verifies parsing of free-form bye request text.
func TestByeRequestedForRound(t *testing.T) {
	cases := []struct {
		req   string
		round int
		want  bool
	}{
		{"", 1, false},
		{"1", 1, true},
		{"1", 2, false},
		{"round 2", 2, true},
		{"rounds 1,5", 5, true},
		{"rounds 1,5", 2, false},
		{"rnds 1&4", 4, true},
		{"Rnd 3", 3, true},
		{"no byes please", 1, false},
	}
	for _, c := range cases {
		if got := byeRequestedForRound(c.req, c.round); got != c.want {
			t.Errorf("byeRequestedForRound(%q, %d) = %v; want %v",
				c.req, c.round, got, c.want)
		}
	}
}
