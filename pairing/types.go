/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/chesspair/internal"
)

// PlayerID identifies a player within one tournament snapshot.
type PlayerID int64

type Color int

const (
	White Color = iota
	Black
	// ColorNone marks byes and unplayed games
	ColorNone
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Color unmarshal: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	case "":
		*c = ColorNone
	default:
		return fmt.Errorf("Color unmarshal: unknown color %q", s)
	}
	return nil
}

// Format selects which pairing engine a section runs under. The set is
// closed; the orchestrator refuses to route a section to a foreign engine.
type Format int

const (
	FormatSwiss Format = iota
	FormatQuad
	FormatTeamSwiss
)

func (f Format) String() string {
	switch f {
	case FormatSwiss:
		return "swiss"
	case FormatQuad:
		return "quad"
	case FormatTeamSwiss:
		return "team-swiss"
	}
	return "?"
}

func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Format unmarshal: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "swiss", "":
		*f = FormatSwiss
	case "quad", "quads":
		*f = FormatQuad
	case "team-swiss", "team", "teamswiss":
		*f = FormatTeamSwiss
	default:
		return fmt.Errorf("Format unmarshal: unknown format %q", s)
	}
	return nil
}

// ByeType configures the point value awarded for pre-declared byes.
type ByeType int

const (
	ByeHalf ByeType = iota
	ByeFull
)

func (bt ByeType) Points() float64 {
	if bt == ByeFull {
		return 1.0
	}
	return 0.5
}

func (bt ByeType) String() string {
	if bt == ByeFull {
		return "full"
	}
	return "half"
}

func (bt ByeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(bt.String())
}

func (bt *ByeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("ByeType unmarshal: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "half", "half-point", "":
		*bt = ByeHalf
	case "full", "full-point":
		*bt = ByeFull
	default:
		return fmt.Errorf("ByeType unmarshal: unknown bye type %q", s)
	}
	return nil
}

// Player represents one roster entry in a section. Players are immutable
// within a single pairing computation; score and history are recomputed
// from Results on every call.
type Player struct {
	ID          PlayerID `json:"id"`
	DisplayName string   `json:"displayName"`
	// MemberID is the player's US Chess member id, when known; used only
	// for roster enrichment, never by the pairing engines.
	MemberID int64   `json:"memberId,omitempty"`
	Rating   int     `json:"rating"`
	Section  string  `json:"section"`
	Active   bool    `json:"active"`
	Score    float64 `json:"score"`
	TeamID   string  `json:"teamId,omitempty"`

	// PendingByeRounds lists rounds for which the player pre-declared a bye.
	PendingByeRounds []int `json:"pendingByeRounds,omitempty"`
	// ByeRequests optionally carries the free-form registration text,
	// e.g. "rounds 1,5" or "rnds 1&4"; parsed in addition to
	// PendingByeRounds.
	ByeRequests string `json:"byeRequests,omitempty"`
}

func (p *Player) byeRequestedFor(round int) bool {
	for _, r := range p.PendingByeRounds {
		if r == round {
			return true
		}
	}
	return byeRequestedForRound(p.ByeRequests, round)
}

// GameResult is one historical result row for a section: a game, or a bye
// when OpponentID is zero.
type GameResult struct {
	Round        int      `json:"round"`
	PlayerID     PlayerID `json:"playerId"`
	OpponentID   PlayerID `json:"opponentId,omitempty"`
	Color        Color    `json:"color"`
	PointsEarned float64  `json:"pointsEarned"`
}

// TournamentConfig carries the per-tournament knobs the engines honor.
type TournamentConfig struct {
	Format        Format              `json:"format"`
	TiebreakOrder []TiebreakCriterion `json:"tiebreakOrder,omitempty"`
	ByeType       ByeType             `json:"byeType"`
	RoundsTotal   int                 `json:"roundsTotal"`
}

// Team groups players for team-swiss sections. Board order is always the
// roster sorted descending by rating.
type Team struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Section string     `json:"section"`
	Players []PlayerID `json:"players"`
}

// Snapshot is the full immutable input for one pairing or standings
// request: roster, result history, and configuration. It is what the
// excluded storage layer hands the engine, and what s3store persists.
type Snapshot struct {
	EventID   int64            `json:"eventId"`
	Title     string           `json:"title"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Config    TournamentConfig `json:"config"`
	Players   []Player         `json:"players"`
	Teams     []Team           `json:"teams,omitempty"`
	Results   []GameResult     `json:"results,omitempty"`
}

// Custom unmarshaller for Snapshot to handle flexible date parsing.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type Alias Snapshot
	aux := &struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Snapshot unmarshal: %w", err)
	}
	var err error
	s.StartDate, err = internal.ParseDateOrZero(aux.StartDate)
	if err != nil {
		return fmt.Errorf("parsing Snapshot.StartDate: %w", err)
	}
	s.EndDate, err = internal.ParseDateOrZero(aux.EndDate)
	if err != nil {
		return fmt.Errorf("parsing Snapshot.EndDate: %w", err)
	}
	return nil
}

// Pairing represents a single board pairing. Board numbers are
// section-local and always start at 1; byes are reported separately as
// ByeRecord, never as a Pairing.
type Pairing struct {
	Section     string   `json:"section"`
	RoundNumber int      `json:"roundNumber"`
	BoardNumber int      `json:"boardNumber"`
	WhiteID     PlayerID `json:"whiteId"`
	BlackID     PlayerID `json:"blackId"`
	// GroupID carries the quad or team-match identifier when applicable.
	GroupID string `json:"groupId,omitempty"`
}

// ByeKind distinguishes how a bye came about.
type ByeKind int

const (
	// ByeHalfPoint is a pre-declared (requested) bye.
	ByeHalfPoint ByeKind = iota
	// ByeFullPoint is a pre-declared bye configured to score a full point.
	ByeFullPoint
	// ByeAllocated is assigned by the engine when a player cannot be
	// paired (odd section, or no legal opponent).
	ByeAllocated
)

func (bk ByeKind) String() string {
	switch bk {
	case ByeHalfPoint:
		return "half-point-bye"
	case ByeFullPoint:
		return "full-point-bye"
	case ByeAllocated:
		return "pairing-allocated-bye"
	}
	return "?"
}

// ByeRecord documents one unpaired player for one round, with an explicit
// point value rather than an assumed default.
type ByeRecord struct {
	PlayerID PlayerID `json:"playerId"`
	Section  string   `json:"section"`
	Round    int      `json:"round"`
	Kind     ByeKind  `json:"kind"`
	Points   float64  `json:"points"`
}

// Quad is a fixed group of up to 4 players playing a complete round robin.
// Membership is determined once from the round-1 roster and is stable for
// the rest of the event.
type Quad struct {
	ID      string     `json:"id"`
	Section string     `json:"section"`
	Players []PlayerID `json:"players"`
}

// TeamPairing is one team-vs-team match: two teams plus one Pairing per
// board, aligned by descending rating on each side.
type TeamPairing struct {
	Section     string    `json:"section"`
	RoundNumber int       `json:"roundNumber"`
	HomeTeamID  string    `json:"homeTeamId"`
	AwayTeamID  string    `json:"awayTeamId"`
	Boards      []Pairing `json:"boards"`
}

// RoundPairings is the complete output of one pairing request: the legal
// pairing set, bye records, quad/team detail where applicable, and any
// non-fatal warnings. Warnings are surfaced, never swallowed.
type RoundPairings struct {
	Round        int                 `json:"round"`
	Pairings     []Pairing           `json:"pairings"`
	Byes         []ByeRecord         `json:"byes,omitempty"`
	Quads        []Quad              `json:"quads,omitempty"`
	TeamPairings []TeamPairing       `json:"teamPairings,omitempty"`
	Warnings     []ConstraintRelaxed `json:"warnings,omitempty"`
}

// Standing is one row of tiebreak-ordered standings. Players tied after
// all configured criteria share a Place number.
type Standing struct {
	Player    Player    `json:"player"`
	Score     float64   `json:"score"`
	Tiebreaks []float64 `json:"tiebreaks"`
	Place     int       `json:"place"`
}
