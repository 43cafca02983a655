/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
)

// DataIntegrityError indicates malformed or contradictory result history.
// It is fatal for the request that supplied the data.
type DataIntegrityError struct {
	Section string
	Detail  string
}

func (e *DataIntegrityError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("data integrity: %s", e.Detail)
	}
	return fmt.Sprintf("data integrity in section %q: %s", e.Section, e.Detail)
}

// EmptySectionError indicates a section with no active players. It is
// fatal for that section only; sibling sections are unaffected.
type EmptySectionError struct {
	Section string
}

func (e *EmptySectionError) Error() string {
	return fmt.Sprintf("section %q has no active players", e.Section)
}

// FormatMismatchError indicates the wrong engine was invoked for a
// section's configured format. This is a caller bug, never a fallback.
type FormatMismatchError struct {
	Section string
	Want    Format
	Got     Format
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("section %q is configured as %v but the %v engine was invoked",
		e.Section, e.Got, e.Want)
}

// ConstraintRelaxed is a non-fatal warning emitted when the engine had to
// force a pairing that violates a soft constraint (a repeat pairing, or an
// imperfect color balance). Directors review these; the engine never
// drops them.
type ConstraintRelaxed struct {
	Section string   `json:"section"`
	Round   int      `json:"round"`
	WhiteID PlayerID `json:"whiteId"`
	BlackID PlayerID `json:"blackId"`
	Reason  string   `json:"reason"`
}

func (w ConstraintRelaxed) String() string {
	return fmt.Sprintf("section %q round %d: forced %d vs %d (%s)",
		w.Section, w.Round, w.WhiteID, w.BlackID, w.Reason)
}
