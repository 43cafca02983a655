/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// NormalizeName title-cases each word of a player name, e.g.
// "SMITH, JOHN" scraped from a ratings page becomes "Smith, John".
func NormalizeName(s string) string {
	parts := strings.Fields(s)
	for i, part := range parts {
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// ScoreToString renders a chess score with a half glyph: 2.5 becomes
// "2½", 0.5 becomes "½", and whole scores drop the fraction.
func ScoreToString(score float64) string {
	whole := int(score)
	half := score-float64(whole) >= 0.5
	switch {
	case whole == 0 && half:
		return "½"
	case half:
		return fmt.Sprintf("%d½", whole)
	}
	return fmt.Sprintf("%d", whole)
}
