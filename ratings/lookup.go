/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/chesspair/internal"
	"github.com/mikeb26/chesspair/pairing"
)

// MemID is a US Chess member id.
type MemID int64

// Member holds the official data for one US Chess member.
type Member struct {
	MemberID      MemID
	Name          string
	RegularRating int
	QuickRating   int
	BlitzRating   int
}

// apiMemberResponse represents the JSON response from the member API endpoint
type apiMemberResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Ratings   []struct {
		Rating       int    `json:"rating"`
		RatingSystem string `json:"ratingSystem"`
	} `json:"ratings"`
}

// memberAPIEndpoint is overridable for tests.
var memberAPIEndpoint = "https://ratings-api.uschess.org/api/v1/members/%v"

// FetchMember retrieves member information for the given US Chess member
// ID from the ratings API, falling back to scraping the MSA member page
// when the API is unavailable.
func (client *Client) FetchMember(ctx context.Context, memberID MemID) (*Member, error) {
	member, apiErr := client.fetchMemberViaAPI(ctx, memberID)
	if apiErr == nil {
		return member, nil
	}

	member, msaErr := client.fetchMemberViaMSA(ctx, memberID)
	if msaErr != nil {
		return nil, fmt.Errorf("unable to fetch member %v (api: %v): %w",
			memberID, apiErr, msaErr)
	}
	return member, nil
}

func (client *Client) fetchMemberViaAPI(ctx context.Context,
	memberID MemID) (*Member, error) {

	endpoint := fmt.Sprintf(memberAPIEndpoint, memberID)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating member request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing member HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected member status %d: %s",
			resp.StatusCode, string(body))
	}

	var memberData apiMemberResponse
	if err := json.NewDecoder(resp.Body).Decode(&memberData); err != nil {
		return nil, fmt.Errorf("decoding member JSON: %w", err)
	}

	member := &Member{
		MemberID: memberID,
		Name:     internal.NormalizeName(memberData.FirstName + " " + memberData.LastName),
	}
	for _, rating := range memberData.Ratings {
		if rating.Rating == 0 {
			continue
		}
		switch strings.ToLower(rating.RatingSystem) {
		case "regular", "r":
			member.RegularRating = rating.Rating
		case "quick", "q":
			member.QuickRating = rating.Rating
		case "blitz", "b":
			member.BlitzRating = rating.Rating
		}
	}

	return member, nil
}

// msaEndpoint is overridable for tests.
var msaEndpoint = "https://www.uschess.org/msa/MbrDtlMain.php?%v"

var msaNameRe = regexp.MustCompile(`\d{6,8}:\s*(.+)`)

func (client *Client) fetchMemberViaMSA(ctx context.Context,
	memberID MemID) (*Member, error) {

	url := fmt.Sprintf(msaEndpoint, memberID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating msa request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing msa HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected msa status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing msa page: %w", err)
	}

	member := &Member{MemberID: memberID}
	doc.Find("b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := msaNameRe.FindStringSubmatch(strings.TrimSpace(s.Text())); m != nil {
			member.Name = internal.NormalizeName(m[1])
			return false
		}
		return true
	})
	member.RegularRating = msaRatingFor(doc, "Regular Rating")
	member.QuickRating = msaRatingFor(doc, "Quick Rating")
	member.BlitzRating = msaRatingFor(doc, "Blitz Rating")

	if member.Name == "" && member.RegularRating == 0 {
		return nil, fmt.Errorf("could not retrieve data for member %v", memberID)
	}

	return member, nil
}

var msaDigitsRe = regexp.MustCompile(`\d+`)

// msaRatingFor locates the table row labeled with the given rating
// system and extracts the leading digits of its value cell.
func msaRatingFor(doc *goquery.Document, label string) int {
	rating := 0
	doc.Find("td").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), label) {
			return true
		}
		val := s.Next()
		if val.Length() == 0 {
			return true
		}
		if d := msaDigitsRe.FindString(val.Text()); d != "" {
			if r, err := strconv.Atoi(d); err == nil {
				rating = r
				return false
			}
		}
		return true
	})
	return rating
}

// EnrichRoster augments roster players by fetching official name/rating,
// falling back to registered values on error. Players without a member
// id pass through untouched.
func (client *Client) EnrichRoster(ctx context.Context,
	players []pairing.Player) []pairing.Player {

	var (
		mu       sync.Mutex
		enriched []pairing.Player
	)
	g, ctx := errgroup.WithContext(ctx)

	for _, initP := range players {
		p := initP
		g.Go(func() error {
			if p.MemberID != 0 {
				member, err := client.FetchMember(ctx, MemID(p.MemberID))
				if err == nil {
					// override with official data
					p.DisplayName = member.Name
					p.Rating = member.RegularRating
				}
			}

			mu.Lock()
			enriched = append(enriched, p)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("error enriching roster: %v", err)
	}

	return enriched
}
