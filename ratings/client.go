/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ratings

import (
	"context"
	"net/http"
	"time"

	"github.com/mikeb26/chesspair/internal"
)

// Client fetches official member data from US Chess. Member profiles
// change rarely, so responses are cached for a day via the S3-backed
// HTTP cache.
type Client struct {
	httpClient *http.Client
}

func NewClient(ctx context.Context) *Client {
	return &Client{
		httpClient: internal.NewCachedHttpClient(ctx, 24*time.Hour),
	}
}
