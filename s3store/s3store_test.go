/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package s3store

import (
	"testing"
)

// TestSnapshotObjectKey verifies snapshots land under a stable per-event
// key.
func TestSnapshotObjectKey(t *testing.T) {
	if got := snapshotObjectKey("1358"); got != "snapshots/1358.json.gz" {
		t.Errorf("snapshotObjectKey = %q; want snapshots/1358.json.gz", got)
	}
}

// TestCacheObjectKey verifies web cache keys are hashed, prefixed, and
// stable.
func TestCacheObjectKey(t *testing.T) {
	a := cacheObjectKey("https://www.uschess.org/msa/MbrDtlMain.php?12910923")
	b := cacheObjectKey("https://www.uschess.org/msa/MbrDtlMain.php?12910923")
	if a != b {
		t.Errorf("cache key not stable: %q vs %q", a, b)
	}
	if len(a) != len(webCachePrefix)+1+32 {
		t.Errorf("cache key %q is not an md5 hex under %q", a, webCachePrefix)
	}
	if a[:len(webCachePrefix)+1] != webCachePrefix+"/" {
		t.Errorf("cache key %q missing %q prefix", a, webCachePrefix)
	}
	if c := cacheObjectKey("different"); c == a {
		t.Errorf("distinct URLs map to the same cache key")
	}
}
