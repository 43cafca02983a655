/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3store persists tournament snapshots in Amazon S3 and doubles
 * as an httpcache.Cache backing for cached HTTP clients. Snapshots are
 * stored gzipped under a stable per-event key so re-running pairings for
 * the same event is deterministic.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	webCachePrefix = "webcache"
	snapshotPrefix = "snapshots"
)

// Store reads and writes objects in one S3 bucket.
type Store struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client the store uses. By default this is
	// initialized in Init() with the default Config, but callers can
	// optionally override it with their own s3 client if desired.
	Client *s3.Client

	bucketName string
	logErrors  bool
	ctx        context.Context
}

// New returns a Store backed by the named bucket. Callers should invoke
// Init() on the returned Store before use.
func New(ctxIn context.Context, bucketNameIn string, logErrorsIn bool) *Store {
	return &Store{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		logErrors:  logErrorsIn,
	}
}

// Init loads AWS configuration from the default sources (environment
// variables, shared config/credentials files) and verifies the bucket is
// reachable.
func (st *Store) Init() error {
	var err error
	st.Config, err = config.LoadDefaultConfig(st.ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	st.Client = s3.NewFromConfig(st.Config)

	if _, err = st.Client.HeadBucket(st.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(st.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w", st.bucketName, err)
	}
	if _, err = st.Client.ListObjectsV2(st.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(st.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w", st.bucketName, err)
	}

	return nil
}

// PutSnapshot stores v (typically a pairing.Snapshot) gzipped under the
// given snapshot key.
func (st *Store) PutSnapshot(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("s3store.putsnapshot: marshal %v: %w", key, err)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return fmt.Errorf("s3store.putsnapshot: gzip %v: %w", key, err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("s3store.putsnapshot: close gzip %v: %w", key, err)
	}

	_, err = st.Client.PutObject(st.ctx, &s3.PutObjectInput{
		Bucket:          aws.String(st.bucketName),
		Key:             aws.String(snapshotObjectKey(key)),
		Body:            &buf,
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("s3store.putsnapshot: put %v: %w", key, err)
	}
	return nil
}

// GetSnapshot retrieves and decodes the snapshot stored under key into v.
func (st *Store) GetSnapshot(key string, v any) error {
	resp, err := st.Client.GetObject(st.ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucketName),
		Key:    aws.String(snapshotObjectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("s3store.getsnapshot: get %v: %w", key, err)
	}
	defer resp.Body.Close()

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("s3store.getsnapshot: open gzip %v: %w", key, err)
	}
	defer gr.Close()

	if err := json.NewDecoder(gr).Decode(v); err != nil {
		return fmt.Errorf("s3store.getsnapshot: decode %v: %w", key, err)
	}
	return nil
}

func snapshotObjectKey(key string) string {
	return fmt.Sprintf("%v/%v.json.gz", snapshotPrefix, key)
}

// Get implements httpcache.Cache.
func (st *Store) Get(key string) ([]byte, bool) {
	resp, err := st.Client.GetObject(st.ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucketName),
		Key:    aws.String(cacheObjectKey(key)),
	})
	if err != nil {
		if st.logErrors {
			var apiErr smithy.APIError
			// no such key just indicates a cache miss
			if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
				log.Printf("s3store.get: failed to get object %v: %v", key, err)
			}
		}
		return []byte{}, false
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if st.logErrors {
			log.Printf("s3store.get: failed to read object %v: %v", key, err)
		}
	}
	return data, err == nil
}

// Set implements httpcache.Cache.
func (st *Store) Set(key string, data []byte) {
	_, err := st.Client.PutObject(st.ctx, &s3.PutObjectInput{
		Bucket: aws.String(st.bucketName),
		Key:    aws.String(cacheObjectKey(key)),
		Body:   bytes.NewReader(data),
	})
	if err != nil && st.logErrors {
		log.Printf("s3store.set: put failed for %v: %v", key, err)
	}
}

// Delete implements httpcache.Cache.
func (st *Store) Delete(key string) {
	_, err := st.Client.DeleteObject(st.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.bucketName),
		Key:    aws.String(cacheObjectKey(key)),
	})
	if err != nil && st.logErrors {
		log.Printf("s3store.delete: delete failed for %v: %v", key, err)
	}
}

func cacheObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	return fmt.Sprintf("%v/%v", webCachePrefix, hex.EncodeToString(h.Sum(nil)))
}
