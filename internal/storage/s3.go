// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage reads post files from an S3-compatible bucket. It wraps
// the AWS SDK v2 and is configured for path-style access (required by
// CEPH/Hetzner and MinIO).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Bucket serves post files stored under a key prefix. Only objects directly
// below the prefix are treated as posts.
type Bucket struct {
	s3     *s3.Client
	bucket string
	prefix string
}

// New creates a Bucket with path-style addressing. Returns (nil, nil) if
// endpoint, credentials or bucket are empty, so the caller can fall back to
// the posts directory.
func New(endpoint, region, accessKey, secretKey, bucket, prefix string) (*Bucket, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")
	if region == "" {
		region = "us-east-1"
	}

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Bucket{
		s3:     client,
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

// normalizePrefix trims slashes and appends a single trailing one.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// List returns the names of objects directly below the prefix, relative to
// it. Pseudo-directories are skipped.
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	var names []string

	p := s3.NewListObjectsV2Paginator(b.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(b.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s/%s: %w", b.bucket, b.prefix, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), b.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}

// Read downloads a single object. A missing key is reported as
// fs.ErrNotExist.
func (b *Bucket) Read(ctx context.Context, name string) ([]byte, error) {
	key := b.prefix + name

	output, err := b.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3 download %s/%s: %w", b.bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("s3 download %s/%s: %w", b.bucket, key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", b.bucket, key, err)
	}
	return data, nil
}

// isNotFound matches the typed NoSuchKey error as well as the bare error
// codes some S3-compatible servers return instead.
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
