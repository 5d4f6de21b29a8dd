// Package remote uploads project documents to S3-compatible storage
// (AWS S3, MinIO, R2).
//
// Objects are stored under <prefix>/<project id>/<relative path>. Only
// metadata and document files are uploaded; media stays local.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/raphi011/folio/internal/log"
)

// Config holds explicit construction parameters. Credentials come from the
// default AWS chain (env, shared config, instance role).
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; custom endpoint (e.g. MinIO)
	Prefix    string
	PathStyle bool
}

// DocumentExts are the file extensions uploaded by Push.
var DocumentExts = []string{".json", ".md", ".csv", ".yaml", ".yml", ".txt"}

var contentTypes = map[string]string{
	".json": "application/json",
	".md":   "text/markdown; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".txt":  "text/plain; charset=utf-8",
}

// Syncer uploads project files to a single bucket.
type Syncer struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates a Syncer from cfg.
func New(ctx context.Context, cfg Config) (*Syncer, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// S3-compatible stores often reject the default trailing checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *s3.Client, bucket, prefix string) *Syncer {
	return &Syncer{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object key for rel inside project id.
func (s *Syncer) Key(id, rel string) string {
	return path.Join(s.prefix, id, filepath.ToSlash(rel))
}

// Result reports what Push uploaded.
type Result struct {
	Keys  []string `json:"keys"`
	Bytes int64    `json:"bytes"`
}

// Push uploads every document file under root to <prefix>/<id>/.
// Dotfiles and non-document files are skipped. Existing objects are
// overwritten. Stops at the first failed upload.
func (s *Syncer) Push(ctx context.Context, root, id string) (Result, error) {
	var res Result
	files, err := documentFiles(root)
	if err != nil {
		return res, err
	}

	l := log.FromContext(ctx)
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		key := s.Key(id, rel)
		n, err := s.put(ctx, filepath.Join(root, rel), key)
		if err != nil {
			return res, fmt.Errorf("upload %s: %w", key, err)
		}
		l.Debug("uploaded", "key", key, "bytes", n)
		res.Keys = append(res.Keys, key)
		res.Bytes += n
	}
	return res, nil
}

func (s *Syncer) put(ctx context.Context, file, key string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	}
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(file))]; ok {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// List returns the keys stored for project id, sorted.
func (s *Syncer) List(ctx context.Context, id string) ([]string, error) {
	prefix := s.Key(id, "") + "/"
	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// documentFiles returns root-relative paths of uploadable files, sorted.
func documentFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(DocumentExts, strings.ToLower(filepath.Ext(name))) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
