package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObject struct {
	body        []byte
	contentType string
}

// fakeS3 is an in-memory S3 transport handling PUT and ListObjectsV2.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	deny    string // PUTs for keys with this suffix get 403
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// path-style: /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch {
	case req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2":
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size></Contents>", k, len(f.objects[k].body))
		}
		b.WriteString("</ListBucketResult>")
		return response(http.StatusOK, b.String(), "application/xml"), nil

	case req.Method == http.MethodPut:
		if f.deny != "" && strings.HasSuffix(key, f.deny) {
			return response(http.StatusForbidden,
				`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`,
				"application/xml"), nil
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeChunked(body)
		}
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
		return response(http.StatusOK, "", ""), nil
	}
	return response(http.StatusNotImplemented, "", ""), nil
}

func response(status int, body, contentType string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// decodeChunked strips aws-chunked framing: <hex>[;ext]\r\n<data>\r\n ... 0\r\n<trailers>
func decodeChunked(b []byte) []byte {
	var out []byte
	for len(b) > 0 {
		line, rest, ok := bytes.Cut(b, []byte("\r\n"))
		if !ok {
			break
		}
		sizeHex, _, _ := strings.Cut(string(line), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil || n == 0 || int64(len(rest)) < n {
			break
		}
		out = append(out, rest[:n]...)
		b = bytes.TrimPrefix(rest[n:], []byte("\r\n"))
	}
	return out
}

func newTestSyncer(t *testing.T, prefix string) (*Syncer, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: make(map[string]fakeObject)}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return NewWithClient(client, "folio-test", prefix), fake
}

func writeProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"metadata.json":           `{"title":"Launch"}`,
		"README.md":               "# Launch\n",
		"docs/brief.md":           "# Brief\n",
		"docs/SocialPlan.csv":     "platform,asset,ratio,date,copy\n",
		"assets/hero.png":         "\x89PNG",
		"assets/raw/.keep":        "",
		".folio/state.json":       "{}",
		"exports/final/notes.txt": "ship it\n",
	}
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestPush(t *testing.T) {
	t.Parallel()

	s, fake := newTestSyncer(t, "/portfolio/")
	root := writeProject(t)

	res, err := s.Push(context.Background(), root, "2024_acme_launch")
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	want := []string{
		"portfolio/2024_acme_launch/README.md",
		"portfolio/2024_acme_launch/docs/SocialPlan.csv",
		"portfolio/2024_acme_launch/docs/brief.md",
		"portfolio/2024_acme_launch/exports/final/notes.txt",
		"portfolio/2024_acme_launch/metadata.json",
	}
	if !slices.Equal(res.Keys, want) {
		t.Errorf("Push() keys = %v, want %v", res.Keys, want)
	}

	obj, ok := fake.objects["portfolio/2024_acme_launch/docs/brief.md"]
	if !ok {
		t.Fatal("brief.md not uploaded")
	}
	if string(obj.body) != "# Brief\n" {
		t.Errorf("brief.md body = %q", obj.body)
	}
	if !strings.HasPrefix(obj.contentType, "text/markdown") {
		t.Errorf("brief.md content type = %q", obj.contentType)
	}
	if ct := fake.objects["portfolio/2024_acme_launch/metadata.json"].contentType; ct != "application/json" {
		t.Errorf("metadata.json content type = %q", ct)
	}

	var total int64
	for _, k := range want {
		total += int64(len(fake.objects[k].body))
	}
	if res.Bytes != total {
		t.Errorf("Push() bytes = %d, want %d", res.Bytes, total)
	}
}

func TestPush_Overwrites(t *testing.T) {
	t.Parallel()

	s, fake := newTestSyncer(t, "")
	root := writeProject(t)
	ctx := context.Background()

	if _, err := s.Push(ctx, root, "p"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("# Changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Push(ctx, root, "p"); err != nil {
		t.Fatal(err)
	}
	if got := string(fake.objects["p/README.md"].body); got != "# Changed\n" {
		t.Errorf("README.md = %q, want updated content", got)
	}
}

func TestPush_UploadError(t *testing.T) {
	t.Parallel()

	s, fake := newTestSyncer(t, "")
	fake.deny = "metadata.json"
	root := writeProject(t)

	res, err := s.Push(context.Background(), root, "p")
	if err == nil {
		t.Fatal("Push() expected error")
	}
	if !strings.Contains(err.Error(), "p/metadata.json") {
		t.Errorf("error %q should name the failed key", err)
	}
	// README.md, docs/*, exports/* sort before metadata.json
	if len(res.Keys) != 4 {
		t.Errorf("uploaded %d keys before failure, want 4", len(res.Keys))
	}
}

func TestPush_CanceledContext(t *testing.T) {
	t.Parallel()

	s, fake := newTestSyncer(t, "")
	root := writeProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Push(ctx, root, "p"); err != context.Canceled {
		t.Errorf("Push() error = %v, want context.Canceled", err)
	}
	if len(fake.objects) != 0 {
		t.Errorf("uploaded %d objects after cancel", len(fake.objects))
	}
}

func TestPush_MissingRoot(t *testing.T) {
	t.Parallel()

	s, _ := newTestSyncer(t, "")
	if _, err := s.Push(context.Background(), filepath.Join(t.TempDir(), "gone"), "p"); err == nil {
		t.Error("Push() expected error for missing root")
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	s, _ := newTestSyncer(t, "pf")
	root := writeProject(t)
	ctx := context.Background()

	if _, err := s.Push(ctx, root, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Push(ctx, root, "ab"); err != nil {
		t.Fatal(err)
	}

	keys, err := s.List(ctx, "a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 5 {
		t.Fatalf("List(a) = %v, want 5 keys", keys)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "pf/a/") {
			t.Errorf("List(a) returned foreign key %q", k)
		}
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		id     string
		rel    string
		want   string
	}{
		{"", "p", "metadata.json", "p/metadata.json"},
		{"portfolio", "p", "docs/brief.md", "portfolio/p/docs/brief.md"},
		{"/a/b/", "p", filepath.Join("x", "y.md"), "a/b/p/x/y.md"},
	}
	for _, tt := range tests {
		s := NewWithClient(nil, "b", tt.prefix)
		if got := s.Key(tt.id, tt.rel); got != tt.want {
			t.Errorf("Key(%q, %q) with prefix %q = %q, want %q", tt.id, tt.rel, tt.prefix, got, tt.want)
		}
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("New() expected error without bucket")
	}
}
