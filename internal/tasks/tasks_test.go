package tasks

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{
			name: "rows in order",
			input: "platform,asset,ratio,date,copy\n" +
				"instagram,teaser,4:5,2025-04-01,Coming soon\n" +
				"tiktok,cutdown,9:16,2025-04-02,\"Launch, day one\"\n",
			want: []string{
				"- [ ] instagram teaser (4:5) on 2025-04-01: Coming soon",
				"- [ ] tiktok cutdown (9:16) on 2025-04-02: Launch, day one",
			},
		},
		{
			name:  "header only",
			input: "platform,asset,ratio,date,copy\n",
			want:  nil,
		},
		{
			name: "reordered and extra columns",
			input: "Copy,Date,owner,Ratio,Asset,Platform\n" +
				"Hello,2025-01-01,kim,1:1,still,linkedin\n",
			want: []string{"- [ ] linkedin still (1:1) on 2025-01-01: Hello"},
		},
		{
			name:  "short row",
			input: "platform,asset,ratio,date,copy\nx,y\n",
			want:  []string{"- [ ] x y () on : "},
		},
		{
			name:  "byte order mark",
			input: "\ufeffplatform,asset,ratio,date,copy\na,b,c,d,e\n",
			want:  []string{"- [ ] a b (c) on d: e"},
		},
		{
			name:    "missing column",
			input:   "platform,asset,date,copy\na,b,c,d\n",
			wantErr: `missing column "ratio"`,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: "missing column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				if !errors.Is(err, ErrMissingColumn) {
					t.Errorf("Parse() error = %v, want ErrMissingColumn", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() = %d tasks, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].String() != tt.want[i] {
					t.Errorf("task %d = %q, want %q", i, got[i].String(), tt.want[i])
				}
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "SocialPlan.csv")
	if err := os.WriteFile(path, []byte("platform,asset\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ParseFile(path)
	if err == nil {
		t.Fatal("ParseFile() expected error")
	}
	if !strings.HasPrefix(err.Error(), path+": ") {
		t.Errorf("error %q should start with the file path", err)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Render(&buf, []Task{
		{Platform: "a", Asset: "b", Ratio: "c", Date: "d", Copy: "e"},
		{Platform: "f", Asset: "g", Ratio: "h", Date: "i", Copy: "j"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "- [ ] a b (c) on d: e\n- [ ] f g (h) on i: j\n"
	if buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}
}
