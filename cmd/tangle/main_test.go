package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/tangle/errors"
)

const sampleDoc = `
hello: world
foo:
  bar: foobar
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestRun_BindsDocument(t *testing.T) {
	var out bytes.Buffer
	opts := options{file: writeDoc(t, sampleDoc), rootName: "example.com"}

	if err := run(opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"example.com/foo/bar",
		"example.com/hello",
		`"world"`,
		`"foobar"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "create"); n != 4 {
		t.Errorf("saw %d create events, want 4:\n%s", n, got)
	}
}

func TestRun_AppliesSets(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		file:     writeDoc(t, sampleDoc),
		rootName: "example.com",
		sets:     []string{"hello=global", "foo={x: 1}"},
	}

	if err := run(opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "update") || !strings.Contains(got, `"global"`) {
		t.Errorf("expected hello update:\n%s", got)
	}
	if !strings.Contains(got, "delete") {
		t.Errorf("expected foo/bar delete:\n%s", got)
	}
	if !strings.Contains(got, "example.com/foo/x") {
		t.Errorf("expected foo/x create:\n%s", got)
	}
}

func TestRun_Quiet(t *testing.T) {
	var out bytes.Buffer
	opts := options{file: writeDoc(t, sampleDoc), quiet: true}

	if err := run(opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "create") {
		t.Errorf("quiet run printed events:\n%s", got)
	}
	if !strings.HasPrefix(strings.TrimSpace(got), "doc.yaml") {
		t.Errorf("root should default to the file name:\n%s", got)
	}
}

func TestRun_RepeatedValueFails(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		file:  writeDoc(t, sampleDoc),
		sets:  []string{"hello=world"},
		quiet: true,
	}

	err := run(opts, &out)
	if !errors.IsKind(err, errors.KindRepeatedTangle) {
		t.Fatalf("run = %v, want repeated tangle", err)
	}
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := run(options{file: filepath.Join(t.TempDir(), "missing.yaml")}, &out)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Fatalf("run = %v, want load error", err)
	}
}

func TestSessionAssign(t *testing.T) {
	s, err := openSession(options{file: writeDoc(t, sampleDoc)}, nil, 0)
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}

	if err := s.assign("foo/baz", 1); err != nil {
		t.Fatalf("assign foo/baz: %v", err)
	}
	foo, _ := s.root.Lookup("foo")
	if baz, ok := foo.Lookup("baz"); !ok || baz.Value() != 1 {
		t.Fatal("assign should create foo/baz through the mirror")
	}

	tests := []struct {
		name string
		path string
		kind errors.Kind
	}{
		{"missing parent", "missing/deep", errors.KindNotFound},
		{"empty key", "foo/", errors.KindInvalidArgument},
		{"leaf parent", "hello/x", errors.KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.assign(tt.path, 1); !errors.IsKind(err, tt.kind) {
				t.Fatalf("assign(%q) = %v, want %s", tt.path, err, tt.kind)
			}
		})
	}

	if _, ok := s.root.Lookup("missing"); ok {
		t.Fatal("failed assign should not create endpoints")
	}
	if hello, _ := s.root.Lookup("hello"); len(hello.Children()) != 0 {
		t.Fatal("failed assign should not create endpoints under a leaf")
	}
}

func TestRun_MissingPathCreatesNothing(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		file:  writeDoc(t, sampleDoc),
		sets:  []string{"missing/deep=1"},
		quiet: true,
	}
	if err := run(opts, &out); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("run = %v, want not found", err)
	}
}
