package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "in.svg")
	test.Error(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestConvertFormat(t *testing.T) {
	for _, tt := range []struct {
		format, output, want string
	}{
		{"", "out.PDF", "pdf"},
		{"", "out.png", "png"},
		{"", "", "png"},
		{"pdf", "out.png", "pdf"},
	} {
		cmd := Convert{Format: tt.format, Output: tt.output}
		format, err := cmd.format()
		test.Error(t, err)
		test.String(t, format, tt.want)
	}
	_, err := (&Convert{Format: "svg"}).format()
	test.That(t, err != nil)
}

func TestConvertRun(t *testing.T) {
	input := writeInput(t, `<svg width="4" height="4"><rect width="2" height="2" fill="red"/></svg>`)
	dir := t.TempDir()

	for _, ext := range []string{"png", "pdf"} {
		output := filepath.Join(dir, "out."+ext)
		test.Error(t, (&Convert{Input: input, Output: output, PPI: 160}).Run())
		b, err := os.ReadFile(output)
		test.Error(t, err)
		test.That(t, len(b) > 0)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "out.pdf"))
	test.That(t, bytes.HasPrefix(b, []byte("%PDF-")))

	output := filepath.Join(dir, "alt.pdf")
	test.Error(t, (&Convert{Input: input, Output: output, PPI: 160, Backend: "contentstream"}).Run())
	b, err := os.ReadFile(output)
	test.Error(t, err)
	test.That(t, bytes.HasPrefix(b, []byte("%PDF-")))

	err = (&Convert{Input: input, Output: filepath.Join(dir, "bad.pdf"), Backend: "cairo"}).Run()
	test.That(t, err != nil)
}

func TestConvertRunFailure(t *testing.T) {
	input := writeInput(t, `<svg width="4" height="4"><foo/></svg>`)
	output := filepath.Join(t.TempDir(), "out.png")

	err := (&Convert{Input: input, Output: output, PPI: 160, Strict: true}).Run()
	test.That(t, err != nil)
	_, err = os.Stat(output)
	test.That(t, os.IsNotExist(err), "no output is written on failure")

	err = (&Convert{Input: writeInput(t, "not xml"), Output: output, PPI: 160}).Run()
	test.That(t, err != nil)
	_, err = os.Stat(output)
	test.That(t, os.IsNotExist(err))
}
