package parser_test

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GFT-POC/Ollama-Chat/internal/parser"
)

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestParseFileTXT(t *testing.T) {
	p := write(t, "a.txt", []byte("hello world\r\nthis is txt\n"))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "hello world\nthis is txt" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileMD(t *testing.T) {
	p := write(t, "a.md", []byte("# Title\n\n\n\nBody here\n\n- list\n"))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "# Title\n\nBody here\n\n- list" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileDOCX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.docx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>First &amp; foremost</w:t></w:r></w:p><w:p><w:r><w:t>Second</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "First & foremost\nSecond" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileRejectsBinary(t *testing.T) {
	p := write(t, "blob.bin", []byte{0xff, 0xfe, 0x00, 0x81})
	if _, err := parser.ParseFile(p); !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestAttachment(t *testing.T) {
	p := write(t, "notes.txt", []byte("line one\n"))
	msg, err := parser.Attachment(p, "  Summarize this.  ")
	if err != nil {
		t.Fatalf("attachment: %v", err)
	}
	if msg != "Contents of notes.txt:\n\nline one\n\nSummarize this." {
		t.Fatalf("unexpected message: %q", msg)
	}

	empty := write(t, "empty.txt", []byte("\n\n"))
	if _, err := parser.Attachment(empty, ""); err == nil {
		t.Fatalf("expected error for empty file")
	}
}
