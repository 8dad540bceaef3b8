package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("a *bold* _move_ [link](x) `code`", MarkdownV1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `a \*bold\* \_move\_ \[link](x) \` + "`code\\`"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("1+1=2. Easy!", MarkdownV2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `1\+1\=2\. Easy\!`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2HyphenIsNotARange(t *testing.T) {
	got, err := EscapeMarkdown("2026-08-29, half: 50/50; <ok>", MarkdownV2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `2026\-08\-29, half: 50/50; <ok>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2Code(t *testing.T) {
	got, err := EscapeMarkdown("x = a[0] + `b`", MarkdownV2, "code")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "x = a[0] + \\`b\\`"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnsupportedVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
