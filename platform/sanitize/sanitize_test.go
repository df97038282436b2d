package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  Jane   Doe ", want: "Jane Doe"},
		{in: "<b>VP</b> of Sales", want: "VP of Sales"},
		{in: "&lt;script&gt;alert(1)&lt;/script&gt;Acme", want: "alert(1)Acme"},
		{in: "line\nbreak", want: "line break"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Fatalf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextPtrDropsEmpty(t *testing.T) {
	blank := "  <br/> "
	if TextPtr(&blank) != nil {
		t.Fatal("expected nil for blank input")
	}
	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
