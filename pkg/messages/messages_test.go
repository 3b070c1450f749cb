package messages

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
		want     string
	}{
		{"positional", "error str:{0} 1:{1} 2:{2} 3:{3}", []any{"string", 1, 2, 3}, "error str:string 1:1 2:2 3:3"},
		{"reordered", "{1} before {0}", []any{"a", "b"}, "b before a"},
		{"repeated", "{0}{0}", []any{"x"}, "xx"},
		{"missing argument", "value {2}", []any{"a"}, "value {2}"},
		{"not a number", "{name} stays", nil, "{name} stays"},
		{"unterminated", "open {0", []any{"a"}, "open {0"},
		{"quote", "it''s {0}", []any{"fine"}, "it's fine"},
		{"nil argument", "{0}", []any{nil}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.template, tt.args...); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestNew_Locales(t *testing.T) {
	en, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	if en.Locale() != DefaultLocale {
		t.Errorf("Locale() = %q, want %q", en.Locale(), DefaultLocale)
	}

	if _, err := New("JA"); err != nil {
		t.Errorf("New(JA) error = %v", err)
	}

	if _, err := New("xx"); err == nil {
		t.Error("New(xx) error = nil, want unsupported locale error")
	}

	locales := Locales()
	if strings.Join(locales, ",") != "en,ja" {
		t.Errorf("Locales() = %v, want [en ja]", locales)
	}
}

func TestBundle_Message(t *testing.T) {
	en, _ := New("en")
	ja, _ := New("ja")

	got := en.Message("SentenceLength", "", 130, 120)
	want := "The length of the sentence (130) exceeds the maximum of 120."
	if got != want {
		t.Errorf("en SentenceLength = %q, want %q", got, want)
	}

	if got := ja.Message("SentenceLength", "", 130, 120); !strings.Contains(got, "130") || got == want {
		t.Errorf("ja SentenceLength = %q, want localized text", got)
	}

	// Present only in the English bundle.
	if got := ja.Message("Script", "position", "bad", "1:2"); got != "bad (at 1:2)" {
		t.Errorf("fallback = %q, want %q", got, "bad (at 1:2)")
	}

	if got := en.Message("Unknown", "", "a", 1); got != "a 1" {
		t.Errorf("unknown key = %q, want %q", got, "a 1")
	}
}
