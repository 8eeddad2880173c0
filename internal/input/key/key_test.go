package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
	}{
		{"b", Chord{Key: "b"}},
		{"B", Chord{Mods: ModShift, Key: "b"}},
		{"]", Chord{Key: "]"}},
		{"+", Chord{Key: "+"}},
		{"ctrl+b", Chord{Mods: ModCtrl, Key: "b"}},
		{"Ctrl+B", Chord{Mods: ModCtrl, Key: "b"}},
		{"control+b", Chord{Mods: ModCtrl, Key: "b"}},
		{"ctrl+`", Chord{Mods: ModCtrl, Key: "`"}},
		{"ctrl+shift+]", Chord{Mods: ModCtrl | ModShift, Key: "]"}},
		{"Shift+Ctrl+[", Chord{Mods: ModCtrl | ModShift, Key: "["}},
		{"alt+s", Chord{Mods: ModAlt, Key: "s"}},
		{"option+s", Chord{Mods: ModAlt, Key: "s"}},
		{"cmd+b", Chord{Mods: ModMeta, Key: "b"}},
		{"ctrl++", Chord{Mods: ModCtrl, Key: "+"}},
		{"<C-b>", Chord{Mods: ModCtrl, Key: "b"}},
		{"C-b", Chord{Mods: ModCtrl, Key: "b"}},
		{"<C-S-]>", Chord{Mods: ModCtrl | ModShift, Key: "]"}},
		{"<A-s>", Chord{Mods: ModAlt, Key: "s"}},
		{"<C-->", Chord{Mods: ModCtrl, Key: "-"}},
		{"<CR>", Chord{Key: "enter"}},
		{"Enter", Chord{Key: "enter"}},
		{"Escape", Chord{Key: "esc"}},
		{"ctrl+space", Chord{Mods: ModCtrl, Key: "space"}},
		{"F5", Chord{Key: "f5"}},
		{"ctrl+backtick", Chord{Mods: ModCtrl, Key: "`"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"hyper+b", ErrInvalidSpec},
		{"<X-b>", ErrInvalidSpec},
		{"ctrl+nokey", ErrInvalidSpec},
		{"notakey", ErrInvalidSpec},
	}
	for _, tt := range tests {
		_, err := Parse(tt.spec)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestChordString(t *testing.T) {
	tests := []struct {
		chord Chord
		want  string
	}{
		{Chord{Key: "b"}, "b"},
		{Chord{Mods: ModCtrl, Key: "b"}, "ctrl+b"},
		{Chord{Mods: ModShift | ModCtrl, Key: "]"}, "ctrl+shift+]"},
		{Chord{Mods: ModMeta | ModAlt, Key: "x"}, "alt+meta+x"},
	}
	for _, tt := range tests {
		if got := tt.chord.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !(Chord{}).IsZero() {
		t.Error("zero chord should report IsZero")
	}
}

func TestParseRoundTrip(t *testing.T) {
	specs := []string{"ctrl+b", "ctrl+i", "ctrl+`", "alt+s", "ctrl+shift+]", "ctrl+shift+[", "f12", "enter"}
	for _, spec := range specs {
		c := MustParse(spec)
		if c.String() != spec {
			t.Errorf("MustParse(%q).String() = %q", spec, c.String())
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid spec")
		}
	}()
	MustParse("hyper+q")
}

func TestModifierFromName(t *testing.T) {
	if ModifierFromName(" CTRL ") != ModCtrl {
		t.Error("ModifierFromName should be case-insensitive and trim spaces")
	}
	if ModifierFromName("bogus") != ModNone {
		t.Error("unknown modifier should be ModNone")
	}
	if (ModCtrl | ModAlt).String() != "ctrl+alt" {
		t.Errorf("String() = %q", (ModCtrl | ModAlt).String())
	}
	if ModNone.String() != "" {
		t.Error("ModNone should print empty")
	}
}
