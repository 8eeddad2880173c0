package execctx

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/markstyle/internal/engine"
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
	"github.com/dshills/markstyle/internal/markdown"
)

func TestNew(t *testing.T) {
	eng := engine.New(engine.WithContent("hello"))
	ctx := New(eng)

	if ctx.Editor == nil {
		t.Fatal("Editor should be set")
	}
	if ctx.Count != 1 {
		t.Errorf("Count = %d, want 1", ctx.Count)
	}
	if ctx.Logger == nil || ctx.Data == nil {
		t.Error("Logger and Data should be initialized")
	}
	if ctx.Ctx() == nil {
		t.Error("Ctx() should never be nil")
	}
}

func TestBuilders(t *testing.T) {
	type key struct{}
	c := context.WithValue(context.Background(), key{}, "v")
	coord := markdown.NewCoordinator()

	ctx := New(engine.New()).
		WithContext(c).
		WithCoordinator(coord).
		WithFilePath("/tmp/README.md").
		WithCount(3).
		WithDryRun(true)

	if ctx.Ctx().Value(key{}) != "v" {
		t.Error("WithContext not applied")
	}
	if ctx.Coordinator != coord {
		t.Error("WithCoordinator not applied")
	}
	if ctx.FileType != "markdown" {
		t.Errorf("FileType = %q, want markdown", ctx.FileType)
	}
	if ctx.GetCount() != 3 {
		t.Errorf("GetCount() = %d, want 3", ctx.GetCount())
	}
	if !ctx.DryRun {
		t.Error("DryRun should be true")
	}

	ctx.WithCount(0)
	if ctx.GetCount() != 3 {
		t.Error("WithCount(0) should keep the previous count")
	}
	ctx.Count = -1
	if ctx.GetCount() != 1 {
		t.Error("GetCount should default to 1")
	}
}

func TestFileTypeFor(t *testing.T) {
	tests := map[string]string{
		"a.md":       "markdown",
		"b.MARKDOWN": "markdown",
		"c.txt":      "txt",
		"Makefile":   "",
	}
	for path, want := range tests {
		if got := FileTypeFor(path); got != want {
			t.Errorf("FileTypeFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestData(t *testing.T) {
	ctx := &ExecutionContext{}
	if _, ok := ctx.GetData("x"); ok {
		t.Error("GetData on nil map should miss")
	}
	ctx.SetData("x", "y")
	if ctx.GetDataString("x") != "y" {
		t.Error("SetData/GetDataString round trip failed")
	}

	clone := ctx.Clone()
	clone.SetData("x", "z")
	if ctx.GetDataString("x") != "y" {
		t.Error("Clone shares Data")
	}
}

func TestHasSelection(t *testing.T) {
	eng := engine.New(engine.WithContent("hello world"))
	ctx := New(eng)
	if ctx.HasSelection() {
		t.Error("caret only should not report a selection")
	}
	eng.SetSelections([]engine.Selection{cursor.NewSelection(buffer.Pos(0, 0), buffer.Pos(0, 5))})
	if !ctx.HasSelection() {
		t.Error("range selection should be reported")
	}
	if (&ExecutionContext{}).HasSelection() {
		t.Error("nil editor has no selection")
	}
}

func TestValidate(t *testing.T) {
	if err := (&ExecutionContext{}).Validate(); !errors.Is(err, ErrMissingEditor) {
		t.Errorf("Validate() = %v, want ErrMissingEditor", err)
	}

	ctx := New(engine.New())
	if err := ctx.ValidateForEdit(); !errors.Is(err, ErrMissingCoordinator) {
		t.Errorf("ValidateForEdit() = %v, want ErrMissingCoordinator", err)
	}

	ro := New(engine.New(engine.WithReadOnly())).WithCoordinator(markdown.NewCoordinator())
	if err := ro.ValidateForEdit(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("ValidateForEdit() = %v, want ErrReadOnly", err)
	}
	ro.WithDryRun(true)
	if err := ro.ValidateForEdit(); err != nil {
		t.Errorf("dry run on read-only buffer should validate, got %v", err)
	}
}
