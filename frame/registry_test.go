package frame

import (
	"strings"
	"testing"
)

func TestRegistry_Add(t *testing.T) {
	r := NewRegistry()

	if name := r.Add(New("STI"), false); name != "STI" {
		t.Errorf("name = %s, want STI", name)
	}

	second := New("STI")
	name := r.Add(second, false)
	if !strings.HasPrefix(name, "STI_") || len(name) != len("STI_")+8 {
		t.Errorf("collision name = %s", name)
	}
	if second.Name != name {
		t.Errorf("frame name not updated: %s", second.Name)
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}

	unnamed := New("")
	if name := r.Add(unnamed, false); len(name) != 8 {
		t.Errorf("generated name = %q", name)
	}
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()
	first := New("STI")
	r.Add(first, false)
	replacement := New("STI")
	if name := r.Add(replacement, true); name != "STI" {
		t.Errorf("name = %s", name)
	}
	got, _ := r.Get("STI")
	if got != replacement {
		t.Error("replace did not store the new frame")
	}
	if r.Len() != 1 || len(r.Names()) != 1 {
		t.Errorf("replace duplicated the entry: %v", r.Names())
	}
}

func TestRegistry_UniqueNames(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 50; i++ {
		r.Add(New("same"), false)
		r.Add(New(""), false)
	}
	seen := make(map[string]bool)
	for _, name := range r.Names() {
		if seen[name] {
			t.Fatalf("duplicate name %s", name)
		}
		seen[name] = true
		df, ok := r.Get(name)
		if !ok || df.Name != name {
			t.Errorf("entry %s holds frame named %s", name, df.Name)
		}
	}
	if len(seen) != 100 {
		t.Errorf("expected 100 frames, got %d", len(seen))
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry()
	df := New("STI")
	r.Add(df, false)
	if name, ok := r.NameOf(df); !ok || name != "STI" {
		t.Errorf("NameOf = %s, %v", name, ok)
	}
	if !r.Delete("STI") {
		t.Fatal("delete reported missing frame")
	}
	if r.Delete("STI") {
		t.Error("second delete reported success")
	}
	if r.Has("STI") || len(r.Names()) != 0 {
		t.Error("frame still registered")
	}
}
