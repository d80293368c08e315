package core_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/aretw0/notekeep/pkg/core"
)

func TestUUIDGenerator(t *testing.T) {
	g := core.UUIDGenerator{}
	a, b := g.Generate(), g.Generate()

	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a uuid: %q: %v", a, err)
	}
	if a == b {
		t.Errorf("expected distinct ids, got %q twice", a)
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := core.NewSequenceGenerator("id-", "T1", "N1")

	got := []string{g.Generate(), g.Generate(), g.Generate(), g.Generate()}
	want := []string{"T1", "N1", "id-3", "id-4"}
	if !equalIDs(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
