package profile

import (
	"context"
	"strings"
	"testing"
)

func TestStaticSourceLoad(t *testing.T) {
	s := NewStaticSource()
	p, err := s.Load(context.Background(), "custom_user")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.UserID != "custom_user" {
		t.Fatalf("requested user id should override the sample: %q", p.UserID)
	}
	if len(p.Goals) == 0 || len(p.Expertise) == 0 {
		t.Fatalf("sample persona should be fully populated: %+v", p)
	}
}

func TestDefaultPersona(t *testing.T) {
	p := DefaultPersona("Go")
	g, ok := p.PrimaryGoal()
	if !ok {
		t.Fatalf("default persona should carry a goal")
	}
	if !strings.Contains(g.Specific, "Go") {
		t.Fatalf("goal should reference the topic: %q", g.Specific)
	}

	empty := DefaultPersona("")
	g, _ = empty.PrimaryGoal()
	if !strings.Contains(g.Specific, "general learning") {
		t.Fatalf("empty topic should default to general learning: %q", g.Specific)
	}
}
