package utils

import (
	"testing"
)

func TestContestantIDIsStable(t *testing.T) {
	a := ContestantID("Ana 1", "Academia Judo", false)
	if a != ContestantID("Ana 1", "Academia Judo", false) {
		t.Fatal("same inputs gave different ids")
	}
	if len(a) != 32 {
		t.Fatalf("id %q has length %d, want 32", a, len(a))
	}
	for _, other := range []string{
		ContestantID("Ana 1", "Academia Judo", true),
		ContestantID("Ana 1", "Clube Atlético", false),
		ContestantID("Ana 2", "Academia Judo", false),
	} {
		if other == a {
			t.Fatalf("distinct inputs share id %q", a)
		}
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("tatame")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("tatame", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("ippon", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateRandomOrganizations(t *testing.T) {
	orgs := GenerateRandomOrganizations(3, 4, NewRandomGen("demo"))
	if len(orgs) != 3 {
		t.Fatalf("got %d organizations, want 3", len(orgs))
	}
	ids := map[string]bool{}
	for _, org := range orgs {
		if len(org.Players) != 4 {
			t.Errorf("%s has %d players, want 4", org.Organization, len(org.Players))
		}
		for _, p := range org.Players {
			if len(p.Category) != 2 {
				t.Errorf("%s has category %v", p.Name, p.Category)
			}
			id := ContestantID(p.Name, org.Organization, p.IsMale)
			if ids[id] {
				t.Errorf("duplicate contestant %s in %s", p.Name, org.Organization)
			}
			ids[id] = true
		}
	}
}
