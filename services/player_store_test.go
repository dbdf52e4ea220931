package services

import (
	"errors"
	"slices"
	"testing"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

func TestPlayerStoreSetPlayerMovesBetweenCategories(t *testing.T) {
	s := NewPlayerStore()
	players := testPlayers(3, true, cat40)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}

	moved := players[1]
	moved.Category = cat50.Clone()
	got, err := s.SetPlayer(moved)
	if err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
	if brackets.HashCategory(got.Category) != brackets.HashCategory(cat50) {
		t.Errorf("effective category = %v", got.Category)
	}
	if n := len(s.GetStatic(models.Male, cat40)); n != 2 {
		t.Errorf("old bucket has %d players, want 2", n)
	}
	if b := s.GetStatic(models.Male, cat50); len(b) != 1 || b[0].ContestantID != moved.ContestantID {
		t.Errorf("new bucket = %+v", b)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestPlayerStoreSessionEditKeepsBucket(t *testing.T) {
	s := NewPlayerStore()
	players := testPlayers(2, true, cat40)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	id := players[0].ContestantID
	if _, err := s.AttachTags(id, models.Category{{ID: brackets.GroupTagID, Value: "A"}}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}

	grouped := append(cat40.Clone(), models.Tag{ID: brackets.GroupTagID, Value: "A"})
	if got := s.Get(models.Male, grouped); len(got) != 1 || got[0].ContestantID != id {
		t.Fatalf("Get(grouped) = %+v", got)
	}
	if got := s.Get(models.Male, cat40); len(got) != 1 {
		t.Fatalf("Get(static) returned %d players, want 1", len(got))
	}

	edited := players[0]
	edited.Name = "Renamed"
	edited.Category = append(cat40.Clone(), models.Tag{ID: brackets.GroupTagID, Value: "B"})
	got, err := s.SetPlayer(edited)
	if err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
	if tag, _ := got.Category.Get(brackets.GroupTagID); tag.Value != "B" || got.Name != "Renamed" {
		t.Errorf("edited player = %+v", got)
	}
	if n := len(s.GetStatic(models.Male, cat40)); n != 2 {
		t.Errorf("static bucket has %d players, want 2", n)
	}
	if s.StaticTagIDs(models.Male)[0] != "Peso" || len(s.StaticTagIDs(models.Male)) != 2 {
		t.Errorf("static tag ids = %v", s.StaticTagIDs(models.Male))
	}
}

func TestPlayerStoreGenderChangeDropsSessionTags(t *testing.T) {
	s := NewPlayerStore()
	players := testPlayers(1, true, cat40)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if _, err := s.AttachTags(players[0].ContestantID, models.Category{{ID: brackets.GroupTagID, Value: "A"}}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}

	flipped := players[0]
	flipped.IsMale = false
	got, err := s.SetPlayer(flipped)
	if err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
	if got.Category.Has(brackets.GroupTagID) {
		t.Errorf("session tag survived gender change: %v", got.Category)
	}
	if len(s.Players(models.Male)) != 0 || len(s.Players(models.Female)) != 1 {
		t.Errorf("male %d, female %d", len(s.Players(models.Male)), len(s.Players(models.Female)))
	}
}

func TestPlayerStoreRejectsStaticTagAsSessionTag(t *testing.T) {
	s := NewPlayerStore()
	players := testPlayers(1, true, cat40)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	_, err := s.AttachTags(players[0].ContestantID, models.Category{{ID: "Peso", Value: "90kg"}})
	if !errors.Is(err, ErrStaticTagConflict) {
		t.Fatalf("err = %v, want ErrStaticTagConflict", err)
	}
	if _, err := s.AttachTags("nobody", models.Category{{ID: "x", Value: "y"}}); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestPlayerStoreBulkAttachTagsNewestWins(t *testing.T) {
	s := NewPlayerStore()
	players := testPlayers(1, false, cat40)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	id := players[0]
	out, err := s.BulkAttachTags(
		[]models.Player{id, id},
		[]models.Category{{{ID: "Mesa", Value: "1"}}, {{ID: "Mesa", Value: "2"}}},
	)
	if err != nil {
		t.Fatalf("BulkAttachTags: %v", err)
	}
	if tag, _ := out[1].Category.Get("Mesa"); tag.Value != "2" {
		t.Fatalf("Mesa = %q, want 2", tag.Value)
	}

	if _, err := s.BulkAttachTags([]models.Player{id}, nil); !errors.Is(err, ErrTagCountMismatch) {
		t.Fatalf("err = %v, want ErrTagCountMismatch", err)
	}

	s.ClearSessionTags()
	p, _ := s.ByContestantID(id.ContestantID)
	if p.Category.Has("Mesa") {
		t.Fatalf("session tags not cleared: %v", p.Category)
	}
}

func TestPlayerStoreReplacePlayersValidates(t *testing.T) {
	s := NewPlayerStore()
	dup := testPlayers(2, true, cat40)
	dup[1].ContestantID = dup[0].ContestantID
	if err := s.ReplacePlayers(dup); !errors.Is(err, ErrDuplicateContestant) {
		t.Fatalf("err = %v, want ErrDuplicateContestant", err)
	}

	noCategory := testPlayers(1, true, cat40)
	noCategory[0].Category = nil
	if err := s.ReplacePlayers(noCategory); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("err = %v, want ErrInvalidPlayer", err)
	}

	badTags := testPlayers(1, true, models.Category{{ID: "Peso", Value: "1"}, {ID: "Peso", Value: "2"}})
	if err := s.ReplacePlayers(badTags); !errors.Is(err, models.ErrDuplicateTagID) {
		t.Fatalf("err = %v, want ErrDuplicateTagID", err)
	}
	if s.Len() != 0 {
		t.Fatalf("failed replace changed the store: %d players", s.Len())
	}
}

func TestPlayerStoreQueries(t *testing.T) {
	s := NewPlayerStore()
	players := append(testPlayers(3, true, cat40), testPlayers(2, true, cat50)...)
	players = append(players, testPlayers(2, false, cat40)...)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}

	if got := s.Categories(models.Male); len(got) != 2 {
		t.Errorf("male categories = %v", got)
	}
	if got := s.Categories(models.Female); len(got) != 1 {
		t.Errorf("female categories = %v", got)
	}
	if !s.Has(models.Female, cat40) || s.Has(models.Female, cat50) {
		t.Error("Has reports the wrong female categories")
	}
	if got := s.Organizations(models.Male); len(got) != 3 {
		t.Errorf("male organizations = %v", got)
	}
	if len(s.All()) != 7 || len(s.StaticPlayers()) != 7 {
		t.Errorf("All = %d, StaticPlayers = %d", len(s.All()), len(s.StaticPlayers()))
	}
}

func TestPlayerStoreEditOfEffectivePlayerKeepsSessionTagsOut(t *testing.T) {
	s := NewPlayerStore()
	players := append(testPlayers(2, true, cat40), testPlayers(1, false, cat50)...)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	group := models.Category{{ID: brackets.GroupTagID, Value: "B"}}
	if _, err := s.AttachTags(players[0].ContestantID, group); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}

	edited, ok := s.ByContestantID(players[0].ContestantID)
	if !ok || !edited.Category.Has(brackets.GroupTagID) {
		t.Fatalf("effective player = %+v", edited)
	}
	edited.Name = "Renomeado"
	got, err := s.SetPlayer(edited)
	if err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
	if !got.Category.Has(brackets.GroupTagID) {
		t.Errorf("same-gender edit dropped the session tag: %v", got.Category)
	}

	got.IsMale = false
	moved, err := s.SetPlayer(got)
	if err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
	if moved.Category.Has(brackets.GroupTagID) {
		t.Errorf("session tag survived gender change: %v", moved.Category)
	}
	for _, p := range s.StaticPlayers() {
		if p.Category.Has(brackets.GroupTagID) {
			t.Errorf("%s persisted with a session tag: %v", p.Name, p.Category)
		}
	}
	if slices.Contains(s.StaticTagIDs(models.Female), brackets.GroupTagID) {
		t.Fatalf("group tag became a static tag id: %v", s.StaticTagIDs(models.Female))
	}
	if _, err := s.AttachTags(players[2].ContestantID, group); err != nil {
		t.Errorf("AttachTags after the move: %v", err)
	}
}

func TestPlayerStoreRestoreSessions(t *testing.T) {
	s := NewPlayerStore()
	players := testPlayers(2, true, cat40)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if _, err := s.AttachTags(players[0].ContestantID, models.Category{{ID: brackets.GroupTagID, Value: "A"}}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}
	saved := s.Sessions()
	s.ClearSessionTags()
	if _, err := s.AttachTags(players[1].ContestantID, models.Category{{ID: brackets.GroupTagID, Value: "C"}}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}

	s.RestoreSessions(saved)
	first, _ := s.ByContestantID(players[0].ContestantID)
	if tag, ok := first.Category.Get(brackets.GroupTagID); !ok || tag.Value != "A" {
		t.Errorf("first player category = %v", first.Category)
	}
	second, _ := s.ByContestantID(players[1].ContestantID)
	if second.Category.Has(brackets.GroupTagID) {
		t.Errorf("second player kept a tag attached after the snapshot: %v", second.Category)
	}
}
