package services

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

func TestGenerateAllBracketsSplitsIntoGroups(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestService(notifier)
	if err := s.ReplacePlayers(testPlayers(17, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}

	for run := 0; run < 2; run++ {
		if err := s.GenerateAllBrackets(context.Background()); err != nil {
			t.Fatalf("run %d: GenerateAllBrackets: %v", run, err)
		}
		categories := s.BracketCategories(models.Male)
		if len(categories) != 3 {
			t.Fatalf("run %d: %d brackets, want 3", run, len(categories))
		}
		letters := map[string]bool{}
		for _, c := range categories {
			tag, ok := c.Get(brackets.GroupTagID)
			if !ok || letters[tag.Value] {
				t.Fatalf("run %d: bad group tag in %v", run, c)
			}
			letters[tag.Value] = true

			b, err := s.Bracket(models.Male, c)
			if err != nil {
				t.Fatalf("Bracket: %v", err)
			}
			if want := len(brackets.RoundsBySize(len(b.Contestants))); len(b.Rounds) != want {
				t.Errorf("bracket of %d has %d rounds, want %d", len(b.Contestants), len(b.Rounds), want)
			}
			if _, err := s.Winners(models.Male, c); err != nil {
				t.Errorf("winners not initialised for %v: %v", c, err)
			}
		}
	}

	for _, p := range s.Players(models.Male) {
		if !p.Category.Has(brackets.GroupTagID) {
			t.Errorf("player %s has no group tag", p.Name)
		}
	}
	if len(s.BracketCategories(models.Female)) != 0 {
		t.Error("female brackets generated from an all-male roster")
	}
	if !slices.Contains(notifier.events, brackets.EventBracketsGenerated) {
		t.Errorf("events = %v, want %s", notifier.events, brackets.EventBracketsGenerated)
	}
}

func TestGenerateAllBracketsSkipsAbsentPlayers(t *testing.T) {
	s := newTestService(nil)
	players := testPlayers(3, false, cat40)
	players[2].Present = false
	players = append(players, testPlayers(1, false, cat50)...)
	players[3].Present = false
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}

	brs := s.Brackets(models.Female)
	if len(brs) != 1 {
		t.Fatalf("%d brackets, want 1", len(brs))
	}
	if _, ok := brs[0].Contestants[players[2].ContestantID]; ok {
		t.Error("absent player placed in bracket")
	}
	if len(brs[0].Contestants) != 2 {
		t.Errorf("%d contestants, want 2", len(brs[0].Contestants))
	}
}

// fourPlayerFinal builds a 4-player bracket, records its final and returns the
// expected placement of every contestant.
func fourPlayerFinal(t *testing.T, s *TournamentService) map[string]models.Classification {
	t.Helper()
	if err := s.ReplacePlayers(testPlayers(4, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}
	b, err := s.Bracket(models.Male, cat40)
	if err != nil {
		t.Fatalf("Bracket: %v", err)
	}
	m0, m1 := b.Matches[0].Sides, b.Matches[1].Sides
	final := models.Match{RoundIndex: 1, Order: 0, Sides: []models.Side{m0[0], m1[0]}}
	if _, err := s.RecordMatch(models.Male, cat40, final); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	return map[string]models.Classification{
		m0[0].ContestantID: models.FirstPlace,
		m1[0].ContestantID: models.SecondPlace,
		m0[1].ContestantID: models.ThirdPlace,
		m1[1].ContestantID: models.FourthPlace,
	}
}

func championOf(placements map[string]models.Classification) string {
	for id, c := range placements {
		if c == models.FirstPlace {
			return id
		}
	}
	return ""
}

func TestSetChampionDerivesWinnersAndPoints(t *testing.T) {
	s := newTestService(nil)
	placements := fourPlayerFinal(t, s)

	w, err := s.SetChampion(models.Male, cat40, championOf(placements))
	if err != nil {
		t.Fatalf("SetChampion: %v", err)
	}
	for id, want := range placements {
		if got := w.ClassificationOf(id); got != want {
			t.Errorf("%s classified %d, want %d", id, got, want)
		}
		points, err := s.Points(id)
		if err != nil {
			t.Fatalf("Points: %v", err)
		}
		if points != brackets.PointsFor(want) {
			t.Errorf("%s has %d points, want %d", id, points, brackets.PointsFor(want))
		}
	}

	standings := s.Standings()
	if standings[0].Player.ContestantID != championOf(placements) || standings[0].Points != 7 {
		t.Errorf("standings leader = %+v", standings[0])
	}

	if _, err := s.SetChampion(models.Male, cat40, "nobody"); !errors.Is(err, ErrContestantNotInBracket) {
		t.Errorf("err = %v, want ErrContestantNotInBracket", err)
	}
	if _, err := s.SetChampion(models.Male, cat50, championOf(placements)); !errors.Is(err, ErrBracketNotFound) {
		t.Errorf("err = %v, want ErrBracketNotFound", err)
	}
	if _, err := s.Points("nobody"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestRecordMatchRederivesWinners(t *testing.T) {
	s := newTestService(nil)
	if err := s.ReplacePlayers(testPlayers(4, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}
	b, _ := s.Bracket(models.Male, cat40)
	champion := b.Matches[0].Sides[0].ContestantID
	runnerUp := b.Matches[1].Sides[0].ContestantID

	if _, err := s.SetChampion(models.Male, cat40, champion); err != nil {
		t.Fatalf("SetChampion: %v", err)
	}
	final := models.Match{RoundIndex: 1, Order: 0, Sides: []models.Side{{ContestantID: champion}, {ContestantID: runnerUp}}}
	if _, err := s.RecordMatch(models.Male, cat40, final); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	w, _ := s.Winners(models.Male, cat40)
	if w.ClassificationOf(runnerUp) != models.SecondPlace {
		t.Fatalf("runner-up classified %d after the final was recorded", w.ClassificationOf(runnerUp))
	}

	// Replacing the final keeps a single match at 1:0.
	if _, err := s.RecordMatch(models.Male, cat40, final); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	b, _ = s.Bracket(models.Male, cat40)
	if len(b.Matches) != 3 {
		t.Fatalf("%d matches, want 3", len(b.Matches))
	}
}

func TestRecordMatchValidation(t *testing.T) {
	s := newTestService(nil)
	if err := s.ReplacePlayers(testPlayers(4, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}
	b, _ := s.Bracket(models.Male, cat40)
	id := b.Matches[0].Sides[0].ContestantID

	tests := []struct {
		name  string
		match models.Match
		want  error
	}{
		{"first round", models.Match{RoundIndex: 0, Order: 0}, ErrInvalidMatch},
		{"past the final", models.Match{RoundIndex: 2, Order: 0}, ErrInvalidMatch},
		{"order out of range", models.Match{RoundIndex: 1, Order: 1}, ErrInvalidMatch},
		{"three sides", models.Match{RoundIndex: 1, Sides: []models.Side{{ContestantID: id}, {}, {}}}, ErrInvalidMatch},
		{"stranger", models.Match{RoundIndex: 1, Sides: []models.Side{{ContestantID: "nobody"}}}, ErrContestantNotInBracket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.RecordMatch(models.Male, cat40, tt.match); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMarkBracketStatus(t *testing.T) {
	s := newTestService(nil)
	if err := s.ReplacePlayers(testPlayers(2, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.MarkBracketStatus(models.Male, cat40, models.StatusPrinted); err != nil {
			t.Fatalf("MarkBracketStatus: %v", err)
		}
	}
	b, _ := s.Bracket(models.Male, cat40)
	if len(b.Status) != 1 || !b.HasStatus(models.StatusPrinted) {
		t.Fatalf("status = %v", b.Status)
	}
	if err := s.MarkBracketStatus(models.Male, cat40, ""); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if err := s.MarkBracketStatus(models.Female, cat40, models.StatusPrinted); !errors.Is(err, ErrBracketNotFound) {
		t.Fatalf("err = %v, want ErrBracketNotFound", err)
	}
}

func TestSelectCategory(t *testing.T) {
	s := newTestService(nil)
	cat40sub14 := models.Category{{ID: "Peso", Value: "40kg"}, {ID: "SUB", Value: "SUB14"}}
	players := append(testPlayers(2, true, cat40), testPlayers(2, true, cat50)...)
	players = append(players, testPlayers(2, true, cat40sub14)...)
	if err := s.ReplacePlayers(players); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}
	order := []string{"SUB", "Peso"}

	got, err := s.SelectCategory(models.Male, order, cat50)
	if err != nil || brackets.HashCategory(got) != brackets.HashCategory(cat50) {
		t.Fatalf("existing category: %v, %v", got, err)
	}

	missing := models.Category{{ID: "Peso", Value: "50kg"}, {ID: "SUB", Value: "SUB14"}}
	got, err = s.SelectCategory(models.Male, order, missing)
	if err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if brackets.HashCategory(got) != brackets.HashCategory(cat50) {
		t.Fatalf("fallback = %v, want %v", got, cat50)
	}

	got, err = s.FindValidCategory(models.Male, order, nil)
	if err != nil {
		t.Fatalf("FindValidCategory: %v", err)
	}
	if brackets.HashCategory(got) != brackets.HashCategory(cat40) {
		t.Fatalf("first valid category = %v, want %v", got, cat40)
	}

	if _, err := s.SelectCategory(models.Male, []string{"Faixa"}, missing); !errors.Is(err, ErrUnknownTagID) {
		t.Fatalf("err = %v, want ErrUnknownTagID", err)
	}
	if _, err := s.FindValidCategory(models.Female, nil, nil); !errors.Is(err, ErrBracketNotFound) {
		t.Fatalf("err = %v, want ErrBracketNotFound", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := newTestService(nil)
	placements := fourPlayerFinal(t, s)
	champion := championOf(placements)
	if _, err := s.SetChampion(models.Male, cat40, champion); err != nil {
		t.Fatalf("SetChampion: %v", err)
	}
	if err := s.SetResultTables([]models.ResultTable{{
		Name:    "Total",
		Columns: []models.ResultColumn{{Name: "Atletas", Formula: models.Formula{Source: "participants", Operation: "count"}}},
	}}); err != nil {
		t.Fatalf("SetResultTables: %v", err)
	}
	snapshot := s.Snapshot()

	restored := newTestService(nil)
	if err := restored.Restore(snapshot); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(restored.AllPlayers()) != 4 || len(restored.Brackets(models.Male)) != 1 {
		t.Fatalf("restored %d players, %d brackets", len(restored.AllPlayers()), len(restored.Brackets(models.Male)))
	}
	if points, _ := restored.Points(champion); points != 7 {
		t.Errorf("champion has %d points after restore, want 7", points)
	}
	if len(restored.ResultTables()) != 1 {
		t.Errorf("result tables = %v", restored.ResultTables())
	}

	bad := snapshot
	bad.ResultTables = []models.ResultTable{{Name: ""}}
	if err := restored.Restore(bad); !errors.Is(err, ErrInvalidResultTable) {
		t.Fatalf("err = %v, want ErrInvalidResultTable", err)
	}
	dup := snapshot
	dup.Players = append(slices.Clone(snapshot.Players), snapshot.Players[0])
	if err := restored.Restore(dup); !errors.Is(err, ErrDuplicateContestant) {
		t.Fatalf("err = %v, want ErrDuplicateContestant", err)
	}
	if len(restored.AllPlayers()) != 4 {
		t.Fatalf("failed restore changed the roster")
	}
}

func TestImportOrganizations(t *testing.T) {
	s := newTestService(nil)
	players, err := s.ImportOrganizations([]models.Organization{{
		Organization: "Academia Judo",
		Players: []models.RawPlayer{
			{Name: "Ana", IsMale: false, Category: cat40},
			{Name: "Lucas", IsMale: true, Category: cat50},
		},
	}})
	if err != nil {
		t.Fatalf("ImportOrganizations: %v", err)
	}
	for _, p := range players {
		if !p.Present || p.ContestantID == "" || p.Organization != "Academia Judo" {
			t.Errorf("imported player = %+v", p)
		}
	}
	if len(s.Players(models.Female)) != 1 || len(s.Players(models.Male)) != 1 {
		t.Fatalf("roster not partitioned by gender")
	}

	_, err = s.ImportOrganizations([]models.Organization{{Organization: "X", Players: []models.RawPlayer{{Name: "Sem categoria"}}}})
	if !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("err = %v, want ErrInvalidPlayer", err)
	}

	sample, err := s.ImportSampleOrganizations(3, 4)
	if err != nil {
		t.Fatalf("ImportSampleOrganizations: %v", err)
	}
	if len(sample) != 12 || len(s.AllPlayers()) != 12 {
		t.Fatalf("sample roster has %d players", len(s.AllPlayers()))
	}
	if _, err := s.ImportSampleOrganizations(0, 4); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestEditPlayerMintsContestantID(t *testing.T) {
	s := newTestService(nil)
	p, err := s.EditPlayer(models.Player{Name: "Novo", IsMale: true, Category: cat40, Organization: "Clube"})
	if err != nil {
		t.Fatalf("EditPlayer: %v", err)
	}
	if p.ContestantID == "" {
		t.Fatal("contestant id not minted")
	}

	updated, err := s.BulkAttachTags([]string{p.ContestantID}, []models.Category{{{ID: "Mesa", Value: "2"}}})
	if err != nil {
		t.Fatalf("BulkAttachTags: %v", err)
	}
	if !updated[0].Category.Has("Mesa") {
		t.Fatalf("tag not attached: %v", updated[0].Category)
	}
}

// championOfGroup sets the champion of the first grouped male bracket and
// returns that bracket and the champion's id.
func championOfGroup(t *testing.T, s *TournamentService) (models.TaggedBracket, string) {
	t.Helper()
	b := s.Brackets(models.Male)[0]
	if !b.Category.Has(brackets.GroupTagID) {
		t.Fatalf("bracket %v is not grouped", b.Category)
	}
	champion := b.Matches[0].Sides[0].ContestantID
	if _, err := s.SetChampion(models.Male, b.Category, champion); err != nil {
		t.Fatalf("SetChampion: %v", err)
	}
	return b, champion
}

func TestGenerateAllBracketsFailureKeepsPreviousGroups(t *testing.T) {
	s := newTestService(nil)
	if err := s.ReplacePlayers(testPlayers(17, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}
	b, champion := championOfGroup(t, s)
	before := s.Players(models.Male)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.GenerateAllBrackets(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	if n := len(s.Brackets(models.Male)); n != 3 {
		t.Errorf("%d brackets after a failed rebuild, want 3", n)
	}
	inGroup := 0
	for _, p := range s.Players(models.Male) {
		if brackets.CompareCategory(p.Category, b.Category) {
			inGroup++
		}
	}
	if inGroup != len(b.Contestants) {
		t.Errorf("%d players in %v, want %d", inGroup, b.Category, len(b.Contestants))
	}
	if points, _ := s.Points(champion); points != 7 {
		t.Errorf("champion has %d points after a failed rebuild, want 7", points)
	}
	after := s.Players(models.Male)
	for i := range before {
		if !brackets.CompareCategory(before[i].Category, after[i].Category) {
			t.Errorf("%s moved from %v to %v", before[i].Name, before[i].Category, after[i].Category)
		}
	}
}

func TestRestoreRebuildsGroupTags(t *testing.T) {
	s := newTestService(nil)
	if err := s.ReplacePlayers(testPlayers(17, true, cat40)); err != nil {
		t.Fatalf("ReplacePlayers: %v", err)
	}
	if err := s.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets: %v", err)
	}
	_, champion := championOfGroup(t, s)

	snapshot := s.Snapshot()
	for _, p := range snapshot.Players {
		if p.Category.Has(brackets.GroupTagID) {
			t.Fatalf("group tag persisted for %s", p.Name)
		}
	}

	restored := newTestService(nil)
	if err := restored.Restore(snapshot); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if points, _ := restored.Points(champion); points != 7 {
		t.Errorf("champion has %d points after restore, want 7", points)
	}
	for _, p := range restored.Players(models.Male) {
		if !p.Category.Has(brackets.GroupTagID) {
			t.Errorf("%s lost its group after restore", p.Name)
		}
	}
	if err := restored.GenerateAllBrackets(context.Background()); err != nil {
		t.Fatalf("GenerateAllBrackets after restore: %v", err)
	}
}

func TestReturnedBracketsAreCopies(t *testing.T) {
	s := newTestService(nil)
	placements := fourPlayerFinal(t, s)
	champion := championOf(placements)
	if _, err := s.SetChampion(models.Male, cat40, champion); err != nil {
		t.Fatalf("SetChampion: %v", err)
	}

	snapshot := s.Snapshot()
	b, err := s.Bracket(models.Male, cat40)
	if err != nil {
		t.Fatalf("Bracket: %v", err)
	}
	final := b.Matches[2]
	swapped := models.Match{RoundIndex: 1, Order: 0, Sides: []models.Side{final.Sides[1], final.Sides[0]}}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := json.Marshal(snapshot); err != nil {
			t.Errorf("Marshal: %v", err)
		}
	}()
	if _, err := s.RecordMatch(models.Male, cat40, swapped); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	wg.Wait()

	if got := snapshot.Brackets[models.Male][0].Matches[2].Sides[0]; got != final.Sides[0] {
		t.Errorf("snapshot changed after RecordMatch: top side %v, want %v", got, final.Sides[0])
	}
	if got := b.Matches[2].Sides[0]; got != final.Sides[0] {
		t.Errorf("returned bracket changed after RecordMatch: top side %v", got)
	}

	b.Matches[0].Sides[0].ContestantID = "edited"
	b.Status = append(b.Status, models.StatusPrinted)
	delete(b.Contestants, champion)
	again, _ := s.Bracket(models.Male, cat40)
	if again.Matches[0].Sides[0].ContestantID == "edited" || again.HasStatus(models.StatusPrinted) {
		t.Error("editing a returned bracket changed the store")
	}
	if _, ok := again.Contestants[champion]; !ok {
		t.Error("deleting from a returned bracket changed the store")
	}

	w, _ := s.Winners(models.Male, cat40)
	w.Matches["1:0"] = models.MatchResult{}
	if stored, _ := s.Winners(models.Male, cat40); stored.Matches["1:0"] == (models.MatchResult{}) {
		t.Error("editing returned winners changed the store")
	}
}
