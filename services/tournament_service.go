package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
	"github.com/Dosada05/bracket-manager/utils"
	"github.com/google/uuid"
)

// Notifier receives state-change events; *brackets.Hub implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

type TournamentConfig struct {
	// MaxGroupSize caps the players of one bracket; 0 means brackets.DefaultMaxChunk.
	MaxGroupSize int
	// RandomSeed seeds the shuffles of the session. Empty picks a random seed.
	RandomSeed string
}

// Standing is one line of the points table.
type Standing struct {
	Player models.Player `json:"player"`
	Points int           `json:"points"`
}

// TournamentService is the single entry point to the tournament state. The
// stores underneath are not safe for concurrent use; every method here takes
// the service lock.
type TournamentService struct {
	mu           sync.Mutex
	players      *PlayerStore
	brackets     *BracketStore
	winners      *WinnerStore
	resultTables []models.ResultTable
	rand         *utils.RandomGen
	maxChunk     int
	generator    brackets.BracketGenerator
	notifier     Notifier
	logger       *slog.Logger
}

func NewTournamentService(cfg TournamentConfig, notifier Notifier, logger *slog.Logger) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.RandomSeed
	if seed == "" {
		seed = uuid.NewString()
	}
	logger.Info("tournament service initialised", slog.String("seed", seed), slog.Int("max_group_size", cfg.MaxGroupSize))
	return &TournamentService{
		players:      NewPlayerStore(),
		brackets:     NewBracketStore(),
		winners:      NewWinnerStore(logger),
		resultTables: []models.ResultTable{},
		rand:         utils.NewRandomGen(seed),
		maxChunk:     cfg.MaxGroupSize,
		generator:    brackets.NewSingleEliminationGenerator(logger),
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *TournamentService) notify(eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastToRoom(brackets.TournamentRoom, brackets.WebSocketMessage{
		ID:      uuid.NewString(),
		Type:    eventType,
		Payload: payload,
		RoomID:  brackets.TournamentRoom,
	})
}

func withContestantID(p models.Player) models.Player {
	if p.ContestantID == "" {
		p.ContestantID = utils.ContestantID(p.Name, p.Organization, p.IsMale)
	}
	return p
}

// ReplacePlayers swaps the roster. Missing contestant ids are minted.
func (s *TournamentService) ReplacePlayers(players []models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	minted := make([]models.Player, len(players))
	for i, p := range players {
		minted[i] = withContestantID(p)
	}
	if err := s.players.ReplacePlayers(minted); err != nil {
		return err
	}
	s.logger.Info("roster replaced", slog.Int("players", len(minted)))
	s.notify(brackets.EventPlayersUpdated, map[string]int{"players": len(minted)})
	return nil
}

// ImportOrganizations flattens organizations into a fresh roster. Every
// imported player is present.
func (s *TournamentService) ImportOrganizations(orgs []models.Organization) ([]models.Player, error) {
	players := make([]models.Player, 0)
	for _, org := range orgs {
		for _, raw := range org.Players {
			if raw.Name == "" || len(raw.Category) == 0 {
				return nil, fmt.Errorf("%w: organization %q has a player without name or category", ErrInvalidPlayer, org.Organization)
			}
			players = append(players, models.Player{
				Name:         raw.Name,
				IsMale:       raw.IsMale,
				Category:     raw.Category.Clone(),
				Organization: org.Organization,
				Present:      true,
				ContestantID: utils.ContestantID(raw.Name, org.Organization, raw.IsMale),
			})
		}
	}
	if err := s.ReplacePlayers(players); err != nil {
		return nil, err
	}
	return players, nil
}

// ImportSampleOrganizations replaces the roster with a generated demo roster
// drawn from the session generator.
func (s *TournamentService) ImportSampleOrganizations(numOrgs, playersPerOrg int) ([]models.Player, error) {
	if numOrgs < 1 || playersPerOrg < 1 {
		return nil, fmt.Errorf("%w: sample needs at least one organization and one player", ErrValidationFailed)
	}
	s.mu.Lock()
	orgs := utils.GenerateRandomOrganizations(numOrgs, playersPerOrg, s.rand)
	s.mu.Unlock()

	return s.ImportOrganizations(orgs)
}

// EditPlayer adds or updates one player, moving it between categories when needed.
func (s *TournamentService) EditPlayer(p models.Player) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.players.SetPlayer(withContestantID(p))
	if err != nil {
		return models.Player{}, err
	}
	s.notify(brackets.EventPlayersUpdated, updated)
	return updated, nil
}

func (s *TournamentService) AttachTags(contestantID string, tags models.Category) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.players.AttachTags(contestantID, tags)
	if err != nil {
		return models.Player{}, err
	}
	s.notify(brackets.EventPlayersUpdated, updated)
	return updated, nil
}

// BulkAttachTags attaches tags[i] to the player with contestantIDs[i].
func (s *TournamentService) BulkAttachTags(contestantIDs []string, tags []models.Category) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make([]models.Player, len(contestantIDs))
	for i, id := range contestantIDs {
		players[i] = models.Player{ContestantID: id}
	}
	updated, err := s.players.BulkAttachTags(players, tags)
	if err != nil {
		return nil, err
	}
	s.notify(brackets.EventPlayersUpdated, map[string]int{"players": len(updated)})
	return updated, nil
}

// groupRegistry lets grouping see the brackets being built and tag players.
type groupRegistry struct {
	brackets *BracketStore
	players  *PlayerStore
}

func (r *groupRegistry) HasBracket(gender models.Gender, category models.Category) bool {
	return r.brackets.Has(gender, category)
}

func (r *groupRegistry) BulkAttachTags(players []models.Player, tags []models.Category) ([]models.Player, error) {
	return r.players.BulkAttachTags(players, tags)
}

// GenerateAllBrackets rebuilds every bracket from the present players of each
// effective category and resets the winners. Group tags of a previous
// generation are dropped first. On failure the previous brackets and the
// session tags that map players onto them stay.
func (s *TournamentService) GenerateAllBrackets(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.players.Sessions()
	s.players.ClearSessionTags(brackets.GroupTagID)
	fresh := NewBracketStore()
	registry := &groupRegistry{brackets: fresh, players: s.players}

	for _, gender := range models.Genders {
		for _, category := range s.players.Categories(gender) {
			var present []models.Player
			for _, p := range s.players.Get(gender, category) {
				if p.Present {
					present = append(present, p)
				}
			}
			if len(present) == 0 {
				continue
			}

			built, err := brackets.CreateGroupedBrackets(ctx, brackets.GroupParams{
				Gender:    gender,
				Players:   present,
				MaxChunk:  s.maxChunk,
				Registry:  registry,
				Rand:      s.rand,
				Generator: s.generator,
			})
			if err != nil {
				s.players.RestoreSessions(sessions)
				return fmt.Errorf("failed to build brackets for %s %q: %w", gender, brackets.HashCategory(category), err)
			}
			for _, b := range built {
				fresh.Set(gender, b)
			}
		}
	}

	s.brackets = fresh
	s.winners.Clear()
	counts := map[string]int{}
	for _, gender := range models.Genders {
		for _, category := range fresh.Categories(gender) {
			s.winners.Init(gender, category)
		}
		counts[gender.String()] = fresh.Len(gender)
	}
	s.logger.InfoContext(ctx, "brackets generated",
		slog.Int("male", counts[models.Male.String()]),
		slog.Int("female", counts[models.Female.String()]),
	)
	s.notify(brackets.EventBracketsGenerated, counts)
	return nil
}

func (s *TournamentService) bracket(gender models.Gender, category models.Category) (*models.TaggedBracket, error) {
	b, ok := s.brackets.Get(gender, category)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrBracketNotFound, gender, brackets.HashCategory(category))
	}
	return b, nil
}

// SetChampion records the champion of a bracket and derives its winners.
func (s *TournamentService) SetChampion(gender models.Gender, category models.Category, contestantID string) (models.Winners, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bracket(gender, category)
	if err != nil {
		return models.Winners{}, err
	}
	if _, ok := b.Contestants[contestantID]; !ok {
		return models.Winners{}, fmt.Errorf("%w: %s", ErrContestantNotInBracket, contestantID)
	}
	w := brackets.RetrieveWinners(&b.Bracket, contestantID)
	s.winners.Set(gender, b.Category, w)
	s.notify(brackets.EventWinnersUpdated, map[string]interface{}{
		"gender": gender, "category": b.Category, "winners": w,
	})
	return w.Clone(), nil
}

// RecordMatch stores a later-round pairing. An existing match with the same
// round and order is replaced. When the champion is already known the winners
// are derived again from the updated bracket.
func (s *TournamentService) RecordMatch(gender models.Gender, category models.Category, match models.Match) (*models.TaggedBracket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bracket(gender, category)
	if err != nil {
		return nil, err
	}
	if err := validateMatch(b, match); err != nil {
		return nil, err
	}

	match.Sides = slices.Clone(match.Sides)
	i := slices.IndexFunc(b.Matches, func(m models.Match) bool {
		return m.RoundIndex == match.RoundIndex && m.Order == match.Order
	})
	if i >= 0 {
		b.Matches[i] = match
	} else {
		b.Matches = append(b.Matches, match)
	}

	if w, ok := s.winners.Get(gender, b.Category); ok {
		if champion, ok := w.Champion(); ok {
			s.winners.Set(gender, b.Category, brackets.RetrieveWinners(&b.Bracket, champion))
		}
	}
	s.notify(brackets.EventBracketUpdated, map[string]interface{}{
		"gender": gender, "category": b.Category, "match": match,
	})
	out := b.Clone()
	return &out, nil
}

func validateMatch(b *models.TaggedBracket, match models.Match) error {
	rounds := len(b.Rounds)
	if match.RoundIndex < 1 || match.RoundIndex >= rounds {
		return fmt.Errorf("%w: round %d outside 1..%d", ErrInvalidMatch, match.RoundIndex, rounds-1)
	}
	perRound := (1 << rounds) >> (match.RoundIndex + 1)
	if match.Order < 0 || match.Order >= perRound {
		return fmt.Errorf("%w: order %d outside 0..%d", ErrInvalidMatch, match.Order, perRound-1)
	}
	if len(match.Sides) > 2 {
		return fmt.Errorf("%w: %d sides", ErrInvalidMatch, len(match.Sides))
	}
	for _, side := range match.Sides {
		if side.ContestantID == "" {
			continue
		}
		if _, ok := b.Contestants[side.ContestantID]; !ok {
			return fmt.Errorf("%w: %s", ErrContestantNotInBracket, side.ContestantID)
		}
	}
	return nil
}

func (s *TournamentService) MarkBracketStatus(gender models.Gender, category models.Category, status models.BracketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == "" {
		return fmt.Errorf("%w: empty status", ErrValidationFailed)
	}
	if err := s.brackets.MarkStatus(gender, category, status); err != nil {
		return err
	}
	s.notify(brackets.EventBracketUpdated, map[string]interface{}{
		"gender": gender, "category": category, "status": status,
	})
	return nil
}

// possibleTags lists, sorted by value, the tags with tagID found on brackets
// whose category contains every tag of selected.
func (s *TournamentService) possibleTags(gender models.Gender, tagID string, selected models.Category) []models.Tag {
	seen := map[string]struct{}{}
	var out []models.Tag
	for _, b := range s.brackets.Brackets(gender) {
		if !containsAll(b.Category, selected) {
			continue
		}
		if t, ok := b.Category.Get(tagID); ok {
			if _, dup := seen[t.Value]; !dup {
				seen[t.Value] = struct{}{}
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func containsAll(category, subset models.Category) bool {
	for _, t := range subset {
		if got, ok := category.Get(t.ID); !ok || got.Value != t.Value {
			return false
		}
	}
	return true
}

func (s *TournamentService) findValidCategory(gender models.Gender, tagOrder []string, constraints models.Category) (models.Category, error) {
	if len(tagOrder) == 0 {
		return nil, fmt.Errorf("%w: empty tag order", ErrBracketNotFound)
	}
	available := s.brackets.TagByID(gender)
	selection := constraints.Clone()

	for _, id := range tagOrder {
		if selection.Has(id) {
			continue
		}
		tags, ok := available[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownTagID, id, gender)
		}
		if len(tags) == 0 {
			continue
		}
		if len(selection) == 0 {
			selection = append(selection, tags[0])
			continue
		}
		if possible := s.possibleTags(gender, id, selection); len(possible) > 0 {
			selection = append(selection, possible[0])
		}
	}
	if !s.brackets.Has(gender, selection) {
		return nil, fmt.Errorf("%w: no bracket reachable from %q", ErrBracketNotFound, brackets.HashCategory(constraints))
	}
	return selection, nil
}

// FindValidCategory walks tagOrder picking, for each tag id, the first value
// compatible with what was picked so far, starting from constraints.
func (s *TournamentService) FindValidCategory(gender models.Gender, tagOrder []string, constraints models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findValidCategory(gender, tagOrder, constraints)
}

// SelectCategory returns category when it has a bracket. Otherwise it retries
// FindValidCategory with the category as constraints, dropping trailing tags
// until a bracket is reachable.
func (s *TournamentService) SelectCategory(gender models.Gender, tagOrder []string, category models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.brackets.Has(gender, category) {
		return category.Clone(), nil
	}
	var lastErr error
	for n := len(category); n >= 0; n-- {
		selection, err := s.findValidCategory(gender, tagOrder, category[:n])
		if err == nil {
			return selection, nil
		}
		if errors.Is(err, ErrUnknownTagID) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *TournamentService) Players(gender models.Gender) []models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Players(gender)
}

func (s *TournamentService) AllPlayers() []models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.All()
}

func (s *TournamentService) PlayerCategories(gender models.Gender) []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Categories(gender)
}

func (s *TournamentService) BracketCategories(gender models.Gender) []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brackets.Categories(gender)
}

func (s *TournamentService) Bracket(gender models.Gender, category models.Category) (models.TaggedBracket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bracket(gender, category)
	if err != nil {
		return models.TaggedBracket{}, err
	}
	return b.Clone(), nil
}

func (s *TournamentService) Brackets(gender models.Gender) []models.TaggedBracket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brackets.Collection()[gender]
}

func (s *TournamentService) Winners(gender models.Gender, category models.Category) (models.Winners, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.winners.Get(gender, category)
	if !ok {
		return models.Winners{}, fmt.Errorf("%w: %s %q", ErrWinnersNotFound, gender, brackets.HashCategory(category))
	}
	return w.Clone(), nil
}

func (s *TournamentService) Points(contestantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.ByContestantID(contestantID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPlayerNotFound, contestantID)
	}
	return s.winners.Points(p), nil
}

// Standings lists every player with points, best first.
func (s *TournamentService) Standings() []Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standings()
}

func (s *TournamentService) standings() []Standing {
	out := make([]Standing, 0, s.players.Len())
	for _, p := range s.players.All() {
		out = append(out, Standing{Player: p, Points: s.winners.Points(p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Player.Name < out[j].Player.Name
	})
	return out
}

func (s *TournamentService) ResultTables() []models.ResultTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.resultTables)
}

// SetResultTables validates and replaces the result table definitions.
func (s *TournamentService) SetResultTables(tables []models.ResultTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := map[string]struct{}{}
	for _, t := range tables {
		if err := validateResultTable(t); err != nil {
			return err
		}
		if _, dup := names[t.Name]; dup {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalidResultTable, t.Name)
		}
		names[t.Name] = struct{}{}
	}
	s.resultTables = slices.Clone(tables)
	return nil
}

// ResultTable renders the named result table over the current roster.
func (s *TournamentService) ResultTable(name string) (models.TableData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.resultTables, func(t models.ResultTable) bool { return t.Name == name })
	if i < 0 {
		return models.TableData{}, fmt.Errorf("%w: %q", ErrResultTableNotFound, name)
	}
	return BuildResultTable(s.resultTables[i], s.players.All(), s.winners.Points)
}

// Snapshot returns the persistable state. Session tags are not part of it.
func (s *TournamentService) Snapshot() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.State{
		Players:           s.players.StaticPlayers(),
		Brackets:          s.brackets.Collection(),
		WinnersByCategory: s.winners.ByCategory(),
		ResultTables:      slices.Clone(s.resultTables),
	}
}

// restoreGroupTags gives every contestant of a grouped bracket that bracket's
// group tag back, so restored winners map onto the roster again.
func restoreGroupTags(players *PlayerStore, collection models.BracketCollection) error {
	var targets []models.Player
	var tags []models.Category
	for _, gender := range models.Genders {
		for _, b := range collection[gender] {
			tag, ok := b.Category.Get(brackets.GroupTagID)
			if !ok {
				continue
			}
			for _, id := range sortedKeys(contestantSet(b.Contestants)) {
				p, ok := players.ByContestantID(id)
				if !ok || p.Gender() != gender || !brackets.CompareCategory(p.Category, b.Category, brackets.GroupTagID) {
					continue
				}
				targets = append(targets, p)
				tags = append(tags, models.Category{tag})
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}
	_, err := players.BulkAttachTags(targets, tags)
	return err
}

func contestantSet(contestants map[string]models.Contestant) map[string]struct{} {
	set := make(map[string]struct{}, len(contestants))
	for id := range contestants {
		set[id] = struct{}{}
	}
	return set
}

// Restore replaces the whole state. Nothing changes when the roster or the
// result tables are invalid.
func (s *TournamentService) Restore(state models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range state.ResultTables {
		if err := validateResultTable(t); err != nil {
			return err
		}
	}
	players := NewPlayerStore()
	if err := players.ReplacePlayers(state.Players); err != nil {
		return err
	}
	if err := restoreGroupTags(players, state.Brackets); err != nil {
		s.logger.Warn("group tags not restored", slog.Any("error", err))
	}

	s.players = players
	s.brackets.Load(state.Brackets)
	s.winners.Load(state.WinnersByCategory)
	s.resultTables = slices.Clone(state.ResultTables)
	if s.resultTables == nil {
		s.resultTables = []models.ResultTable{}
	}

	s.logger.Info("state restored",
		slog.Int("players", s.players.Len()),
		slog.Int("male_brackets", s.brackets.Len(models.Male)),
		slog.Int("female_brackets", s.brackets.Len(models.Female)),
	)
	s.notify(brackets.EventStateRestored, map[string]int{"players": s.players.Len()})
	return nil
}
