package services

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

// playerRecord keeps the persisted (static) category apart from the tags
// attached during the session. The effective category is static merged with
// session; buckets are always keyed by the static category.
type playerRecord struct {
	player  models.Player
	session models.Category
}

func (r *playerRecord) effective() models.Player {
	p := r.player
	p.Category = r.player.Category.Merge(r.session)
	return p
}

// PlayerStore partitions the roster by gender and static category.
type PlayerStore struct {
	buckets *Partition[[]*playerRecord]
	byID    map[string]*playerRecord
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		buckets: NewPartition[[]*playerRecord](),
		byID:    map[string]*playerRecord{},
	}
}

func validatePlayer(p models.Player) error {
	if p.Name == "" || p.ContestantID == "" || len(p.Category) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPlayer, p.Name)
	}
	if err := p.Category.Validate(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidPlayer, p.Name, err)
	}
	return nil
}

// ReplacePlayers swaps the whole roster. Session tags are dropped.
func (s *PlayerStore) ReplacePlayers(players []models.Player) error {
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if err := validatePlayer(p); err != nil {
			return err
		}
		if _, ok := seen[p.ContestantID]; ok {
			return fmt.Errorf("%w: %s (%s)", ErrDuplicateContestant, p.ContestantID, p.Name)
		}
		seen[p.ContestantID] = struct{}{}
	}

	s.buckets.Clear()
	s.byID = make(map[string]*playerRecord, len(players))
	for _, p := range players {
		p.Category = p.Category.Clone()
		s.insert(&playerRecord{player: p})
	}
	return nil
}

// SetPlayer reconciles a new or edited player into the store. Tags of the
// given category whose id is a session tag id for the player's gender are
// treated as session tags, the rest as the static category.
//
// A new player is appended to its bucket. A gender or static category change
// moves the player (session tags do not survive a gender change). Anything
// else is updated in place.
func (s *PlayerStore) SetPlayer(p models.Player) (models.Player, error) {
	if err := validatePlayer(p); err != nil {
		return models.Player{}, err
	}
	gender := p.Gender()
	rec, exists := s.byID[p.ContestantID]

	// Callers edit the effective player, so the record's own session tags
	// come back with it and must not be taken for static ones.
	sessionIDs := s.sessionTagIDs(gender)
	if exists {
		staticIDs := s.StaticTagIDs(gender)
		for _, id := range rec.session.IDs() {
			if !slices.Contains(staticIDs, id) && !slices.Contains(sessionIDs, id) {
				sessionIDs = append(sessionIDs, id)
			}
		}
	}
	static := p.Category.Without(sessionIDs...)
	session := p.Category.Only(sessionIDs...)
	if len(static) == 0 {
		return models.Player{}, fmt.Errorf("%w: %q has no persisted tags", ErrInvalidPlayer, p.Name)
	}

	updated := p
	updated.Category = static

	switch {
	case !exists:
		rec = &playerRecord{player: updated, session: session}
		s.insert(rec)
	case rec.player.IsMale != p.IsMale:
		s.remove(rec)
		rec = &playerRecord{player: updated}
		s.insert(rec)
	case brackets.HashCategory(rec.player.Category) != brackets.HashCategory(static):
		s.remove(rec)
		rec = &playerRecord{player: updated, session: session}
		s.insert(rec)
	default:
		rec.player = updated
		rec.session = session
	}
	return rec.effective(), nil
}

func (s *PlayerStore) insert(rec *playerRecord) {
	id := rec.player.ContestantID
	if _, ok := s.byID[id]; ok {
		panic(fmt.Sprintf("player store: contestant %s inserted twice", id))
	}
	gender := rec.player.Gender()
	bucket, _ := s.buckets.Get(gender, rec.player.Category)
	s.buckets.Set(gender, rec.player.Category, append(bucket, rec))
	s.byID[id] = rec
}

func (s *PlayerStore) remove(rec *playerRecord) {
	gender := rec.player.Gender()
	bucket, _ := s.buckets.Get(gender, rec.player.Category)
	i := slices.Index(bucket, rec)
	if i < 0 {
		panic(fmt.Sprintf("player store: contestant %s missing from its bucket", rec.player.ContestantID))
	}
	bucket = slices.Delete(bucket, i, i+1)
	if len(bucket) == 0 {
		s.buckets.Delete(gender, rec.player.Category)
	} else {
		s.buckets.Set(gender, rec.player.Category, bucket)
	}
	delete(s.byID, rec.player.ContestantID)
}

// Get returns the players whose effective category equals category.
func (s *PlayerStore) Get(gender models.Gender, category models.Category) []models.Player {
	key := brackets.HashCategory(category)
	bucket, _ := s.buckets.Get(gender, category.Without(s.sessionTagIDs(gender)...))

	out := make([]models.Player, 0, len(bucket))
	for _, rec := range bucket {
		p := rec.effective()
		if brackets.HashCategory(p.Category) == key {
			out = append(out, p)
		}
	}
	return out
}

// GetStatic returns every player stored under a static category, whatever
// their session tags are.
func (s *PlayerStore) GetStatic(gender models.Gender, category models.Category) []models.Player {
	bucket, _ := s.buckets.Get(gender, category)
	out := make([]models.Player, 0, len(bucket))
	for _, rec := range bucket {
		out = append(out, rec.effective())
	}
	return out
}

func (s *PlayerStore) Has(gender models.Gender, category models.Category) bool {
	return len(s.Get(gender, category)) > 0
}

func (s *PlayerStore) ByContestantID(id string) (models.Player, bool) {
	rec, ok := s.byID[id]
	if !ok {
		return models.Player{}, false
	}
	return rec.effective(), true
}

// Players returns the effective players of a gender, bucket by bucket.
func (s *PlayerStore) Players(gender models.Gender) []models.Player {
	out := make([]models.Player, 0)
	for _, key := range s.buckets.Keys(gender) {
		bucket, _ := s.buckets.GetKey(gender, key)
		for _, rec := range bucket {
			out = append(out, rec.effective())
		}
	}
	return out
}

func (s *PlayerStore) All() []models.Player {
	out := s.Players(models.Male)
	return append(out, s.Players(models.Female)...)
}

// StaticPlayers returns the roster without session tags, as it is persisted.
func (s *PlayerStore) StaticPlayers() []models.Player {
	out := make([]models.Player, 0, len(s.byID))
	for _, gender := range models.Genders {
		for _, key := range s.buckets.Keys(gender) {
			bucket, _ := s.buckets.GetKey(gender, key)
			for _, rec := range bucket {
				p := rec.player
				p.Category = p.Category.Clone()
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *PlayerStore) Len() int { return len(s.byID) }

// Categories returns the distinct effective categories of a gender, sorted by hash.
func (s *PlayerStore) Categories(gender models.Gender) []models.Category {
	byKey := map[string]models.Category{}
	for _, p := range s.Players(gender) {
		byKey[brackets.HashCategory(p.Category)] = p.Category
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.Category, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

// StaticTagIDs lists the tag ids present in the persisted categories of a gender.
func (s *PlayerStore) StaticTagIDs(gender models.Gender) []string {
	set := map[string]struct{}{}
	for _, rec := range s.byID {
		if rec.player.Gender() != gender {
			continue
		}
		for _, t := range rec.player.Category {
			set[t.ID] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// sessionTagIDs lists tag ids only ever seen as session tags for a gender.
func (s *PlayerStore) sessionTagIDs(gender models.Gender) []string {
	static := map[string]struct{}{}
	session := map[string]struct{}{}
	for _, rec := range s.byID {
		if rec.player.Gender() != gender {
			continue
		}
		for _, t := range rec.player.Category {
			static[t.ID] = struct{}{}
		}
		for _, t := range rec.session {
			session[t.ID] = struct{}{}
		}
	}
	for id := range static {
		delete(session, id)
	}
	return sortedKeys(session)
}

// TagIDs lists every tag id, static or session, of a gender.
func (s *PlayerStore) TagIDs(gender models.Gender) []string {
	return append(s.StaticTagIDs(gender), s.sessionTagIDs(gender)...)
}

// Organizations returns the distinct organizations of a gender.
func (s *PlayerStore) Organizations(gender models.Gender) []string {
	set := map[string]struct{}{}
	for _, rec := range s.byID {
		if rec.player.Gender() == gender {
			set[rec.player.Organization] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AttachTags merges tags into one player's session category.
func (s *PlayerStore) AttachTags(contestantID string, tags models.Category) (models.Player, error) {
	rec, ok := s.byID[contestantID]
	if !ok {
		return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, contestantID)
	}
	updated, err := s.BulkAttachTags([]models.Player{rec.effective()}, []models.Category{tags})
	if err != nil {
		return models.Player{}, err
	}
	return updated[0], nil
}

// BulkAttachTags merges tags[i] into the session category of players[i]. For
// a given id the newest tag wins, so later entries override earlier ones and
// both override what the player already carried. A tag whose id is a static
// tag id of the player's gender is rejected; nothing is applied in that case.
func (s *PlayerStore) BulkAttachTags(players []models.Player, tags []models.Category) ([]models.Player, error) {
	if len(players) != len(tags) {
		return nil, fmt.Errorf("%w: %d players, %d tag lists", ErrTagCountMismatch, len(players), len(tags))
	}

	staticIDs := models.NewGendered(func(g models.Gender) []string { return s.StaticTagIDs(g) })
	records := make([]*playerRecord, len(players))
	for i, p := range players {
		rec, ok := s.byID[p.ContestantID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, p.ContestantID)
		}
		if err := tags[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		for _, t := range tags[i] {
			if slices.Contains(staticIDs[rec.player.Gender()], t.ID) {
				return nil, fmt.Errorf("%w: %q", ErrStaticTagConflict, t.ID)
			}
		}
		records[i] = rec
	}

	for i, rec := range records {
		rec.session = rec.session.Merge(tags[i])
	}
	out := make([]models.Player, len(records))
	for i, rec := range records {
		out[i] = rec.effective()
	}
	return out, nil
}

// ClearSessionTags removes the listed ids (all session tags when none given)
// from every player.
func (s *PlayerStore) ClearSessionTags(ids ...string) {
	for _, rec := range s.byID {
		if len(ids) == 0 {
			rec.session = nil
			continue
		}
		rec.session = rec.session.Without(ids...)
	}
}

// Sessions returns a copy of every player's session category by contestant id.
func (s *PlayerStore) Sessions() map[string]models.Category {
	out := make(map[string]models.Category, len(s.byID))
	for id, rec := range s.byID {
		out[id] = rec.session.Clone()
	}
	return out
}

// RestoreSessions puts back session categories taken with Sessions. Players
// missing from sessions lose their session tags.
func (s *PlayerStore) RestoreSessions(sessions map[string]models.Category) {
	for id, rec := range s.byID {
		rec.session = sessions[id].Clone()
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
