package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-manager/models"
	"github.com/Dosada05/bracket-manager/utils"
)

const (
	// GroupTagID is the session tag that splits an oversized category into groups.
	GroupTagID      = "Grupo"
	groupLetters    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultMaxChunk = 8
)

// GroupRegistry is what grouping needs from the surrounding state: whether a
// category already has a bracket and a way to attach session tags to players.
type GroupRegistry interface {
	HasBracket(gender models.Gender, category models.Category) bool
	// BulkAttachTags attaches tags[i] to players[i] and returns the players
	// with their updated effective categories.
	BulkAttachTags(players []models.Player, tags []models.Category) ([]models.Player, error)
}

type GroupParams struct {
	Gender   models.Gender
	Players  []models.Player
	MaxChunk int
	Registry GroupRegistry
	Rand     *utils.RandomGen
	// Generator defaults to the single-elimination generator.
	Generator BracketGenerator
}

// CreateGroupedBrackets builds one bracket per group of at most MaxChunk
// players. Players are shuffled by organization first so clubs do not cluster
// in one group, then dealt round-robin. When more than one group results, each
// group gets a "Grupo" letter (A upward, skipping letters whose category
// already has a bracket) as a session tag.
func CreateGroupedBrackets(ctx context.Context, p GroupParams) ([]*models.TaggedBracket, error) {
	if len(p.Players) == 0 {
		return nil, validationErrorf(ErrEmptyRoster, "no players to group")
	}
	maxChunk := p.MaxChunk
	if maxChunk == 0 {
		maxChunk = DefaultMaxChunk
	}
	if maxChunk < 0 {
		return nil, validationErrorf(ErrInvalidGroupSize, "maxChunk: %d", maxChunk)
	}
	generator := p.Generator
	if generator == nil {
		generator = NewSingleEliminationGenerator(nil)
	}

	nChunks := (len(p.Players) + maxChunk - 1) / maxChunk
	shuffled := utils.RandomizedGroupSort(p.Players, func(pl models.Player) string { return pl.Organization }, p.Rand)
	chunks := utils.SplitEvenly(shuffled, nChunks)

	if nChunks > 1 {
		if p.Registry == nil {
			return nil, fmt.Errorf("grouping %d players into %d groups requires a registry", len(p.Players), nChunks)
		}
		base := p.Players[0].Category.Without(GroupTagID)
		newTags := make([]models.Tag, 0, nChunks)
		for i := 0; i < len(groupLetters) && len(newTags) < nChunks; i++ {
			tag := models.Tag{ID: GroupTagID, Value: string(groupLetters[i])}
			if !p.Registry.HasBracket(p.Gender, append(base.Clone(), tag)) {
				newTags = append(newTags, tag)
			}
		}
		if len(newTags) < nChunks {
			return nil, validationErrorf(ErrTooManyGroups, "%d groups needed, %d letters free", nChunks, len(newTags))
		}

		flat := make([]models.Player, 0, len(shuffled))
		tags := make([]models.Category, 0, len(shuffled))
		for i, chunk := range chunks {
			for _, pl := range chunk {
				flat = append(flat, pl)
				tags = append(tags, models.Category{newTags[i]})
			}
		}
		tagged, err := p.Registry.BulkAttachTags(flat, tags)
		if err != nil {
			return nil, fmt.Errorf("failed to attach group tags: %w", err)
		}

		offset := 0
		for i, chunk := range chunks {
			chunks[i] = tagged[offset : offset+len(chunk)]
			offset += len(chunk)
		}
	}

	result := make([]*models.TaggedBracket, 0, len(chunks))
	for _, chunk := range chunks {
		bracket, err := generator.GenerateBracket(ctx, GenerateBracketParams{Players: chunk})
		if err != nil {
			return nil, err
		}
		result = append(result, bracket)
	}
	return result, nil
}
