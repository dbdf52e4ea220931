package brackets

import (
	"context"

	"github.com/Dosada05/bracket-manager/models"
)

type GenerateBracketParams struct {
	// Players carry their effective category; all of them must share it.
	Players []models.Player
	// BracketSize pads the bracket beyond the player count. Zero means "fit the roster".
	BracketSize int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.TaggedBracket, error)

	GetName() string
}
