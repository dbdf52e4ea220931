package services

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

var (
	cat40 = models.Category{{ID: "Peso", Value: "40kg"}, {ID: "SUB", Value: "SUB12"}}
	cat50 = models.Category{{ID: "Peso", Value: "50kg"}, {ID: "SUB", Value: "SUB12"}}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPlayers(n int, isMale bool, category models.Category) []models.Player {
	players := make([]models.Player, n)
	for i := range players {
		players[i] = models.Player{
			Name:         fmt.Sprintf("Atleta %d", i+1),
			IsMale:       isMale,
			Category:     category.Clone(),
			Organization: fmt.Sprintf("Clube %d", i%4),
			Present:      true,
			ContestantID: fmt.Sprintf("%s-%v-%02d", brackets.HashCategory(category), isMale, i+1),
		}
	}
	return players
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) BroadcastToRoom(roomID string, message interface{}) {
	if m, ok := message.(brackets.WebSocketMessage); ok && roomID == brackets.TournamentRoom {
		n.events = append(n.events, m.Type)
	}
}

func newTestService(notifier Notifier) *TournamentService {
	return NewTournamentService(TournamentConfig{RandomSeed: "test"}, notifier, discardLogger())
}
