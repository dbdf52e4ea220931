package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-manager/models"
	"github.com/Dosada05/bracket-manager/storage"
	"github.com/google/uuid"
)

// StandingsExport is the export name reserved for the points standings.
const StandingsExport = "standings"

type ExportService struct {
	tournament *TournamentService
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewExportService(tournament *TournamentService, uploader storage.FileUploader, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{tournament: tournament, uploader: uploader, logger: logger}
}

// Export renders the named result table (or the standings) as CSV and uploads it.
func (s *ExportService) Export(ctx context.Context, name string) (*storage.UploadResult, error) {
	var data models.TableData
	if name == StandingsExport {
		data = StandingsTable(s.tournament.Standings())
	} else {
		var err error
		if data, err = s.tournament.ResultTable(name); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %q as CSV: %w", name, err)
	}

	key := fmt.Sprintf("exports/%s-%s.csv", slugify(name), uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, "text/csv", &buf)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "table exported", slog.String("table", name), slog.String("key", result.Key), slog.Int("rows", len(data.Rows)))
	return result, nil
}

// StandingsTable lays the standings out as a result table.
func StandingsTable(standings []Standing) models.TableData {
	data := models.TableData{
		Name:   StandingsExport,
		Header: []string{"name", "organization", "gender", "points"},
		Rows:   make([][]string, 0, len(standings)),
	}
	for _, st := range standings {
		data.Rows = append(data.Rows, []string{
			st.Player.Name,
			st.Player.Organization,
			st.Player.Gender().String(),
			strconv.Itoa(st.Points),
		})
	}
	return data
}

func WriteTableCSV(w io.Writer, data models.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(data.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(data.Rows); err != nil {
		return err
	}
	return cw.Error()
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "table"
	}
	return slug
}
