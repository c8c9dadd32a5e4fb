package logging

import (
	"io"
	"log/slog"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
)

// NewLogger returns a text logger at Info, or Debug when debug is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LogExplanation writes one debug record per explanation line, then the total.
func LogExplanation(logger *slog.Logger, actorID string, result scoring.Result) {
	for _, line := range result.Lines {
		logger.Debug("reform cost", "actor", actorID, "label", line.Label, "amount", line.Amount)
	}
	logger.Debug("total dev points required", "actor", actorID, "total", result.Total)
}
