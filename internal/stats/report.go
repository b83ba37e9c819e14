package stats

import (
	"context"
	"io"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// ReportSource is the part of the store that reports read from.
type ReportSource interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListItemAggregates(ctx context.Context, sessionIDs []string) ([]model.ItemAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []string
	ItemAggsAll      []model.ItemAggregate
	ItemAggsWindow   []model.ItemAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src ReportSource, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	all, err := src.ListItemAggregates(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	window, err := src.ListItemAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		ItemAggsAll:      all,
		ItemAggsWindow:   window,
	}, nil
}

// Render writes the plain-text report.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, window, width); err != nil {
		return err
	}
	return RenderItemTable(w, r.ItemAggsWindow)
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []string {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
