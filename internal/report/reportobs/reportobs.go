package reportobs

import (
	"context"
	"time"

	"wb-ledger-bot/internal/interfaces"
	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/trace"
	"wb-ledger-bot/internal/types"
)

type observableOrchestrator struct {
	orchestrator interfaces.Orchestrator
}

var _ interfaces.Orchestrator = (*observableOrchestrator)(nil)

func Wrap(o interfaces.Orchestrator) interfaces.Orchestrator {
	return &observableOrchestrator{
		orchestrator: o,
	}
}

func (oo *observableOrchestrator) Run(ctx context.Context, from, to time.Time) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "report.Run")
	defer span.End()

	start := time.Now()

	logger.Info(ctx, "Starting report run",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
	)

	report, err := oo.orchestrator.Run(ctx, from, to)
	if err != nil {
		logger.ErrorWithErr(ctx, "Report run failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Info(ctx, "Report run completed",
		"shop", report.ShopName,
		"tables", len(report.Tables),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}
