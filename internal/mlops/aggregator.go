// Package mlops implements the model-quality monitoring, retrain
// policy, and retrain worker of the courtsight core. It reads live
// prediction results through domain.MetricsSource, raises
// streak-aware alerts, decides when retraining is warranted, and
// drives jobs through the durable queue.
package mlops

import (
	"context"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// Aggregator computes the point-in-time quality and freshness metrics
// for a season.
type Aggregator struct {
	source domain.MetricsSource
	now    func() time.Time
}

// NewAggregator creates an aggregator over the given metrics source.
func NewAggregator(source domain.MetricsSource) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

// Compute reads evaluated predictions and freshness timestamps for the
// season. Accuracy and Brier stay nil when nothing has been evaluated;
// freshness stays nil when a timestamp was never observed. Source
// errors propagate unmodified — there is no silent zero-fill.
func (a *Aggregator) Compute(ctx context.Context, season string) (domain.Metrics, error) {
	quality, err := a.source.QualitySummary(ctx, season)
	if err != nil {
		return domain.Metrics{}, err
	}
	latestGame, err := a.source.LatestGameDate(ctx, season)
	if err != nil {
		return domain.Metrics{}, err
	}
	latestSync, err := a.source.LatestPipelineSync(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}

	now := a.now()
	return domain.Metrics{
		EvaluatedPredictions:  quality.EvaluatedPredictions,
		Accuracy:              quality.Accuracy,
		BrierScore:            quality.BrierScore,
		LatestGameDate:        latestGame,
		LatestPipelineSync:    latestSync,
		GameFreshnessDays:     daysSince(latestGame, now),
		PipelineFreshnessDays: daysSince(latestSync, now),
	}, nil
}

// daysSince returns the whole days elapsed since t, clamped at zero,
// nil when t was never observed.
func daysSince(t *time.Time, now time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(now.Sub(*t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
