package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/domain/analytics"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/okian/cricscore/pkg/logger"
)

const (
	directoryPermission = 0750
	// maxOvers keeps an innings inside one deliveries page.
	maxOvers = 100
)

// ErrInvalidConfig is returned for a configuration that cannot run.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Validate checks that the config can drive a run.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case c.Matches < 1:
		return fmt.Errorf("%w: matches %d must be at least 1", ErrInvalidConfig, c.Matches)
	case c.Overs < 1 || c.Overs > maxOvers:
		return fmt.Errorf("%w: overs %d must be between 1 and %d", ErrInvalidConfig, c.Overs, maxOvers)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d must be at least 1", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Plans generates one innings plan per match.
func Plans(seed uint64, matches, overs int, roster Roster) ([]Plan, error) {
	gen, err := NewGenerator(seed)
	if err != nil {
		return nil, err
	}
	run := uuid.NewString()[:8]
	plans := make([]Plan, 0, matches)
	for i := range matches {
		p, err := gen.Innings(fmt.Sprintf("sim-%s-%02d", run, i+1), overs, roster)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Run plays the configured innings against the server and verifies what it
// stored.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	stats := Stats{StartTime: time.Now()}
	log := logger.Get().Named("simulate")
	log.Info(ctx, "starting cricscore simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.Matches),
		logger.Int("overs", config.Overs),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.BaseURL, config.Timeout)
	if _, err := client.Do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	roster, err := fetchRoster(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("roster retrieval failed: %w", err)
	}
	plans, err := Plans(config.Seed, config.Matches, config.Overs, roster)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}
	if config.OutputFile != "" {
		if err := SavePlans(config.OutputFile, plans); err != nil {
			log.Warn(ctx, "failed to save plans to file", logger.Error(err))
		}
	}

	results := playAll(ctx, client, config, plans)

	report := &Report{Results: results}
	for _, r := range results {
		stats.Innings++
		stats.Balls += r.Balls
		stats.Problems += r.Problems()
	}
	stats.Requests = client.Requests()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report.Stats = stats

	log.Info(ctx, "simulation completed",
		logger.Int("innings", stats.Innings),
		logger.Int("balls", stats.Balls),
		logger.Int("requests", stats.Requests),
		logger.Int("problems", stats.Problems),
		logger.Duration("duration", stats.Duration))
	return report, ctx.Err()
}

// playAll plays plans on a pool of config.Workers workers. Results keep plan
// order.
func playAll(ctx context.Context, client *HTTPClient, config *Config, plans []Plan) []Result {
	results := make([]Result, len(plans))
	idx := make(chan int, config.Workers*2)
	var wg sync.WaitGroup
	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = playInnings(ctx, client, plans[i], config.Verbose)
			}
		}()
	}

	go func() {
		defer close(idx)
		for i := range plans {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()
	wg.Wait()

	for i := range results {
		if results[i].MatchID == "" {
			results[i] = Result{MatchID: plans[i].MatchID, Innings: plans[i].Innings, Want: plans[i].Want, Err: ctx.Err()}
		}
	}
	return results
}

// playInnings scores every ball of plan through a fresh session and then
// reads the innings back.
func playInnings(ctx context.Context, c *HTTPClient, plan Plan, verbose bool) Result {
	log := logger.Get().Named("simulate")
	res := Result{MatchID: plan.MatchID, Innings: plan.Innings, Want: plan.Want}

	var view service.SessionView
	start := service.StartRequest{MatchID: plan.MatchID, Innings: plan.Innings}
	if _, err := c.Do(ctx, http.MethodPost, "/sessions", start, &view, http.StatusCreated); err != nil {
		res.Err = err
		return res
	}
	base := "/sessions/" + view.ID
	defer func() {
		if _, err := c.Do(context.WithoutCancel(ctx), http.MethodDelete, base, nil, nil, http.StatusNoContent); err != nil {
			log.Warn(ctx, "failed to close session", logger.String("session", view.ID), logger.Error(err))
		}
	}()

	for _, b := range plan.Balls {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		if err := playBall(ctx, c, base, b, &res); err != nil {
			res.Err = fmt.Errorf("ball %d: %w", b.Seq+1, err)
			return res
		}
		res.Balls++
		if verbose {
			log.Debug(ctx, "ball scored",
				logger.String("match", plan.MatchID),
				logger.Int("seq", b.Seq),
				logger.String("pitch", b.WantPitch.LengthZone.String()+"/"+b.WantPitch.LineColumn.String()))
		}
	}

	if err := verifyInnings(ctx, c, plan, &res); err != nil {
		res.Err = err
	}
	return res
}

// playBall sends one ball's clicks, fills the draft and commits it. Only
// transport failures and unexpected statuses on the draft are errors;
// classification differences and rejected commits are counted.
func playBall(ctx context.Context, c *HTTPClient, base string, b Ball, res *Result) error {
	if b.Miss != nil {
		status, err := c.Do(ctx, http.MethodPost, base+"/pitch", b.Miss, nil, http.StatusOK, http.StatusNoContent)
		if err != nil {
			return err
		}
		if status != http.StatusNoContent {
			res.MissesAccepted++
		}
	}

	var got pitch.Result
	status, err := c.Do(ctx, http.MethodPost, base+"/pitch", b.Pitch, &got, http.StatusOK, http.StatusNoContent)
	if err != nil {
		return err
	}
	if status != http.StatusOK || got.LengthZone != b.WantPitch.LengthZone || got.LineColumn != b.WantPitch.LineColumn {
		res.PitchMismatches++
	}

	if b.Field != nil {
		var shot field.Result
		status, err := c.Do(ctx, http.MethodPost, base+"/field", b.Field, &shot, http.StatusOK, http.StatusNoContent)
		if err != nil {
			return err
		}
		if status != http.StatusOK || shot.Sector != b.WantField.Sector {
			res.FieldMismatches++
		}
	}

	if _, err := c.Do(ctx, http.MethodPatch, base+"/draft", b.Patch, nil, http.StatusOK); err != nil {
		return err
	}
	if _, err := c.Do(ctx, http.MethodPost, base+"/commit", nil, nil, http.StatusCreated); err != nil {
		if !errors.Is(err, ErrUnexpectedStatus) {
			return err
		}
		res.CommitFailures++
	}
	return nil
}

// verifyInnings reads back the stored deliveries and a rebuilt scorecard.
func verifyInnings(ctx context.Context, c *HTTPClient, plan Plan, res *Result) error {
	path := fmt.Sprintf("/matches/%s/innings/%d", plan.MatchID, plan.Innings)

	var listing struct {
		Count int `json:"count"`
	}
	if _, err := c.Do(ctx, http.MethodGet, path+"/deliveries", nil, &listing, http.StatusOK); err != nil {
		return fmt.Errorf("failed to list deliveries: %w", err)
	}
	res.Stored = listing.Count

	var rep analytics.Report
	if _, err := c.Do(ctx, http.MethodPost, path+"/analytics/rebuild", nil, &rep, http.StatusOK); err != nil {
		return fmt.Errorf("failed to rebuild analytics: %w", err)
	}
	res.Got = Tally{
		Deliveries: rep.Deliveries,
		Runs:       rep.Scorecard.Runs,
		Wickets:    rep.Scorecard.Wickets,
		LegalBalls: rep.Scorecard.LegalBalls,
	}
	return nil
}

// SavePlans writes plans to path as indented JSON.
func SavePlans(path string, plans []Plan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plans: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
