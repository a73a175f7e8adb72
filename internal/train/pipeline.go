// Package train invokes the external model training pipeline as a
// subprocess. The pipeline binary (typically the Python trainer) is
// expected to write the per-model metrics payload as JSON on stdout.
//
// The pipeline is injected into the worker as a domain.Trainer — an
// explicit, reloadable handle rather than a process-wide singleton —
// so tests substitute a stub and the daemon can swap commands on
// config reload.
package train

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// Pipeline runs the configured training command.
type Pipeline struct {
	command []string // argv; the season is appended as --season <value>
	dir     string   // working directory, empty for inherited
}

// NewPipeline creates a trainer for the given command line.
func NewPipeline(command []string, workDir string) *Pipeline {
	return &Pipeline{command: command, dir: workDir}
}

// Train runs the pipeline for a season and decodes its JSON report.
// The caller owns the deadline: training is long-running and runs
// entirely outside any store transaction.
func (p *Pipeline) Train(ctx context.Context, season string) (*domain.TrainingOutput, error) {
	if len(p.command) == 0 {
		return nil, domain.ErrTrainerNotConfigured
	}

	args := append(append([]string{}, p.command[1:]...), "--season", season)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	cmd.Dir = p.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("training pipeline: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("training pipeline: %w", err)
	}

	if strings.TrimSpace(stdout.String()) == "" {
		return nil, domain.ErrNoTrainingOutput
	}

	var output domain.TrainingOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("decode training output: %w", err)
	}
	return &output, nil
}
