// Package consensus runs an evaluation as independent replicas and accepts a
// result only when a quorum of them produce byte-identical output.
package consensus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	domainerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/ports"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultReplicas = 3
	maxParallel     = 8
)

type Replicated struct {
	Replicas int
	// Quorum is the number of identical results required. Values that are not
	// a strict majority of Replicas are raised to the majority.
	Quorum int
	Logger *slog.Logger
}

func NewReplicated(replicas int, quorum int, logger *slog.Logger) Replicated {
	if replicas <= 0 {
		replicas = DefaultReplicas
	}
	return Replicated{
		Replicas: replicas,
		Quorum:   quorum,
		Logger:   logger,
	}
}

type replicaResult struct {
	output string
	err    error
}

func (r Replicated) StrictEquivalence(ctx context.Context, eval ports.Evaluation) (string, error) {
	replicas := r.Replicas
	if replicas <= 0 {
		replicas = DefaultReplicas
	}
	quorum := r.effectiveQuorum(replicas)
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]replicaResult, replicas)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)
	for i := 0; i < replicas; i++ {
		group.Go(func() error {
			output, err := eval(groupCtx)
			results[i] = replicaResult{output: output, err: err}
			// Replica failures are tallied, never propagated, so one bad
			// replica does not cancel its peers.
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tally := make(map[string]int, replicas)
	failures := make([]error, 0, replicas)
	for _, result := range results {
		if result.err != nil {
			failures = append(failures, result.err)
			continue
		}
		tally[result.output]++
	}
	if len(tally) == 0 {
		return "", fmt.Errorf("%w: %w", domainerrors.ErrEvaluationFailed, errors.Join(failures...))
	}

	best, votes := leader(tally)
	if votes < quorum {
		logger.Warn("replicas disagreed",
			"event", "judge_consensus_disagreement",
			"module", "escrow/judging-engine",
			"layer", "adapter",
			"replicas", replicas,
			"quorum", quorum,
			"failures", len(failures),
			"digests", digests(tally),
		)
		return "", fmt.Errorf("%w: best result had %d of %d required votes", domainerrors.ErrNoConsensus, votes, quorum)
	}
	if len(failures) > 0 {
		logger.Warn("consensus reached despite replica failures",
			"event", "judge_consensus_partial",
			"module", "escrow/judging-engine",
			"layer", "adapter",
			"replicas", replicas,
			"failures", len(failures),
		)
	}
	return best, nil
}

func (r Replicated) effectiveQuorum(replicas int) int {
	majority := replicas/2 + 1
	if r.Quorum < majority {
		return majority
	}
	if r.Quorum > replicas {
		return replicas
	}
	return r.Quorum
}

// leader returns the most frequent output. Ties resolve to the
// lexicographically smallest output so the choice is stable.
func leader(tally map[string]int) (string, int) {
	outputs := make([]string, 0, len(tally))
	for output := range tally {
		outputs = append(outputs, output)
	}
	sort.Strings(outputs)
	best, votes := "", 0
	for _, output := range outputs {
		if tally[output] > votes {
			best, votes = output, tally[output]
		}
	}
	return best, votes
}

func digests(tally map[string]int) map[string]int {
	out := make(map[string]int, len(tally))
	for output, votes := range tally {
		sum := sha256.Sum256([]byte(output))
		out[hex.EncodeToString(sum[:8])] = votes
	}
	return out
}
