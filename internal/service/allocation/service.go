package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/tracing"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

type Service struct {
	config   Config
	recorder domain.AllocationRecorder
	metrics  *metrics.AllocationMetrics
	now      func() time.Time
}

func NewService(config Config, recorder domain.AllocationRecorder, allocationMetrics *metrics.AllocationMetrics) *Service {
	return &Service{
		config:   config,
		recorder: recorder,
		metrics:  allocationMetrics,
		now:      time.Now,
	}
}

func (s *Service) Config() Config {
	return s.config
}

// Allocate solves the allocation program for problem. Invalid input is
// returned before solving; a solve without an optimal allocation returns a
// *SolveError.
func (s *Service) Allocate(ctx context.Context, problem Problem) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := problem.Validate(); err != nil {
		slog.WarnContext(ctx, "rejected allocation problem",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	runID := uuid.NewString()

	buildCtx, buildSpan := tracing.StartModelBuildSpan(ctx, len(problem.Demand), len(problem.Constraints))
	model, err := BuildModel(s.config, problem)
	if err != nil {
		buildSpan.RecordError(err)
		buildSpan.SetStatus(codes.Error, err.Error())
		buildSpan.End()
		slog.ErrorContext(buildCtx, "failed to build allocation model",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	buildSpan.End()

	solveCtx := ctx
	if s.config.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, s.config.SolveTimeout)
		defer cancel()
	}

	solveCtx, span := tracing.StartSolveSpan(solveCtx, model.NumVariables(), len(model.Rows()))
	defer span.End()

	start := s.now()
	solution, err := ilp.Solve(solveCtx, model, ilp.Options{MaxNodes: s.config.MaxNodes})
	duration := s.now().Sub(start)

	status := ilp.StatusSolverFailure
	nodes := 0
	if solution != nil {
		status = solution.Status
		nodes = solution.Nodes
	}
	span.SetAttributes(
		attribute.String("ilp.status", string(status)),
		attribute.Int("ilp.nodes", nodes),
	)
	if s.metrics != nil {
		s.metrics.RecordSolve(ctx, string(status), duration, nodes)
	}

	if err != nil {
		if status == ilp.StatusOptimal {
			status = ilp.StatusSolverFailure
		}
		solveErr := &SolveError{Status: status, Nodes: nodes, Err: err}
		span.RecordError(solveErr)
		span.SetStatus(codes.Error, solveErr.Error())
		slog.WarnContext(ctx, "allocation solve did not reach an optimum",
			slog.String("run_id", runID),
			slog.String("status", string(status)),
			slog.Int("nodes", nodes),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, solveErr
	}

	if violated := model.Violations(solution.Values); len(violated) > 0 {
		solveErr := &SolveError{
			Status: ilp.StatusSolverFailure,
			Nodes:  nodes,
			Err:    fmt.Errorf("%w: solution violates %v", ilp.ErrSolverFailure, violated),
		}
		span.RecordError(solveErr)
		span.SetStatus(codes.Error, solveErr.Error())
		return nil, solveErr
	}

	result := &Result{
		RunID:       runID,
		Status:      status,
		Allocations: make(map[string]int, len(problem.Demand)),
		Objective:   solution.Objective,
		Nodes:       nodes,
		Duration:    duration,
	}
	for j, inst := range model.Variables() {
		result.Allocations[inst] = solution.Values[j]
	}

	if s.metrics != nil {
		s.metrics.RecordUnitsAllocated(ctx, result.Total())
	}

	slog.InfoContext(ctx, "allocation solved",
		slog.String("run_id", runID),
		slog.Int("institutions", len(result.Allocations)),
		slog.Int("allocated", result.Total()),
		slog.Float64("objective", result.Objective),
		slog.Int("nodes", nodes),
		slog.Duration("duration", duration),
	)

	s.record(ctx, problem, result)

	return result, nil
}

func (s *Service) record(ctx context.Context, problem Problem, result *Result) {
	if s.recorder == nil {
		return
	}

	recordedAt := s.now()
	records := make([]domain.AllocationRecord, 0, len(result.Allocations))
	for _, inst := range sortedInstitutions(problem.Demand) {
		records = append(records, domain.AllocationRecord{
			RunID:       result.RunID,
			RecordedAt:  recordedAt,
			Status:      string(result.Status),
			Objective:   result.Objective,
			Institution: inst,
			Demand:      problem.Demand[inst],
			Capacity:    problem.Capacity[inst],
			Allocated:   result.Allocations[inst],
		})
	}

	if err := s.recorder.RecordAllocation(ctx, records); err != nil {
		if s.metrics != nil {
			s.metrics.RecordRecordingFailure(ctx)
		}
		slog.WarnContext(ctx, "failed to record allocation",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
	}
}

// IsSolveStatus reports whether err is a *SolveError with the given status.
func IsSolveStatus(err error, status ilp.Status) bool {
	var solveErr *SolveError
	return errors.As(err, &solveErr) && solveErr.Status == status
}
