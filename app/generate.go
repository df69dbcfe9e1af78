// Package app provides application services orchestrating domain logic and
// ports. Services are transport-agnostic; HTTP mapping lives in web/.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zackdaniels09/autopitch-ai/adapters/metrics"
	"github.com/zackdaniels09/autopitch-ai/domain/draft"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
	"github.com/zackdaniels09/autopitch-ai/domain/prompt"
	"github.com/zackdaniels09/autopitch-ai/domain/quota"
	"github.com/zackdaniels09/autopitch-ai/domain/ratelimit"
	"github.com/zackdaniels09/autopitch-ai/ports"
)

// GenerateConfig holds the limits applied to generation requests.
type GenerateConfig struct {
	Quota quota.Config
	Burst ratelimit.Config
}

// GenerateRequest is one generation attempt by an identified caller.
type GenerateRequest struct {
	RemoteIP       string
	Plan           entitlement.Plan
	ChallengeToken string
	Input          prompt.Input
}

// GenerateResult carries the drafts and remaining free-tier allowance.
type GenerateResult struct {
	Drafts    []draft.Draft
	Plan      entitlement.Plan
	Remaining int // -1 for premium
}

// GenerateService runs the full generation pipeline: burst limit, input
// validation, daily quota, challenge verification, vendor call, recovery.
type GenerateService struct {
	quotas    ports.QuotaStore
	rates     ports.RateLimitStore
	completer ports.Completer
	challenge ports.ChallengeVerifier // nil disables challenge enforcement
	clock     ports.Clock
	cfg       GenerateConfig
	metrics   *metrics.Collector // nil disables metrics
	logger    zerolog.Logger
}

// GenerateDeps contains dependencies for the generate service.
type GenerateDeps struct {
	Quotas    ports.QuotaStore
	Rates     ports.RateLimitStore
	Completer ports.Completer
	Challenge ports.ChallengeVerifier
	Clock     ports.Clock
	Config    GenerateConfig
	Metrics   *metrics.Collector
	Logger    zerolog.Logger
}

// NewGenerateService creates a new generate service.
func NewGenerateService(deps GenerateDeps) *GenerateService {
	return &GenerateService{
		quotas:    deps.Quotas,
		rates:     deps.Rates,
		completer: deps.Completer,
		challenge: deps.Challenge,
		clock:     deps.Clock,
		cfg:       deps.Config,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// Generate handles one generation request end to end.
func (s *GenerateService) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	now := s.clock.Now()

	// Burst window applies to every tier before anything else runs.
	burstState, err := s.rates.Get(ctx, req.RemoteIP)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load burst state: %w", err)
	}
	burstResult, burstState := ratelimit.Check(burstState, s.cfg.Burst, now)
	if err := s.rates.Set(ctx, req.RemoteIP, burstState); err != nil {
		return GenerateResult{}, fmt.Errorf("save burst state: %w", err)
	}
	if !burstResult.Allowed {
		s.countBurstLimited()
		s.logger.Warn().Str("ip", req.RemoteIP).Msg("burst limit exceeded")
		return GenerateResult{}, ErrBurstLimited
	}

	// Validation happens before any vendor call or quota accounting.
	input, err := prompt.Normalize(req.Input, req.Plan)
	if err != nil {
		return GenerateResult{}, err
	}

	dayKey := quota.DayKey(req.RemoteIP, now)
	dayState, err := s.quotas.Get(ctx, dayKey)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load quota state: %w", err)
	}

	quotaResult, newDayState := quota.Check(dayState, s.cfg.Quota, req.Plan, input.Variants)
	if !quotaResult.Allowed {
		// Persist the exceeded counter for the day aggregate.
		if err := s.quotas.Set(ctx, dayKey, newDayState); err != nil {
			return GenerateResult{}, fmt.Errorf("save quota state: %w", err)
		}
		s.countQuotaExceeded()
		s.logger.Info().Str("ip", req.RemoteIP).Int("calls", dayState.Calls).Msg("daily quota exceeded")
		return GenerateResult{}, ErrDailyQuotaExceeded
	}

	// A failed challenge must not consume quota, so verify before persisting.
	if quotaResult.ChallengeRequired && s.challenge != nil {
		if req.ChallengeToken == "" {
			s.countChallengeFailure()
			return GenerateResult{}, ErrChallengeRequired
		}
		if err := s.challenge.Verify(ctx, req.ChallengeToken, req.RemoteIP); err != nil {
			s.countChallengeFailure()
			s.logger.Warn().Err(err).Str("ip", req.RemoteIP).Msg("challenge verification failed")
			return GenerateResult{}, ErrChallengeFailed
		}
	}

	if err := s.quotas.Set(ctx, dayKey, newDayState); err != nil {
		return GenerateResult{}, fmt.Errorf("save quota state: %w", err)
	}

	composed := prompt.Compose(input)
	start := s.clock.Now()
	texts, err := s.completer.Complete(ctx, composed, input.Variants)
	s.observeCompletion(s.clock.Now().Sub(start).Seconds())
	if err != nil {
		s.countCompletionError()
		s.logger.Error().Err(err).Msg("completion vendor call failed")
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// Each candidate may carry one or several drafts; flatten and cap at
	// the requested variant count.
	var drafts []draft.Draft
	for _, text := range texts {
		drafts = append(drafts, draft.Recover(text)...)
	}
	if len(drafts) > input.Variants {
		drafts = drafts[:input.Variants]
	}

	s.countDrafts(req.Plan, len(drafts))
	s.addSpend(newDayState.EstCostMicro - dayState.EstCostMicro)

	return GenerateResult{
		Drafts:    drafts,
		Plan:      req.Plan,
		Remaining: quotaResult.Remaining,
	}, nil
}

// Remaining reports how many free-tier calls an identity has left today
// without consuming any. Premium plans report -1.
func (s *GenerateService) Remaining(ctx context.Context, remoteIP string, plan entitlement.Plan) (int, error) {
	if plan.IsPremium() {
		return -1, nil
	}
	state, err := s.quotas.Get(ctx, quota.DayKey(remoteIP, s.clock.Now()))
	if err != nil {
		return 0, fmt.Errorf("load quota state: %w", err)
	}
	remaining := s.cfg.Quota.DailyLimit - state.Calls
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// DayStats reports the aggregate counters for the current UTC day.
func (s *GenerateService) DayStats(ctx context.Context) (quota.Aggregate, error) {
	return s.quotas.Aggregate(ctx, quota.Day(s.clock.Now()))
}

// Limits exposes the configured limits (for the health endpoint).
func (s *GenerateService) Limits() GenerateConfig {
	return s.cfg
}

func (s *GenerateService) countBurstLimited() {
	if s.metrics != nil {
		s.metrics.BurstLimited.Inc()
	}
}

func (s *GenerateService) countQuotaExceeded() {
	if s.metrics != nil {
		s.metrics.QuotaExceeded.Inc()
	}
}

func (s *GenerateService) countChallengeFailure() {
	if s.metrics != nil {
		s.metrics.ChallengeFailures.Inc()
	}
}

func (s *GenerateService) countCompletionError() {
	if s.metrics != nil {
		s.metrics.CompletionErrors.Inc()
	}
}

func (s *GenerateService) observeCompletion(seconds float64) {
	if s.metrics != nil {
		s.metrics.CompletionDuration.Observe(seconds)
	}
}

func (s *GenerateService) countDrafts(plan entitlement.Plan, n int) {
	if s.metrics != nil {
		s.metrics.DraftsGenerated.WithLabelValues(string(plan)).Add(float64(n))
	}
}

func (s *GenerateService) addSpend(micro int64) {
	if s.metrics != nil && micro > 0 {
		s.metrics.EstimatedSpend.Add(float64(micro))
	}
}
