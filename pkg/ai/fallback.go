package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 10 * time.Second

var errMalformed = errors.New("malformed provider response")

// FallbackAdvisor makes one attempt against the provider under a timeout and
// answers with the canned defaults whenever that attempt does not produce a
// usable result. It never returns an error.
type FallbackAdvisor struct {
	provider Advisor
	timeout  time.Duration
}

// NewFallbackAdvisor wraps provider. A nil provider always yields the defaults.
func NewFallbackAdvisor(provider Advisor, timeout time.Duration) *FallbackAdvisor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &FallbackAdvisor{
		provider: provider,
		timeout:  timeout,
	}
}

// GetAdvice implements Advisor
func (f *FallbackAdvisor) GetAdvice(ctx context.Context, remaining int) (Advice, error) {
	if f.provider == nil {
		return DefaultAdvice(), nil
	}

	advice, err := attempt(ctx, f.timeout, "advice", func(ctx context.Context) (Advice, error) {
		a, err := f.provider.GetAdvice(ctx, remaining)
		if err != nil {
			return Advice{}, err
		}
		a.Advice = strings.TrimSpace(a.Advice)
		a.NPCName = strings.TrimSpace(a.NPCName)
		if a.Advice == "" {
			return Advice{}, errMalformed
		}
		if a.NPCName == "" {
			a.NPCName = AssistantName
		}
		return a, nil
	})
	if err != nil {
		return DefaultAdvice(), nil
	}
	return advice, nil
}

// SuggestTasks implements Advisor
func (f *FallbackAdvisor) SuggestTasks(ctx context.Context, tasks []string) ([]string, error) {
	if f.provider == nil {
		return DefaultSuggestions(), nil
	}

	suggestions, err := attempt(ctx, f.timeout, "suggestions", func(ctx context.Context) ([]string, error) {
		s, err := f.provider.SuggestTasks(ctx, tasks)
		if err != nil {
			return nil, err
		}
		if len(s) == 0 {
			return nil, errMalformed
		}
		out := make([]string, 0, len(s))
		for _, item := range s {
			item = strings.TrimSpace(item)
			if item == "" {
				return nil, errMalformed
			}
			out = append(out, item)
		}
		return out, nil
	})
	if err != nil {
		return DefaultSuggestions(), nil
	}
	return suggestions, nil
}

// GenerateMemberRole implements Advisor
func (f *FallbackAdvisor) GenerateMemberRole(ctx context.Context, email string) (MemberRole, error) {
	if f.provider == nil {
		return DefaultMemberRole(), nil
	}

	role, err := attempt(ctx, f.timeout, "member role", func(ctx context.Context) (MemberRole, error) {
		r, err := f.provider.GenerateMemberRole(ctx, email)
		if err != nil {
			return MemberRole{}, err
		}
		r.Role = strings.TrimSpace(r.Role)
		if r.Role == "" || r.StartingLevel < 1 || r.StartingLevel > 5 {
			return MemberRole{}, errMalformed
		}
		return r, nil
	})
	if err != nil {
		return DefaultMemberRole(), nil
	}
	return role, nil
}

// attempt runs call once with a deadline, turning panics into errors and
// logging why a fallback is about to be used.
func attempt[T any](ctx context.Context, timeout time.Duration, what string, call func(context.Context) (T, error)) (result T, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
		if err != nil {
			switch {
			case isConnectionError(err):
				log.Warn().Err(err).Msgf("[AI] Provider unreachable for %s, using fallback", what)
			case isQuotaError(err):
				log.Warn().Err(err).Msgf("[AI] Provider quota exhausted for %s, using fallback", what)
			default:
				log.Warn().Err(err).Msgf("[AI] Provider failed for %s, using fallback", what)
			}
		}
	}()

	return call(ctx)
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return containsAny(err.Error(), "connection refused", "no such host", "network is unreachable", "connection reset", "timeout", "dial tcp", "EOF")
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err.Error(), "429", "quota", "rate limit", "too many requests", "resource exhausted")
}

func containsAny(s string, indicators ...string) bool {
	s = strings.ToLower(s)
	for _, indicator := range indicators {
		if strings.Contains(s, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}
