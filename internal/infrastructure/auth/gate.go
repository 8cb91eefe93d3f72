package auth

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/infrastructure/metrics"
)

// Gate implements usecase.AccessGate with a static allow-list of opaque
// caller identifiers. An empty allow-list denies everyone unless open access
// is explicitly enabled.
type Gate struct {
	allowed    map[string]struct{}
	openAccess bool
	metrics    *metrics.Metrics
}

// NewGate creates a new Gate.
func NewGate(allowedCallers []string, openAccess bool, m *metrics.Metrics) *Gate {
	allowed := make(map[string]struct{}, len(allowedCallers))
	for _, id := range allowedCallers {
		id = strings.TrimSpace(id)
		if id != "" {
			allowed[id] = struct{}{}
		}
	}

	if openAccess {
		log.Warn().Msg("access gate running in open access mode, every caller is authorized")
	}

	return &Gate{
		allowed:    allowed,
		openAccess: openAccess,
		metrics:    m,
	}
}

// Authorize checks a caller against the allow-list. The denial is uniform:
// unknown callers and known-but-unlisted callers get the same error.
func (g *Gate) Authorize(callerID string) error {
	if g.openAccess {
		g.count("allowed")
		return nil
	}

	if _, ok := g.allowed[callerID]; !ok {
		log.Warn().Str("caller_id", callerID).Msg("caller denied by access gate")
		g.count("denied")
		return domain.ErrUnauthorized
	}

	g.count("allowed")
	return nil
}

func (g *Gate) count(decision string) {
	if g.metrics != nil {
		g.metrics.GateDecisions.WithLabelValues(decision).Inc()
	}
}
