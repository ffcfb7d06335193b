package distance

import (
	"context"
	"fmt"
	"strings"

	"hos-schedule-service/internal/ports"
)

// MockPair is one directed leg with a canned result, in miles and hours.
type MockPair struct {
	From, To string
	Miles    float64
	Hours    float64
}

// MockDistanceProvider answers from a fixed table. Lookups ignore case and
// extra whitespace, and fall back to the reverse direction.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[mockKey(p.From, p.To)] = ports.DistanceResult{
			DistanceMeters:  ports.MetersFromMiles(p.Miles),
			DurationSeconds: int(p.Hours * 3600),
		}
	}
	return &MockDistanceProvider{m: m}
}

func mockKey(from, to string) string {
	return strings.ToLower(normalize(from)) + "|" + strings.ToLower(normalize(to))
}

// Calls reports how many lookups were made.
func (p *MockDistanceProvider) Calls() int { return p.calls }

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.calls++

	if r, ok := p.m[mockKey(origin, destination)]; ok {
		return r, nil
	}
	if r, ok := p.m[mockKey(destination, origin)]; ok {
		return r, nil
	}

	return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
}
