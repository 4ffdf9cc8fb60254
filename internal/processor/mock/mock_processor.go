// Package mock implements a document processor that serves canned results
// without any network traffic.
package mock

import (
	"context"
	"embed"
	"fmt"
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	"idpportal/internal/port"
	"idpportal/internal/result"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Fixtures lists the canned results in a stable order.
var Fixtures = []string{
	"document-processing-result-high-confidence",
	"document-processing-result-low-confidence",
	"personal-info-result-high-confidence",
	"personal-info-result-low-confidence",
	"misc-document-result-high-confidence",
	"misc-document-result-low-confidence",
}

// Processor implements port.DocumentProcessor from embedded fixtures.
type Processor struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Processor.
type Option func(*Processor)

// WithSource sets the random source used when a file name matches no fixture.
func WithSource(src rand.Source) Option {
	return func(p *Processor) { p.rng = rand.New(src) }
}

// NewProcessor creates a mock processor that waits delay before answering.
func NewProcessor(delay time.Duration, opts ...Option) *Processor {
	p := &Processor{
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit returns the fixture named after the file's base name, or a random one.
func (p *Processor) Submit(ctx context.Context, input port.SubmitInput) (*result.Node, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return Load(p.pick(input.FileName))
}

func (p *Processor) pick(fileName string) string {
	if name, ok := Match(fileName); ok {
		return name
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return Fixtures[p.rng.Intn(len(Fixtures))]
}

// Match returns the fixture whose name equals fileName without its extension.
func Match(fileName string) (string, bool) {
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	for _, name := range Fixtures {
		if name == base {
			return name, true
		}
	}
	return "", false
}

// Load parses the named fixture after checking it against the result schema.
func Load(name string) (*result.Node, error) {
	data, err := Raw(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateFixture(data); err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	return result.Parse(data)
}

// Raw returns the named fixture's JSON bytes.
func Raw(name string) ([]byte, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown fixture %q: %w", name, err)
	}
	return data, nil
}
