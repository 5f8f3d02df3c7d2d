package fingerprint

import (
	"math/rand"
	"sync"
)

// defaultUserAgents mirrors current desktop browser identities. One is
// picked at random per request so outbound traffic does not present a
// single static identity.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Provider supplies the TLS fingerprint chain and a realistic user agent
// for outbound requests. Configuration is immutable after construction and
// safe for concurrent use.
type Provider struct {
	primary string
	backups []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a provider with a primary JA3-style fingerprint and an
// ordered list of fallbacks tried when the primary is rejected.
func New(primary string, backups []string, seed int64) *Provider {
	return &Provider{
		primary: primary,
		backups: append([]string(nil), backups...),
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

// Chain returns the primary fingerprint followed by the backups, in the
// order the transport should try them. The returned slice is a copy.
func (p *Provider) Chain() []string {
	chain := make([]string, 0, 1+len(p.backups))
	chain = append(chain, p.primary)
	chain = append(chain, p.backups...)
	return chain
}

// UserAgent returns a randomly chosen realistic user-agent string.
func (p *Provider) UserAgent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return defaultUserAgents[p.rnd.Intn(len(defaultUserAgents))]
}
