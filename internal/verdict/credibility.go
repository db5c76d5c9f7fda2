package verdict

import "strings"

// DefaultTrustedDomains scores well-known outlets. Unknown domains fall back
// to TLD defaults. Injected at construction so deployments can tune the
// table without a rebuild.
var DefaultTrustedDomains = map[string]float64{
	"reuters.com":        0.95,
	"apnews.com":         0.95,
	"bbc.com":            0.92,
	"npr.org":            0.90,
	"nytimes.com":        0.88,
	"washingtonpost.com": 0.88,
	"theguardian.com":    0.87,
	"wsj.com":            0.87,
	"cnn.com":            0.85,
	"bloomberg.com":      0.85,
	"factcheck.org":      0.98,
	"snopes.com":         0.95,
	"politifact.com":     0.96,
	"who.int":            0.97,
	"cdc.gov":            0.97,
	"nature.com":         0.96,
	"science.org":        0.96,
}

// TLD fallback credibility.
const (
	credGov     = 0.90
	credEdu     = 0.85
	credOrg     = 0.70
	credDefault = 0.60
)

// credibility scores a domain against the trusted table, then by TLD.
func (e *Engine) credibility(domain string) float64 {
	for trusted, score := range e.trustedDomains {
		if strings.Contains(domain, trusted) {
			return score
		}
	}
	switch {
	case strings.HasSuffix(domain, ".gov"):
		return credGov
	case strings.HasSuffix(domain, ".edu"):
		return credEdu
	case strings.HasSuffix(domain, ".org"):
		return credOrg
	default:
		return credDefault
	}
}
