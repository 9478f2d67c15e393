// Package sources classifies citation source URLs into credibility
// tiers. Classification is purely lexical over the host name; nothing
// is fetched.
package sources

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/parleyhq/parley/internal/model"
)

// Tier is a source credibility level. Lower is more credible.
type Tier int

const (
	Tier1 Tier = iota + 1 // Academic journals, government, top universities
	Tier2                 // Reputable mainstream and science press
	Tier3                 // Generally reliable, verify independently
	Tier4                 // Opinion sites and blogs
	Tier5                 // Known unreliable sources
)

func (t Tier) String() string {
	switch t {
	case Tier1:
		return "tier_1"
	case Tier2:
		return "tier_2"
	case Tier3:
		return "tier_3"
	case Tier4:
		return "tier_4"
	case Tier5:
		return "tier_5"
	default:
		return "unknown"
	}
}

// Score maps the tier to a base credibility value in [0,1]
func (t Tier) Score() float64 {
	switch t {
	case Tier1:
		return 1.0
	case Tier2:
		return 0.8
	case Tier3:
		return 0.6
	case Tier4:
		return 0.4
	default:
		return 0.0
	}
}

// Verifier classifies source URLs by domain tier
type Verifier struct {
	tiers          map[Tier]map[string]bool
	topicPreferred map[string][]string
}

// New builds a verifier from configured tier domain lists
func New(cfg model.SourcesConfig) *Verifier {
	v := &Verifier{
		tiers:          make(map[Tier]map[string]bool),
		topicPreferred: cfg.TopicPreferred,
	}

	nameToTier := map[string]Tier{
		"tier_1": Tier1, "tier_2": Tier2, "tier_3": Tier3, "tier_4": Tier4, "tier_5": Tier5,
	}
	for name, tier := range nameToTier {
		v.tiers[tier] = make(map[string]bool)
		for _, domain := range cfg.TierDomains[name] {
			v.tiers[tier][strings.ToLower(domain)] = true
		}
	}

	return v
}

// Classify determines the credibility tier of a URL. Unknown domains
// default to Tier4; bare .gov and .edu hosts are promoted to Tier1.
func (v *Verifier) Classify(rawURL string) Tier {
	host := hostOf(rawURL)
	if host == "" {
		return Tier4
	}

	for tier := Tier1; tier <= Tier5; tier++ {
		domains := v.tiers[tier]
		if domains[host] {
			return tier
		}
		for domain := range domains {
			if strings.HasSuffix(host, "."+domain) {
				return tier
			}
		}
	}

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") {
		return Tier1
	}

	return Tier4
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.TrimPrefix(host, "www.")
}

// IsReputable reports whether a URL meets the minimum tier
func (v *Verifier) IsReputable(rawURL string, minTier Tier) bool {
	return v.Classify(rawURL) <= minTier
}

// PreferredDomains returns the configured preferred source domains for
// a topic, falling back through partial matches to "general".
func (v *Verifier) PreferredDomains(topic string) []string {
	lower := strings.ToLower(topic)

	if domains, ok := v.topicPreferred[lower]; ok {
		return domains
	}

	keys := make([]string, 0, len(v.topicPreferred))
	for key := range v.topicPreferred {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "general" {
			continue
		}
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return v.topicPreferred[key]
		}
	}

	return v.topicPreferred["general"]
}

// Evaluate assesses a single source URL
func (v *Verifier) Evaluate(rawURL string, hasDate, hasAuthor bool) model.SourceQuality {
	tier := v.Classify(rawURL)

	score := tier.Score()
	if hasDate {
		score += 0.05
	}
	if hasAuthor {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}

	quality := model.SourceQuality{
		URL:                  rawURL,
		Tier:                 tier.String(),
		IsAcademic:           tier == Tier1,
		IsReputable:          tier == Tier1 || tier == Tier2,
		RequiresVerification: tier == Tier3 || tier == Tier4,
		CredibilityScore:     score,
	}

	if tier == Tier4 {
		quality.Warnings = append(quality.Warnings, "Opinion/blog content - verify claims independently")
	}
	if tier == Tier5 {
		quality.Warnings = append(quality.Warnings, "Known unreliable source - do not use")
	}
	if !hasDate {
		quality.Warnings = append(quality.Warnings, "No publication date available")
	}

	return quality
}

// urlPattern matches http(s) URLs cited inline in message text
var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// yearPattern is a loose publication-year hint near a cited URL
var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// ExtractURLs returns the http(s) URLs cited in a message, with
// trailing punctuation trimmed.
func ExtractURLs(text string) []string {
	var urls []string
	for _, raw := range urlPattern.FindAllString(text, -1) {
		if trimmed := strings.TrimRight(raw, ".,;:!"); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// AssessMessage evaluates every URL cited in a message. Date and
// author hints are read from the text surrounding each URL.
func (v *Verifier) AssessMessage(message string) []model.SourceQuality {
	var assessments []model.SourceQuality

	for _, match := range urlPattern.FindAllStringIndex(message, -1) {
		rawURL := strings.TrimRight(message[match[0]:match[1]], ".,;:!")
		if rawURL == "" {
			continue
		}

		context := surrounding(message, match[0], match[1], 80)
		hasDate := yearPattern.MatchString(context)
		hasAuthor := strings.Contains(strings.ToLower(context), "et al")

		assessments = append(assessments, v.Evaluate(rawURL, hasDate, hasAuthor))
	}

	return assessments
}

func surrounding(text string, start, end, radius int) string {
	lo := max(0, start-radius)
	hi := min(len(text), end+radius)
	return text[lo:hi]
}
