// Package coherence monitors a conversation for topic drift against a
// seeded topic and emits refocusing guidance when drift persists.
package coherence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/textutil"
)

// historyEntry records one analyzed message for evolution tracking
type historyEntry struct {
	speaker     string
	relevance   model.TopicRelevance
	families    []string
	coreMatches int
}

// Monitor tracks topic coherence for one conversation. The drift
// counter is hysteretic: drifting messages raise it, on-topic messages
// lower it, so a single stray message never triggers intervention.
type Monitor struct {
	topic          string
	coreKeywords   []string
	driftFamilies  map[string][]string
	adjacent       map[string]bool
	driftThreshold int

	driftCount int
	history    []historyEntry
}

// New creates a monitor for the given topic. The domain selects the
// core keyword family; unknown domains fall back to "general".
func New(topic, domain string, topics model.TopicConfig, driftThreshold int) *Monitor {
	if driftThreshold <= 0 {
		driftThreshold = 2
	}

	core, ok := topics.DomainKeywords[domain]
	if !ok {
		core = topics.DomainKeywords["general"]
	}

	adjacent := make(map[string]bool, len(topics.AdjacentFamilies))
	for _, name := range topics.AdjacentFamilies {
		adjacent[name] = true
	}

	return &Monitor{
		topic:          strings.ToLower(topic),
		coreKeywords:   core,
		driftFamilies:  topics.DriftFamilies,
		adjacent:       adjacent,
		driftThreshold: driftThreshold,
	}
}

// Analyze scores one message for topic coherence and updates the drift
// counter.
func (m *Monitor) Analyze(message, speaker string) model.TopicAnalysis {
	coreMatches := textutil.CountKeywords(message, m.coreKeywords)

	var familiesFound []string
	driftMatches := 0
	for _, family := range m.familyNames() {
		if n := textutil.CountKeywords(message, m.driftFamilies[family]); n > 0 {
			familiesFound = append(familiesFound, family)
			driftMatches += n
		}
	}

	relevance, confidence, explanation, redirect := m.classify(
		coreMatches, driftMatches, familiesFound, textutil.WordCount(message))

	if relevance.Drifting() {
		m.driftCount++
	} else if relevance == model.HighlyRelevant || relevance == model.ModeratelyRelevant {
		if m.driftCount > 0 {
			m.driftCount--
		}
	}

	m.history = append(m.history, historyEntry{
		speaker:     speaker,
		relevance:   relevance,
		families:    familiesFound,
		coreMatches: coreMatches,
	})

	segment := message
	if len(segment) > 200 {
		segment = segment[:200] + "..."
	}

	return model.TopicAnalysis{
		Segment:           segment,
		DriftFamilies:     familiesFound,
		Relevance:         relevance,
		Confidence:        confidence,
		Explanation:       explanation,
		SuggestedRedirect: redirect,
		CoreMatches:       coreMatches,
		DriftMatches:      driftMatches,
	}
}

// familyNames returns drift family names sorted for deterministic output
func (m *Monitor) familyNames() []string {
	names := make([]string, 0, len(m.driftFamilies))
	for name := range m.driftFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// classify applies the ordered relevance rules. Densities normalize by
// message length so long messages do not look drifted just for
// mentioning a stray keyword.
func (m *Monitor) classify(coreMatches, driftMatches int, families []string,
	wordCount int) (model.TopicRelevance, float64, string, string) {

	norm := float64(wordCount) / 10
	if norm < 1 {
		norm = 1
	}
	coreDensity := float64(coreMatches) / norm
	driftDensity := float64(driftMatches) / norm

	familyList := strings.Join(families, ", ")

	if coreMatches == 0 && driftMatches >= 3 {
		return model.CompletelyUnrelated, 0.9,
			fmt.Sprintf("no core topic keywords found, but %d drift topic matches in: %s", driftMatches, familyList),
			fmt.Sprintf("Please refocus on the original topic: %s", m.topic)
	}

	if driftDensity > coreDensity && driftMatches >= 5 {
		return model.TopicDrift, 0.8,
			fmt.Sprintf("significant topic drift detected. Core matches: %d, drift matches: %d in: %s",
				coreMatches, driftMatches, familyList),
			fmt.Sprintf("While %s may be interesting, let's return to discussing %s", familyList, m.topic)
	}

	if coreMatches >= 3 && driftMatches <= 2 {
		return model.HighlyRelevant, 0.9,
			fmt.Sprintf("strong focus on core topic with %d relevant keywords", coreMatches), ""
	}

	if coreMatches >= 1 && driftMatches <= coreMatches {
		return model.ModeratelyRelevant, 0.7,
			fmt.Sprintf("moderate relevance with %d core keywords and %d drift matches", coreMatches, driftMatches), ""
	}

	if coreMatches >= 1 || (driftMatches > 0 && m.anyAdjacent(families)) {
		return model.TangentiallyRelated, 0.6,
			fmt.Sprintf("tangentially related with %d core matches and focus on: %s", coreMatches, familyList),
			fmt.Sprintf("Consider connecting %s back to the main discussion of %s", familyList, m.topic)
	}

	return model.TopicDrift, 0.7,
		fmt.Sprintf("topic drift detected with %d matches in: %s", driftMatches, familyList),
		fmt.Sprintf("Let's refocus on the core question about %s", m.topic)
}

func (m *Monitor) anyAdjacent(families []string) bool {
	for _, f := range families {
		if m.adjacent[f] {
			return true
		}
	}
	return false
}

// DriftCount exposes the current hysteresis counter
func (m *Monitor) DriftCount() int {
	return m.driftCount
}

// ShouldIntervene reports whether persistent drift warrants an
// intervention message.
func (m *Monitor) ShouldIntervene() (bool, string) {
	if m.driftCount < m.driftThreshold {
		return false, ""
	}

	recent := m.history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	counts := make(map[string]int)
	for _, entry := range recent {
		for _, family := range entry.families {
			counts[family]++
		}
	}

	mostCommon := "unrelated topics"
	best := 0
	for _, family := range sortedKeys(counts) {
		if counts[family] > best {
			best = counts[family]
			mostCommon = family
		}
	}

	return true, fmt.Sprintf(
		"Significant topic drift detected (%d instances). Recent focus on: %s. Please return to discussing %s.",
		m.driftCount, mostCommon, m.topic)
}

// EvolutionSummary describes how the topic developed over the analyzed
// messages.
type EvolutionSummary struct {
	TotalMessages         int            `json:"total_messages_analyzed"`
	DriftCount            int            `json:"current_drift_count"`
	RelevanceDistribution map[string]int `json:"relevance_distribution"`
	TopDriftFamilies      []FamilyCount  `json:"most_discussed_drift_topics"`
	InterventionNeeded    bool           `json:"drift_intervention_needed"`
}

// FamilyCount pairs a drift family with how often it appeared
type FamilyCount struct {
	Family string `json:"family"`
	Count  int    `json:"count"`
}

// EvolutionSummary summarizes topic evolution across the conversation
func (m *Monitor) EvolutionSummary() EvolutionSummary {
	summary := EvolutionSummary{
		TotalMessages:         len(m.history),
		DriftCount:            m.driftCount,
		RelevanceDistribution: make(map[string]int),
		InterventionNeeded:    m.driftCount >= m.driftThreshold,
	}

	counts := make(map[string]int)
	for _, entry := range m.history {
		summary.RelevanceDistribution[entry.relevance.String()]++
		for _, family := range entry.families {
			counts[family]++
		}
	}

	for _, family := range sortedKeys(counts) {
		summary.TopDriftFamilies = append(summary.TopDriftFamilies, FamilyCount{family, counts[family]})
	}
	sort.SliceStable(summary.TopDriftFamilies, func(i, j int) bool {
		return summary.TopDriftFamilies[i].Count > summary.TopDriftFamilies[j].Count
	})
	if len(summary.TopDriftFamilies) > 3 {
		summary.TopDriftFamilies = summary.TopDriftFamilies[:3]
	}

	return summary
}

// RefocusPrompt renders the full intervention text for interpolation
// into the next generation request, or "" when no intervention is due.
func (m *Monitor) RefocusPrompt() string {
	shouldIntervene, intervention := m.ShouldIntervene()
	if !shouldIntervene {
		return ""
	}

	summary := m.EvolutionSummary()
	families := make([]string, 0, len(summary.TopDriftFamilies))
	for _, fc := range summary.TopDriftFamilies {
		families = append(families, fc.Family)
	}

	var b strings.Builder
	b.WriteString("TOPIC COHERENCE WARNING:\n")
	b.WriteString(intervention)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Recent drift topics: %s\n", strings.Join(families, ", "))
	fmt.Fprintf(&b, "Core topic: %s\n\n", m.topic)
	b.WriteString("REFOCUS INSTRUCTIONS:\n")
	b.WriteString("- Acknowledge any insights from tangential topics briefly\n")
	fmt.Fprintf(&b, "- Explicitly connect discussion back to %s\n", m.topic)
	b.WriteString("- Ask questions that center on the core topic\n")
	b.WriteString("- Avoid introducing new unrelated subjects\n")
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
