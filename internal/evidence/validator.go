// Package evidence extracts citations from messages and validates their
// relevance to the conversation topic. Future-dated citations are
// rejected outright: a reference from beyond the knowledge cutoff
// cannot have been read by anyone in the conversation.
package evidence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parleyhq/parley/internal/lexicon"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/textutil"
)

const contextRadius = 50

// Validator checks citations against the seeded topic using lexical
// keyword families. It never fetches anything; all checks run on the
// message text alone.
type Validator struct {
	cutoffYear       int
	topicKeywords    []string
	offTopicFamilies map[string][]string
}

// New creates a validator for the given domain. The domain selects the
// on-topic keyword family used for mismatch detection.
func New(domain string, topics model.TopicConfig, cutoffYear int) *Validator {
	if cutoffYear <= 0 {
		cutoffYear = 2024
	}

	keywords, ok := topics.DomainKeywords[domain]
	if !ok {
		keywords = topics.DomainKeywords["general"]
	}

	return &Validator{
		cutoffYear:       cutoffYear,
		topicKeywords:    keywords,
		offTopicFamilies: topics.OffTopicFamilies,
	}
}

// ExtractCitations finds author-year and journal references in a
// message, each with surrounding context.
func (v *Validator) ExtractCitations(text string) []model.Citation {
	var citations []model.Citation

	for _, match := range lexicon.AuthorYear.FindAllStringSubmatchIndex(text, -1) {
		full := text[match[0]:match[1]]
		author := text[match[2]:match[3]]
		year := parseYear(text[match[4]:match[5]])

		citations = append(citations, model.Citation{
			Authors:  []string{author},
			Year:     year,
			FullText: full,
			Context:  contextAround(text, match[0], match[1]),
			Offset:   match[0],
		})
	}

	for _, match := range lexicon.PublishedIn.FindAllStringSubmatchIndex(text, -1) {
		full := text[match[0]:match[1]]
		journal := strings.TrimSpace(text[match[2]:match[3]])

		year := 0
		if match[4] >= 0 {
			year = parseYear(text[match[4]:match[5]])
		}

		citations = append(citations, model.Citation{
			Journal:  journal,
			Year:     year,
			FullText: full,
			Context:  contextAround(text, match[0], match[1]),
			Offset:   match[0],
		})
	}

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Offset < citations[j].Offset
	})
	return citations
}

func parseYear(s string) int {
	year := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		year = year*10 + int(c-'0')
	}
	return year
}

func contextAround(text string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

// Validate assesses one citation against a claim and the topic
func (v *Validator) Validate(citation model.Citation, claim, topic string) model.EvidenceValidation {
	// Future dates trump every other signal
	if citation.Year >= v.cutoffYear {
		return model.EvidenceValidation{
			Citation:   citation,
			Relevance:  model.EvidenceIrrelevant,
			Confidence: 0.95,
			Explanation: fmt.Sprintf("future-dated citation (%d) - likely fabricated or invalid based on knowledge cutoff",
				citation.Year),
			TopicMatchScore: 0.0,
			ContextAnalysis: "citation dated beyond knowledge cutoff",
		}
	}

	context := strings.ToLower(citation.Context)
	topicLower := strings.ToLower(topic)
	journal := strings.ToLower(citation.Journal)

	relevance, confidence, explanation := v.assessRelevance(context, topicLower, journal)

	return model.EvidenceValidation{
		Citation:        citation,
		Relevance:       relevance,
		Confidence:      confidence,
		Explanation:     explanation,
		TopicMatchScore: topicMatchScore(context, topicLower),
		ContextAnalysis: analyzeContext(context),
	}
}

// assessRelevance applies the ordered mismatch and overlap rules
func (v *Validator) assessRelevance(context, topic, journal string) (model.EvidenceRelevance, float64, string) {
	// Off-topic family studies cited against an unrelated topic
	for _, family := range v.familyNames() {
		keywords := v.offTopicFamilies[family]
		familyMatches := 0
		for _, kw := range keywords {
			if strings.Contains(context, kw) || strings.Contains(journal, kw) {
				familyMatches++
			}
		}
		if familyMatches <= 2 {
			continue
		}
		topicMatches := textutil.CountKeywords(context, v.topicKeywords)
		if topicMatches == 0 && !textutil.ContainsAny(topic, keywords) {
			return model.EvidenceIrrelevant, 0.9,
				fmt.Sprintf("%s study cited for unrelated topic. Found %d %s keywords, %d topic keywords.",
					family, familyMatches, family, topicMatches)
		}
	}

	// Word overlap between citation context and topic
	overlap := wordOverlap(topic, context)
	switch {
	case len(overlap) >= 3:
		return model.EvidenceHighlyRelevant, 0.8,
			fmt.Sprintf("strong keyword overlap: %s", strings.Join(overlap[:min(5, len(overlap))], ", "))
	case len(overlap) >= 1:
		return model.EvidenceModeratelyRelevant, 0.6,
			fmt.Sprintf("some keyword overlap: %s", strings.Join(overlap, ", "))
	}

	if textutil.CountKeywords(context, lexicon.GenericResearch) > 0 {
		return model.EvidenceTangentiallyRelated, 0.7,
			"only generic research terms found, no specific topic relevance"
	}

	return model.EvidenceIrrelevant, 0.5, "no clear relevance to topic detected"
}

func (v *Validator) familyNames() []string {
	names := make([]string, 0, len(v.offTopicFamilies))
	for name := range v.offTopicFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// wordOverlap returns the sorted shared words between topic and context
func wordOverlap(topic, context string) []string {
	topicWords := make(map[string]bool)
	for _, w := range strings.Fields(topic) {
		topicWords[w] = true
	}

	seen := make(map[string]bool)
	var shared []string
	for _, w := range strings.Fields(context) {
		if topicWords[w] && !seen[w] {
			seen[w] = true
			shared = append(shared, w)
		}
	}
	sort.Strings(shared)
	return shared
}

func topicMatchScore(context, topic string) float64 {
	topicWords := strings.Fields(topic)
	if len(topicWords) == 0 {
		return 0.0
	}

	contextWords := make(map[string]bool)
	for _, w := range strings.Fields(context) {
		contextWords[w] = true
	}

	matched := 0
	seen := make(map[string]bool)
	for _, w := range topicWords {
		if contextWords[w] && !seen[w] {
			seen[w] = true
			matched++
		}
	}

	unique := make(map[string]bool)
	for _, w := range topicWords {
		unique[w] = true
	}
	return float64(matched) / float64(len(unique))
}

// analyzeContext reports whether the citation actively supports a claim
// or is merely name-dropped.
func analyzeContext(context string) string {
	supportCount := textutil.CountKeywords(context, lexicon.SupportPhrases)
	mentionCount := textutil.CountKeywords(context, lexicon.MentionPhrases)

	switch {
	case supportCount > mentionCount:
		return "citation used as supporting evidence"
	case mentionCount > 0:
		return "citation mentioned but not clearly supporting the claim"
	default:
		return "citation context unclear"
	}
}

// ValidateMessage extracts and validates every citation in a message.
// Each citation is paired with the nearest claim-length sentence.
func (v *Validator) ValidateMessage(message, topic string) model.EvidenceReport {
	citations := v.ExtractCitations(message)

	if len(citations) == 0 {
		return model.EvidenceReport{
			QualityAssessment: "No citations found",
		}
	}

	var sentences []string
	for _, s := range strings.Split(message, ".") {
		if s = strings.TrimSpace(s); len(s) > 20 {
			sentences = append(sentences, s)
		}
	}

	report := model.EvidenceReport{
		TotalCitations: len(citations),
	}

	weighted := 0.0
	for _, citation := range citations {
		claim := nearestSentence(message, citation, sentences)
		validation := v.Validate(citation, claim, topic)
		report.Validations = append(report.Validations, validation)

		switch validation.Relevance {
		case model.EvidenceHighlyRelevant:
			report.Summary.HighlyRelevant++
		case model.EvidenceModeratelyRelevant:
			report.Summary.ModeratelyRelevant++
		case model.EvidenceTangentiallyRelated:
			report.Summary.TangentiallyRelated++
		case model.EvidenceIrrelevant:
			report.Summary.Irrelevant++
		case model.EvidenceContradictory:
			report.Summary.Contradictory++
		}
		weighted += validation.Relevance.Weight()
	}

	score := weighted / float64(len(citations))
	if score < 0 {
		score = 0
	}
	report.QualityScore = score
	report.QualityAssessment = assessQuality(score, report.Summary, len(citations))

	return report
}

// nearestSentence picks the claim closest to the citation's position
func nearestSentence(message string, citation model.Citation, sentences []string) string {
	best := ""
	bestDistance := -1

	for _, sentence := range sentences {
		pos := strings.Index(message, sentence)
		if pos < 0 {
			continue
		}
		distance := citation.Offset - pos
		if distance < 0 {
			distance = -distance
		}
		if bestDistance < 0 || distance < bestDistance {
			bestDistance = distance
			best = sentence
		}
	}
	return best
}

func assessQuality(score float64, summary model.RelevanceSummary, total int) string {
	if float64(summary.Irrelevant)/float64(total) > 0.5 {
		return fmt.Sprintf("Poor evidence quality: %d/%d citations are irrelevant to the topic",
			summary.Irrelevant, total)
	}
	switch {
	case score >= 0.8:
		return "High quality evidence with relevant citations"
	case score >= 0.6:
		return "Moderate evidence quality with some relevant citations"
	case score >= 0.4:
		return "Low evidence quality with limited relevant citations"
	default:
		return "Very poor evidence quality with mostly irrelevant citations"
	}
}
