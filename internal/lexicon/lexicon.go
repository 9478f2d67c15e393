// Package lexicon holds the static phrase and pattern tables shared by
// the analytic components. Everything here is immutable after package
// init; classifiers hold references and never recompile per call.
package lexicon

import "regexp"

// ClaimLeads introduce an explicit claim
var ClaimLeads = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i claim that`),
	regexp.MustCompile(`(?i)i argue that`),
	regexp.MustCompile(`(?i)my position is`),
	regexp.MustCompile(`(?i)i believe`),
	regexp.MustCompile(`(?i)it's clear that`),
	regexp.MustCompile(`(?i)the evidence shows`),
	regexp.MustCompile(`(?i)research shows`),
	regexp.MustCompile(`(?i)studies indicate`),
	regexp.MustCompile(`(?i)research demonstrates`),
}

// StrongAssertions mark a sentence as a claim even without a lead phrase
var StrongAssertions = []string{
	"must", "will", "cannot", "always", "never", "clearly", "obviously",
}

// ResponseAgreement marks agreement with an earlier claim
var ResponseAgreement = []string{
	"i agree", "you're right", "that's correct", "i accept", "fair point", "i concede",
}

// ResponseChallenge marks a challenge to an earlier claim
var ResponseChallenge = []string{
	"i challenge", "i disagree", "that's incorrect", "i question", "i dispute", "but what about",
}

// EvidenceMarkers hint that a message carries supporting material
var EvidenceMarkers = []string{
	"study", "research", "data", "evidence", "according to", "shows that",
}

// QuestionBucket maps a question to a finite pattern bucket. Rules are
// ordered; the first match wins.
type QuestionBucket struct {
	Pattern *regexp.Regexp
	Name    string
}

// QuestionBuckets classify repeated question types for stagnation
// detection.
var QuestionBuckets = []QuestionBucket{
	{regexp.MustCompile(`how do you (know|plan|propose|think|suggest)`), "how_do_you"},
	{regexp.MustCompile(`what (evidence|studies|data|research)`), "what_evidence"},
	{regexp.MustCompile(`could you (provide|clarify|explain|elaborate)`), "could_you_provide"},
	{regexp.MustCompile(`can you (share|provide|explain|clarify)`), "can_you_share"},
	{regexp.MustCompile(`what (specific|concrete|practical)`), "what_specific"},
	{regexp.MustCompile(`how (feasible|practical|realistic)`), "how_feasible"},
	{regexp.MustCompile(`what (steps|approach|methodology)`), "what_methodology"},
	{regexp.MustCompile(`(are there|do you have) (any|specific) (examples|cases|studies)`), "examples_request"},
	{regexp.MustCompile(`what makes you (confident|think|believe)`), "what_makes_you"},
	{regexp.MustCompile(`how will you (address|handle|ensure)`), "how_will_you"},
	{regexp.MustCompile(`what (potential|edge) (cases|problems|issues)`), "what_problems"},
}

// Agreement classifier categories. Counted as lowercase substring hits.

var Disagreement = []string{
	"i disagree", "i don't agree", "i cannot accept",
	"this is wrong", "this is incorrect", "i reject",
	"i have serious concerns", "i must object",
	"i strongly disagree", "absolutely not",
}

var Reservation = []string{
	"however", "but", "i have concerns", "i'm concerned",
	"i have reservations", "i must be honest", "i have doubts",
	"this concerns me", "i question", "i challenge",
	"i'm skeptical", "i'm not convinced", "i'm not sure",
	"let me challenge", "i need more evidence",
}

var Continuation = []string{
	"let's explore", "let's examine", "let's delve deeper",
	"i'd like to explore", "could you provide", "how do you know",
	"what evidence", "can you clarify", "could you explain",
	"looking forward to", "i need more", "let's discuss further",
}

// QuestionPatterns signal engagement rather than agreement
var QuestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\?`),
	regexp.MustCompile(`how do`),
	regexp.MustCompile(`what if`),
	regexp.MustCompile(`why`),
	regexp.MustCompile(`when`),
	regexp.MustCompile(`where`),
	regexp.MustCompile(`could you`),
	regexp.MustCompile(`can you`),
	regexp.MustCompile(`would you`),
	regexp.MustCompile(`do you think`),
}

var AgreementPhrases = []string{
	"i agree", "you're right", "that's correct", "exactly",
	"i'm convinced", "you've convinced me", "i accept",
	"that makes sense", "i see your point", "you're absolutely right",
	"i concede", "i stand corrected", "that's a good point",
	"i'm persuaded", "you've changed my mind",
}

var StrongAgreementPhrases = []string{
	"i'm fully convinced", "you've completely convinced me",
	"i have no more objections", "i withdraw my concerns",
	"you're absolutely right", "i agree completely",
	"that settles it", "case closed", "i'm persuaded",
	"you've won me over", "i concede the point entirely",
}

var StopPhrases = []string{
	"<stop>", "let's stop here", "this conversation is complete",
	"i have no further questions", "no more debate needed",
	"we can conclude", "this discussion is finished",
}

// Conclusion detector phrase tables.

var ConclusionPhrases = []string{
	"in conclusion", "to conclude", "in summary", "to summarize",
	"overall", "in the end", "ultimately", "final thoughts",
	"wrapping up", "to wrap up",
}

var SoftAgreement = []string{
	"i agree", "you're right", "that's correct", "good point",
	"i concede", "fair point", "i accept", "you've convinced me",
	"that makes sense", "i see your point",
}

var Exhaustion = []string{
	"we've covered", "we've discussed", "we've explored",
	"as we've established", "we've already talked about",
	"we keep coming back to", "we've been through this",
}

var Stagnation = []string{
	"same question again", "we're going in circles",
	"repeating ourselves", "covered this already",
	"nothing new to add", "same argument",
}

// StanceWeight is a stance phrase with its intensity contribution
type StanceWeight struct {
	Phrase string
	Weight int
}

// StanceWeights score how committed a speaker sounds. Positive weights
// push toward certainty, negative toward rejection.
var StanceWeights = []StanceWeight{
	{"definitely", 2}, {"absolutely", 2}, {"certainly", 2}, {"clearly", 2}, {"obviously", 2},
	{"i believe", 1}, {"i think", 1}, {"likely", 1}, {"probably", 1}, {"evidence suggests", 1},
	{"perhaps", 0}, {"maybe", 0}, {"could be", 0}, {"might be", 0}, {"it depends", 0},
	{"doubt", -1}, {"unlikely", -1}, {"probably not", -1}, {"disagree", -1}, {"challenge", -1},
	{"impossible", -2}, {"definitely not", -2}, {"absolutely not", -2}, {"reject", -2},
}

// CoverageTags map debate aspects to the keywords that mark them as
// discussed. Used for topic-saturation tracking.
var CoverageTags = map[string][]string{
	"definitions":          {"consciousness", "awareness", "sentience", "self-aware", "is defined as"},
	"mechanisms":           {"quantum", "microtubules", "neural networks", "machine learning", "mechanism"},
	"evidence_demands":     {"evidence", "proof", "verification", "testing"},
	"engineering":          {"engineering", "implementation", "technical", "development"},
	"ethics":               {"ethics", "moral", "rights", "responsibility"},
	"measurement":          {"test", "measure", "assess", "evaluate"},
	"philosophy":           {"philosophy", "hard problem", "phenomenal", "subjective"},
	"practical_obstacles":  {"challenges", "limitations", "problems", "difficulties"},
}

// TriGram captures repeated three-word argument fragments
var TriGram = regexp.MustCompile(`\b\w{4,}\s+\w{4,}\s+\w{4,}\b`)

// Citation extraction patterns.

// AuthorYear matches references like "Smith et al. (2024)" or
// "Allen Institute (2025)".
var AuthorYear = regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+(?:et\s+al\.|[A-Z][a-zA-Z]+))*)\s*\((\d{4})\)`)

// PublishedIn matches references like "published in Diabetes Care (2024)"
var PublishedIn = regexp.MustCompile(`(?i)published in ([A-Z][a-zA-Z\s&]+)(?:\((\d{4})\))?`)

// SupportPhrases indicate a citation is used as supporting evidence
var SupportPhrases = []string{
	"shows that", "demonstrates", "proves", "indicates", "suggests", "supports",
}

// MentionPhrases indicate a citation is merely referenced
var MentionPhrases = []string{
	"according to", "as mentioned in", "as discussed in",
}

// GenericResearch terms apply to any field and carry no topical signal
var GenericResearch = []string{
	"research", "study", "analysis", "data", "evidence",
	"findings", "results", "methodology", "approach",
}
