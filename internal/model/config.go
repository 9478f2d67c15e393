package model

// Config is the complete Parley configuration
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Topics   TopicConfig    `yaml:"topics" mapstructure:"topics"`
	Refiner  RefinerConfig  `yaml:"refiner" mapstructure:"refiner"`
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig carries the tunable thresholds of the analytic core
type AnalysisConfig struct {
	// RehashThreshold is how many repetitions of a claim or question
	// pattern are tolerated before a warning fires.
	RehashThreshold int `yaml:"rehash_threshold" mapstructure:"rehash_threshold"`

	// DriftThreshold is the hysteresis counter value at which a topic
	// drift intervention fires.
	DriftThreshold int `yaml:"drift_threshold" mapstructure:"drift_threshold"`

	// SimilarityThreshold is the word-set Jaccard overlap at which two
	// texts count as the same claim.
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// KnowledgeCutoffYear marks the first year considered future-dated.
	// Citations from this year onward are rejected as likely fabricated.
	KnowledgeCutoffYear int `yaml:"knowledge_cutoff_year" mapstructure:"knowledge_cutoff_year"`

	// ConcludeConfidence is the minimum conclusion confidence before the
	// controller recommends stopping the exchange.
	ConcludeConfidence float64 `yaml:"conclude_confidence" mapstructure:"conclude_confidence"`

	// MinClaimLength filters out very short statements during claim
	// extraction, in characters.
	MinClaimLength int `yaml:"min_claim_length" mapstructure:"min_claim_length"`

	// StagnantRounds is how many rounds a claim may stay disputed before
	// progression guidance flags it.
	StagnantRounds int `yaml:"stagnant_rounds" mapstructure:"stagnant_rounds"`
}

// TopicConfig carries the keyword families used by the coherence monitor
// and the evidence validator. Keys are family names; values are lexical
// keyword lists.
type TopicConfig struct {
	// DomainKeywords maps a conversation domain label to its core
	// on-topic keyword set.
	DomainKeywords map[string][]string `yaml:"domain_keywords" mapstructure:"domain_keywords"`

	// DriftFamilies are named off-topic keyword sets the monitor counts
	// against the core set.
	DriftFamilies map[string][]string `yaml:"drift_families" mapstructure:"drift_families"`

	// AdjacentFamilies are drift families close enough to the domain to
	// be classified as tangential rather than full drift.
	AdjacentFamilies []string `yaml:"adjacent_families" mapstructure:"adjacent_families"`

	// OffTopicFamilies are keyword sets for known off-topic citation
	// domains checked by the evidence validator.
	OffTopicFamilies map[string][]string `yaml:"off_topic_families" mapstructure:"off_topic_families"`
}

// RefinerConfig configures the optional model-backed score refiner.
// An empty provider disables refinement (identity).
type RefinerConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // "", "openai"
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// SourcesConfig configures citation source-tier classification
type SourcesConfig struct {
	// TierDomains maps tier names ("tier_1".."tier_5") to domain lists
	TierDomains map[string][]string `yaml:"tier_domains" mapstructure:"tier_domains"`

	// TopicPreferred maps topic labels to preferred source domains
	TopicPreferred map[string][]string `yaml:"topic_preferred" mapstructure:"topic_preferred"`
}

// BatchConfig configures concurrent transcript analysis
type BatchConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers"`
	SessionTTL int `yaml:"session_ttl_minutes" mapstructure:"session_ttl_minutes"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults. Keyword families default
// to the consciousness/AI debate domain the tool was first tuned on;
// config files can replace them wholesale.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			RehashThreshold:     3,
			DriftThreshold:      2,
			SimilarityThreshold: 0.3,
			KnowledgeCutoffYear: 2024,
			ConcludeConfidence:  0.8,
			MinClaimLength:      20,
			StagnantRounds:      5,
		},
		Topics: TopicConfig{
			DomainKeywords: map[string][]string{
				"ai_consciousness": {
					"consciousness", "sentience", "self-awareness", "subjective experience",
					"qualia", "phenomenal consciousness", "hard problem", "mind",
					"awareness", "cognitive", "mental states", "intentionality",
					"artificial intelligence", "ai", "machine learning", "neural networks",
					"deep learning", "artificial", "synthetic", "computational",
					"algorithm", "digital", "silicon", "processing",
					"quantum", "quantum mechanics", "quantum computing", "quantum coherence",
					"quantum entanglement", "superposition", "decoherence", "microtubules",
					"orch-or", "penrose", "hameroff",
				},
				"general": {
					"research", "study", "analysis", "evidence", "argument", "theory",
				},
			},
			DriftFamilies: map[string][]string{
				"medical_health": {
					"diabetes", "glucose", "obesity", "pharmacotherapy", "medication",
					"treatment", "clinical", "patient", "medical", "health", "disease",
				},
				"brain_computer_interfaces": {
					"brain-computer interface", "bci", "neural implant", "electrode",
					"brain stimulation", "neurotechnology", "invasive",
				},
				"swarm_intelligence": {
					"swarm intelligence", "collective behavior", "distributed",
					"ant colony", "particle swarm", "emergent behavior",
				},
				"appetite_regulation": {
					"hunger", "appetite", "food intake", "eating", "satiety",
					"ghrelin", "leptin", "hunger hormones",
				},
			},
			AdjacentFamilies: []string{"brain_computer_interfaces"},
			OffTopicFamilies: map[string][]string{
				"medical_health": {
					"diabetes", "glucose", "blood sugar", "insulin", "glycemic",
					"obesity", "weight loss", "bmi", "cardiovascular", "hypertension",
					"cholesterol", "lipid", "pharmacotherapy", "clinical trial",
					"medication", "treatment", "therapy", "patient", "medical",
				},
			},
		},
		Refiner: RefinerConfig{
			Provider:          "", // Disabled by default
			TimeoutSeconds:    30,
			MaxTokens:         64,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Sources: SourcesConfig{
			TierDomains: map[string][]string{
				"tier_1": {
					"nature.com", "science.org", "cell.com", "nejm.org", "thelancet.com",
					"pnas.org", "arxiv.org", "pubmed.ncbi.nlm.nih.gov", "jstor.org",
					"sciencedirect.com", "ieeexplore.ieee.org", "springer.com",
					"who.int", "cdc.gov", "nih.gov", "un.org", "worldbank.org",
					"mit.edu", "stanford.edu", "harvard.edu", "oxford.ac.uk",
				},
				"tier_2": {
					"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "npr.org",
					"economist.com", "nytimes.com", "theguardian.com",
					"scientificamerican.com", "quantamagazine.org", "phys.org",
					"technologyreview.com", "ieee.org", "acm.org",
				},
				"tier_3": {
					"wikipedia.org", "britannica.com", "mayoclinic.org",
					"techcrunch.com", "wired.com", "theatlantic.com", "brookings.edu",
				},
				"tier_4": {
					"medium.com", "substack.com", "wordpress.com", "quora.com",
					"reddit.com", "dev.to",
				},
				"tier_5": {
					"infowars.com", "naturalnews.com", "beforeitsnews.com",
					"globalresearch.ca", "zerohedge.com",
				},
			},
			TopicPreferred: map[string][]string{
				"ai":      {"arxiv.org", "nature.com", "science.org", "mit.edu", "stanford.edu"},
				"physics": {"arxiv.org", "aps.org", "iop.org", "nature.com", "science.org"},
				"general": {"nature.com", "science.org", "reuters.com", "apnews.com", "bbc.com"},
			},
		},
		Batch: BatchConfig{
			Workers:    4,
			SessionTTL: 60,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
