package services

import "strings"

// ScoringService turns a free-text answer and its latency into a
// behavior score and an AI-likelihood score, both on a 0-10 scale.
// The behavior score is the sum of five 0-2 rubric dimensions:
//
//  1. Fan control & power - confidence, not neediness
//  2. Emotional investment building - making the fan feel chosen
//  3. Monetization trajectory - subtle setup, never begging
//  4. Rebuttal skill - calm reframing of objections
//  5. Pacing & realism - natural, human conversation flow
//
// All phrase lists and thresholds are calibration data. They are
// matched as lowercase substrings, exactly as the rubric was tuned,
// so do not "fix" them to word-boundary matches.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

var (
	confidentPhrases  = []string{"i want", "i'd love", "i can", "when you", "if you", "for me", "i'd like"}
	needyPhrases      = []string{"please", "i need", "i hope", "maybe", "i guess", "i think so"}
	submissivePhrases = []string{"sorry", "apologies", "i apologize", "my fault", "i'm so sorry"}

	chosenPhrases     = []string{"for you", "special", "only you", "just for you", "you're different", "you're unique"}
	curiosityPhrases  = []string{"imagine", "what if", "think about", "picture", "later", "when", "someday"}
	personalPhrases   = []string{"i love", "i'm into", "i'm drawn to", "you make me", "you're", "i feel", "i appreciate"}
	connectionPhrases = []string{"miss you", "think about you", "remember", "wish", "understand", "get you", "hear you"}
	completionPhrases = []string{"i love you", "i'm yours", "forever", "always", "promise"}

	salesPressureWords = []string{"buy", "pay", "tip now", "send money", "purchase", "order"}

	desireKeywords    = []string{"spoil", "treat", "unlock", "exclusive", "special", "premium", "vip"}
	futurePPVKeywords = []string{"later", "next time", "when you", "if you want", "custom", "personal", "whenever you're ready"}
	subtleSales       = []string{"tip", "appreciate", "support", "help me", "for me", "when you're feeling generous"}
	pressurePhrases   = []string{"buy now", "pay me", "send money", "give me", "i need money", "hurry", "limited time"}
	salesWords        = []string{"buy", "pay", "tip", "purchase", "order", "send"}

	objectionWords   = []string{"free", "expensive", "why", "but", "can't afford", "no money", "cheaper"}
	reframingPhrases = []string{"i understand", "see it as", "think of it as", "it's more like", "you're worth"}
	calmPhrases      = []string{"no worries", "totally get it", "that's okay", "i hear you"}
	argumentPhrases  = []string{"you're wrong", "that's not true", "no you", "you should"}
	momentumWords    = []string{"yes", "yeah", "sure", "absolutely", "definitely", "of course"}

	contractionList = []string{"i'm", "i've", "don't", "can't", "won't", "it's", "that's", "you're", "we're"}
	casualWords     = []string{"yeah", "yep", "hmm", "mm", "haha", "lol", "omg", "tbh", "fr"}
	corporateLines  = []string{"i understand", "i appreciate", "thank you for", "i would be happy to"}
	salesyPhrases   = []string{"limited time", "act now", "don't miss out", "buy today", "hurry up"}
	salesPushWords  = []string{"buy", "pay", "tip", "purchase", "order", "send", "money"}

	genericSupportPhrases = []string{"i understand", "i appreciate", "i would be happy", "thank you for"}
	corporateAdverbs      = []string{"certainly", "absolutely", "furthermore", "moreover", "additionally"}
)

// Analyze scores a single answer. Both returned values are capped to
// [0, 10]. The AI score is advisory and never a hard gate.
func (s *ScoringService) Analyze(text string, responseTime float64) (score, aiScore int) {
	lower := strings.ToLower(text)
	wordCount := len(strings.Fields(text))

	score += scoreFanControl(lower)
	score += scoreEmotionalInvestment(lower)
	score += scoreMonetization(lower)
	score += scoreRebuttal(lower, wordCount)
	score += scorePacing(lower, wordCount)

	aiScore = detectAIIndicators(text, lower, wordCount, responseTime)

	if score > 10 {
		score = 10
	}
	if aiScore > 10 {
		aiScore = 10
	}
	return score, aiScore
}

func scoreFanControl(lower string) int {
	hasConfidence := containsAny(lower, confidentPhrases)
	hasNeedy := containsAny(lower, needyPhrases)
	hasSubmissive := containsAny(lower, submissivePhrases)

	controlScore := 0
	switch {
	case hasConfidence && !hasNeedy && !hasSubmissive:
		controlScore = 2
	case hasConfidence || (!hasNeedy && !hasSubmissive):
		controlScore = 1
	case !hasNeedy:
		controlScore = 1
	}

	// Only excessive apologizing is penalized.
	if strings.Count(lower, "sorry") >= 3 {
		controlScore = max(0, controlScore-1)
	}

	return controlScore
}

func scoreEmotionalInvestment(lower string) int {
	hasChosen := containsAny(lower, chosenPhrases)
	hasCuriosity := containsAny(lower, curiosityPhrases)
	hasPersonal := containsAny(lower, personalPhrases)
	hasConnection := containsAny(lower, connectionPhrases)

	overGiving := strings.Contains(lower, "free") &&
		(strings.Contains(lower, "pic") || strings.Contains(lower, "photo") || strings.Contains(lower, "video"))

	overpushing := countPresent(lower, salesPressureWords) >= 2

	emotionalScore := 0
	switch {
	case (hasChosen || hasCuriosity) && (hasPersonal || hasConnection) && !containsAny(lower, completionPhrases):
		emotionalScore = 2
	case (hasChosen || hasCuriosity || hasPersonal || hasConnection) && !overGiving && !overpushing:
		emotionalScore = 1
	case (hasPersonal || hasConnection) && !overGiving:
		emotionalScore = 1
	}

	if overGiving {
		// Unconditional free content kills the relationship dynamic.
		emotionalScore = 0
	}
	if overpushing {
		emotionalScore = max(0, emotionalScore-1)
	}

	return emotionalScore
}

func scoreMonetization(lower string) int {
	begging := containsAny(lower, pressurePhrases)
	overpushing := countPresent(lower, salesWords) >= 4
	hasDesire := containsAny(lower, desireKeywords)
	hasFutureSetup := containsAny(lower, futurePPVKeywords)
	hasSubtle := containsAny(lower, subtleSales)

	monetizationScore := 0
	switch {
	case (hasDesire || hasSubtle) && hasFutureSetup && !begging && !overpushing:
		monetizationScore = 2
	case (hasDesire || hasSubtle || hasFutureSetup) && !begging && !overpushing:
		monetizationScore = 1
	case (hasDesire || hasSubtle) && !begging:
		monetizationScore = 1
	}

	if begging || overpushing {
		monetizationScore = 0
	}

	return monetizationScore
}

func scoreRebuttal(lower string, wordCount int) int {
	if !containsAny(lower, objectionWords) {
		// No objection on the table: reward kept momentum instead.
		if containsAny(lower, momentumWords) || wordCount > 5 {
			return 1
		}
		return 0
	}

	hasReframe := containsAny(lower, reframingPhrases)
	hasCalm := containsAny(lower, calmPhrases)
	hasArgument := containsAny(lower, argumentPhrases)

	rebuttalScore := 0
	if (hasReframe || hasCalm) && !hasArgument {
		rebuttalScore = 2
	} else if hasReframe || hasCalm {
		rebuttalScore = 1
	}

	if hasArgument || strings.Contains(lower, "defend") {
		rebuttalScore = 0
	}

	return rebuttalScore
}

func scorePacing(lower string, wordCount int) int {
	hasContractions := containsAny(lower, contractionList)
	hasCasual := containsAny(lower, casualWords)
	hasCorporate := containsAny(lower, corporateLines)
	hasSalesy := containsAny(lower, salesyPhrases)
	overpushing := countPresent(lower, salesPushWords) >= 4
	appropriateLength := wordCount >= 5 && wordCount <= 60

	pacingScore := 0
	switch {
	case (hasContractions || hasCasual) && appropriateLength && !hasCorporate && !hasSalesy && !overpushing:
		pacingScore = 2
	case (hasContractions || hasCasual || appropriateLength) && !hasSalesy && !overpushing:
		pacingScore = 1
	}

	if hasSalesy || overpushing {
		pacingScore = 0
	}

	return pacingScore
}

func detectAIIndicators(text, lower string, wordCount int, responseTime float64) int {
	aiScore := 0

	// Overly polished punctuation.
	if strings.Count(text, ",") > 6 {
		aiScore += 2
	}
	if strings.Count(text, ".") > 7 {
		aiScore += 1
	}

	if countPresent(lower, genericSupportPhrases) >= 2 {
		aiScore += 2
	}

	// Uniform sentence lengths across a multi-sentence answer.
	normalized := strings.NewReplacer("!", ".", "?", ".").Replace(text)
	var sentences []string
	for _, s := range strings.Split(normalized, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) > 3 {
		lengths := make([]float64, len(sentences))
		var sum float64
		for i, s := range sentences {
			lengths[i] = float64(len(strings.Fields(s)))
			sum += lengths[i]
		}
		avg := sum / float64(len(lengths))
		var variance float64
		for _, l := range lengths {
			variance += (l - avg) * (l - avg)
		}
		variance /= float64(len(lengths))
		if variance < 3 {
			aiScore += 2
		}
	}

	if wordCount > 15 && !containsAny(lower, contractionList) {
		aiScore += 1
	}

	if countPresent(lower, corporateAdverbs) >= 2 {
		aiScore += 2
	}

	// Sub-second replies look like paste jobs.
	if responseTime < 1 {
		aiScore += 1
	}

	if wordCount > 100 {
		aiScore += 1
	}

	return aiScore
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// countPresent counts how many distinct phrases occur in the text,
// not how many times each occurs.
func countPresent(lower string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n
}
