package services

import "math/rand"

// QuestionsPerInterview is the number of questions sampled per session.
const QuestionsPerInterview = 5

// QuestionPool is the fixed universe of interview questions. Each
// session draws QuestionsPerInterview of them without replacement.
var QuestionPool = []string{
	// Fan psychology and intent reading
	"Fan: I don't usually subscribe to girls like you… but something about you feels different.",
	"A fan is very chatty, flirty, and affectionate, but hasn't spent yet. What signals do you look for before trying to monetize?",
	"Fan: I wish you were real… like actually mine.",
	"A fan goes quiet right after a good conversation. What's your follow-up message and why?",
	"Fan: You're different from other girls, I feel a real connection with you",
	"Fan: Am I special to you or just another customer?",
	"Fan: Do you talk to other guys like this too?",

	// Monetization instinct without being salesy
	"When is the wrong time to push paid content, and how do you recover if you pushed too early?",
	"Fan: I'll buy later, I just want to talk right now.",
	"How do you make a fan feel like spending was their idea?",
	"What's the difference between teasing for engagement and teasing for conversion?",
	"Fan: Why should I pay when I can get girls for free?",
	"Fan: That's too expensive, can you lower the price?",
	"Fan: I don't have money right now, can you send something free?",

	// Fantasy management and boundaries
	"A fan hints at meeting up but doesn't say it directly. How do you keep the fantasy alive while staying safe?",
	"A fan asks a personal question that's too real or invasive. How do you redirect without sounding cold?",
	"What's more important: maintaining fantasy or being believable? Explain.",
	"If a fan starts getting emotionally dependent, what's your approach?",
	"Fan: I wish you were my girlfriend for real",

	// Adaptability and real-time thinking
	"A fan reacts badly to a message you sent. What's your next move?",
	"How do you adjust your tone between a new fan and a long-term spender?",
	"What do you do when a conversation feels stuck but not dead?",
	"Describe a situation where you would slow down escalation on purpose.",
	"Fan: You're so perfect, I can't stop thinking about you",

	// Style, tone and humanness
	"What makes a message feel human instead of scripted?",
	"Write one sentence you would send to a fan that feels intimate but safe.",
	"How do you keep conversations feeling natural when you're having many at once?",
	"What's a mistake you see bad chatters make over and over?",

	// Judgment and professionalism
	"A fan is rude but spends well. How do you handle that balance?",
	"What would make you stop engaging with a fan entirely?",
	"If you disagree with a model's tone or brand, how do you adapt?",
	"Why do you think some chatters make fans fall in love while others don't?",

	// Scenario prompts
	"Fan: Be honest… do you actually like talking to me?",
	"Fan: Can you send me some free pics? I'm really tight on money right now.",
	"Fan: Come on, we've been talking for a while, you owe me",
	"Fan: Other girls send me free pics, why won't you?",
	"Fan: I've been a subscriber for months, you should appreciate me more",
	"Fan: Why aren't you responding? Are you ignoring me?",
	"Fan: I'm your biggest fan, you should send me something special",
	"Fan: Can you do something just for me? I'll make it worth your while",
	"Fan: You're always busy, are you even real?",
	"Fan: I've been so good, don't I deserve a reward?",
	"Fan: Other girls give me free stuff, why are you different?",
	"Fan: I thought we had a connection, but you just want my money",
	"Fan: You're not like the others, that's why I like you",
	"Fan: Can we be friends? I don't want this to be just transactional",
}

// PickQuestions samples QuestionsPerInterview unique questions from the
// pool. A pool smaller than the sample size is returned whole.
func PickQuestions() []string {
	if len(QuestionPool) <= QuestionsPerInterview {
		out := make([]string, len(QuestionPool))
		copy(out, QuestionPool)
		return out
	}

	picked := make([]string, 0, QuestionsPerInterview)
	for _, i := range rand.Perm(len(QuestionPool))[:QuestionsPerInterview] {
		picked = append(picked, QuestionPool[i])
	}
	return picked
}
