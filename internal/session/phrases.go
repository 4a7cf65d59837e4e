package session

var supportPhrases = []string{
	"You've got this.",
	"One question at a time.",
	"Great pace, keep going.",
	"No rush. Think it through.",
	"Even the hard ones are within reach.",
	"Stay focused.",
	"Mistakes are part of the road. Onward.",
	"Good try. The next one is yours.",
	"Almost there. Keep at it.",
	"Answer with confidence.",
}

// SupportPhrase picks an encouragement line deterministically from a seed
// (typically the active question id) so the phrase is stable for a question
// but varies between questions.
func SupportPhrase(seed string) string {
	var h int32
	for i := 0; i < len(seed); i++ {
		h = h*31 + int32(seed[i])
	}
	// Reinterpret as unsigned: negating would overflow on math.MinInt32.
	return supportPhrases[int(uint32(h))%len(supportPhrases)]
}
