package session

// StartPayloadKey is where the resumable start response lives while an
// attempt is in progress. Removed on terminal transition.
func StartPayloadKey(quizID string) string {
	return "quiz:" + quizID + ":startPayload"
}

// ResultPayloadKey is where the terminal result bundle lives once the attempt
// finishes. Consumed by the result view.
func ResultPayloadKey(quizID string) string {
	return "quiz:" + quizID + ":resultPayload"
}
