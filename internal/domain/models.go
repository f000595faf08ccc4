package domain

// Question is a single trivia item. The collection is read-only; City doubles
// as the answer key and must be unique across the dataset.
type Question struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Clues   []string `json:"clues"`
	FunFact []string `json:"fun_fact"`
	Trivia  []string `json:"trivia"`
}

// User is the persisted per-player record. Only the counters mutate after
// creation; the referral linkage is set once at registration.
type User struct {
	Username     string `json:"username"`
	ReferralCode string `json:"referralCode"`
	ReferredBy   string `json:"referredBy,omitempty"`
	Correct      int    `json:"correct"`
	Incorrect    int    `json:"incorrect"`
}

// Round is one served question: the clues and trivia to display, the shuffled
// option set, and the answer the submission will be checked against.
type Round struct {
	Clues         []string `json:"clues"`
	Trivia        []string `json:"trivia"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// AnswerResult is the outcome of a single submission.
type AnswerResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Message   string `json:"message"`
}

// RegisterResult reports whether a registration created a record or found an
// existing one. AlreadyRegistered is informational, not an error state.
type RegisterResult struct {
	AlreadyRegistered bool
	User              User
}
