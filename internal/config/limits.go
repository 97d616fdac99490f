package config

const (
	MaxBodyBytes     = 1 << 20          // 1MB per grading request
	MaxBankBytes     = 10 * 1024 * 1024 // 10MB question bank
	MaxAnswerChars   = 20000            // longest accepted student answer
	MaxRosterAnswers = 2000             // answers per batch run
)
