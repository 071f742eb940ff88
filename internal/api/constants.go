package api

// API limits and constants.
const (
	// MaxImportSize is the largest ticket import payload accepted (4 MB).
	MaxImportSize = 4 << 20

	// MaxBatchTickets caps POST /api/v1/match/batch. It equals 7!, the number of distinct tickets.
	MaxBatchTickets = 5040
)

// Tags group operations in the OpenAPI document.
const (
	tagHealth  = "Health"
	tagRules   = "Rules"
	tagMatch   = "Match"
	tagTickets = "Tickets"
	tagMemos   = "Memos"
	tagSongs   = "Songs"
)
