package domain

// RetrievedChunk is a chunk returned by similarity search together with its
// similarity score. Results are always ordered by descending score.
type RetrievedChunk struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
}

// Answer is the final result of one query call. Ownership passes to the
// caller; the pipeline keeps no per-call state.
//
// Degraded marks answers produced after retrieval succeeded but generation
// failed: Text then carries a user-safe message and Sources keeps the
// retrieved passages so the partial value is not lost.
type Answer struct {
	Question string           `json:"question"`
	Text     string           `json:"answer"`
	Degraded bool             `json:"degraded,omitempty"`
	Sources  []RetrievedChunk `json:"sources"`
}
