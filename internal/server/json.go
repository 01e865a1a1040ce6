package server

import (
	"github.com/inodb/seqfeat/internal/feature"
)

// featureJSON is the wire form of a feature. Start is 0-based, End is
// exclusive. Score is omitted when unset.
type featureJSON struct {
	ID         string             `json:"id"`
	SequenceID string             `json:"seq_id"`
	Source     string             `json:"source,omitempty"`
	Type       string             `json:"type"`
	Start      int64              `json:"start"`
	End        int64              `json:"end"`
	Strand     string             `json:"strand"`
	Score      *float64           `json:"score,omitempty"`
	Attributes feature.Attributes `json:"attributes,omitempty"`
}

func toJSON(f feature.Feature) featureJSON {
	out := featureJSON{
		ID:         f.ID(),
		SequenceID: f.SequenceID(),
		Source:     f.Source(),
		Type:       f.Type(),
		Start:      f.Start(),
		End:        f.End(),
		Strand:     f.Strand().String(),
		Attributes: f.Attributes(),
	}
	if score := f.Score(); score != feature.ScoreUnset {
		out.Score = &score
	}
	return out
}
