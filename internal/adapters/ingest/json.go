package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/palate/palate/internal/domain/model"
)

// jsonRecord mirrors one element of a JSON score file. The legacy
// "eqsRef" spelling is accepted alongside "sampleRef".
type jsonRecord struct {
	SampleRef    string   `json:"sampleRef"`
	EQSRef       string   `json:"eqsRef"`
	ConsumerID   int      `json:"consumerId"`
	ServingOrder int      `json:"servingOrder"`
	PickBatchID  string   `json:"pickBatchId"`
	Country      string   `json:"country"`
	Session      string   `json:"session"`
	Tenderness   *float64 `json:"tenderness"`
	Juiciness    *float64 `json:"juiciness"`
	Flavor       *float64 `json:"flavor"`
	Overall      *float64 `json:"overall"`
}

func parseJSON(r io.Reader) (map[string][]model.ScoreRecord, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json records: %w", err)
	}

	groups := make(map[string][]model.ScoreRecord)
	for _, jr := range raw {
		ref := jr.SampleRef
		if ref == "" {
			ref = jr.EQSRef
		}
		if ref == "" {
			continue
		}
		rec := model.ScoreRecord{
			SampleRef:    ref,
			ConsumerID:   jr.ConsumerID,
			ServingOrder: jr.ServingOrder,
			PickBatchID:  orDefault(jr.PickBatchID, defaultPickBatchID),
			Country:      orDefault(jr.Country, defaultCountry),
			Session:      jr.Session,
			Tenderness:   jr.Tenderness,
			Juiciness:    jr.Juiciness,
			Flavor:       jr.Flavor,
			Overall:      jr.Overall,
		}
		groups[ref] = append(groups[ref], rec)
	}
	return groups, nil
}
