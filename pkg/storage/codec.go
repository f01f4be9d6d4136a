package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Score is a fitness value that survives JSON and SQL round trips even when
// it is NaN or infinite. Non-finite values are written as strings.
type Score float64

func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

// ParseScore reads the String form.
func ParseScore(text string) (Score, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", text, err)
	}
	return Score(v), nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(s.String())
	}
	return json.Marshal(f)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = Score(f)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("score must be a number or string: %w", err)
	}
	v, err := ParseScore(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func encodeRun(r RunRecord) ([]byte, error) { return json.Marshal(r) }

func decodeRun(data []byte) (RunRecord, error) {
	var r RunRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return RunRecord{}, err
	}
	return r, nil
}

func encodeGeneration(g GenerationRecord) ([]byte, error) { return json.Marshal(g) }

func decodeGeneration(data []byte) (GenerationRecord, error) {
	var g GenerationRecord
	if err := json.Unmarshal(data, &g); err != nil {
		return GenerationRecord{}, err
	}
	return g, nil
}
