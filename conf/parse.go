package conf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func ParseString(raw string) (string, error) {
	return raw, nil
}

func ParseBool(raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
	return b, nil
}

// ParseWeights accepts a JSON object of partition name to weight, e.g.
// {"train":0.8,"test":0.1,"validation":0.1}.
func ParseWeights(raw string) (map[string]float64, error) {
	weights := map[string]float64{}
	if err := json.Unmarshal([]byte(raw), &weights); err != nil {
		return nil, fmt.Errorf("invalid weight mapping %q: %w", raw, err)
	}
	return weights, nil
}
