package agent

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadWeights reads network weights saved by SaveWeights.
func LoadWeights(path string) ([][][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	var weights [][][]float64
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	return weights, nil
}

// SaveWeights writes the network weights as JSON.
func SaveWeights[A comparable](path string, n *Network[A]) error {
	data, err := json.Marshal(n.Weights())
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}
