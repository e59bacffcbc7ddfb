package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func WritePlan(path string, p *Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	if err := ValidatePlan(p); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := ValidatePlan(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Marshal is the canonical encoding used for files and hashing.
func Marshal(p *Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
