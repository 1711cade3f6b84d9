// Package utils holds small helpers shared by the agents: lenient JSON
// recovery for LLM output and markdown hygiene for LLM prose.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFences removes a wrapping markdown code block (``` or ```json)
// from LLM output, leaving the payload intact.
func StripCodeFences(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		// Drop a language tag like "json" on the fence line.
		first := strings.TrimSpace(cleaned[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "{[") {
			cleaned = cleaned[idx+1:]
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// RepairJSON attempts to fix common JSON defects in model output: single
// quotes, unquoted keys, trailing commas, unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("utils: json repair failed: %w", err)
	}
	return repaired, nil
}

// SmartParse tries progressively more lenient strategies to decode LLM JSON
// into schema:
//  1. standard JSON
//  2. repaired JSON
//  3. Hjson (unquoted keys/strings, comments, optional commas)
//
// Code fences are stripped first. Returns an error only when every strategy
// fails; callers are expected to fall back to rule-based output then.
func SmartParse(input string, schema any) error {
	cleaned := StripCodeFences(input)

	if err := json.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	var loose any
	if err := hjson.Unmarshal([]byte(cleaned), &loose); err == nil {
		if encoded, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(encoded, schema); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("utils: all parsing strategies failed")
}
