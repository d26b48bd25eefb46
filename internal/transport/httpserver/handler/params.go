package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseCSV keeps repeated tokens; each one is a separate delete attempt.
func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		result = append(result, item)
	}
	return result
}

func parseID(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("id is required")
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return parsed, nil
}

// parseIDs splits tokens into valid identifiers and rejected tokens.
func parseIDs(tokens []string) ([]uint64, []string) {
	ids := make([]uint64, 0, len(tokens))
	var rejected []string
	for _, token := range tokens {
		id, err := parseID(token)
		if err != nil {
			rejected = append(rejected, token)
			continue
		}
		ids = append(ids, id)
	}
	return ids, rejected
}

// idList accepts either a delimited string ("1,2,3") or a JSON array of
// numbers or strings.
type idList struct {
	Tokens []string
}

func (l *idList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		l.Tokens = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		l.Tokens = parseCSV(value)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	raw := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			raw = append(raw, text)
			continue
		}
		var number json.Number
		if err := json.Unmarshal(item, &number); err != nil {
			return err
		}
		raw = append(raw, number.String())
	}
	l.Tokens = parseCSV(strings.Join(raw, ","))
	return nil
}
