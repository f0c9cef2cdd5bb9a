// Package parser decodes raw describe payloads from the CRM REST API and
// normalizes them into graph nodes and typed relationship edges.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/schemalens/core/internal/models"
)

// ParseObjectList decodes the global sobjects listing payload.
func ParseObjectList(data []byte) (*models.ObjectList, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty object list payload")
	}

	var list models.ObjectList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal object list: %w", err)
	}

	if list.Sobjects == nil {
		return nil, fmt.Errorf("invalid object list: missing sobjects field")
	}

	return &list, nil
}

// ParseDescribe decodes a per-object describe payload.
func ParseDescribe(data []byte) (*models.ObjectDescribe, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty describe payload")
	}

	var desc models.ObjectDescribe
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal describe: %w", err)
	}

	if desc.Name == "" {
		return nil, fmt.Errorf("invalid describe: missing name field")
	}

	return &desc, nil
}
