// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package models

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestAPIResponseSuccessShape(t *testing.T) {
	t.Parallel()

	resp := APIResponse{
		Status: "success",
		Data:   map[string]int{"user_id": 7},
		Metadata: Metadata{
			Timestamp:   time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
			QueryTimeMS: 12,
		},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(raw)
	if !strings.Contains(out, `"status":"success"`) {
		t.Errorf("expected success status, got: %s", out)
	}
	if !strings.Contains(out, `"query_time_ms":12`) {
		t.Errorf("expected query time, got: %s", out)
	}
	if strings.Contains(out, `"error"`) {
		t.Errorf("error field should be omitted on success, got: %s", out)
	}
}

func TestAPIResponseErrorShape(t *testing.T) {
	t.Parallel()

	resp := APIResponse{
		Status: "error",
		Error: &APIError{
			Code:    "INVALID_USER_ID",
			Message: "user ID must be a positive integer",
			Details: map[string]interface{}{"field": "userID"},
		},
		Metadata: Metadata{Timestamp: time.Now()},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(raw)
	if !strings.Contains(out, `"code":"INVALID_USER_ID"`) {
		t.Errorf("expected error code, got: %s", out)
	}
	if !strings.Contains(out, `"field":"userID"`) {
		t.Errorf("expected error details, got: %s", out)
	}
	// QueryTimeMS of zero is omitted.
	if strings.Contains(out, "query_time_ms") {
		t.Errorf("expected zero query time to be omitted, got: %s", out)
	}
}
