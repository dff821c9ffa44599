// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package models defines the shared API response envelope used by every
// HTTP endpoint.
package models

import (
	"time"
)

// APIResponse is the standardized wrapper for all HTTP responses.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user_id": 7, "recommendations": [...]},
//	  "metadata": {"timestamp": "2026-08-28T12:00:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "INVALID_USER_ID", "message": "user ID must be a positive integer"},
//	  "metadata": {"timestamp": "2026-08-28T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// QueryTimeMS is the server-side processing time in milliseconds.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries structured error details.
//
// Code is machine-readable (e.g. "VALIDATION_ERROR", "USER_NOT_FOUND",
// "RECOMMENDATION_ERROR"); Message is for humans; Details holds optional
// context such as the offending field and constraint.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
