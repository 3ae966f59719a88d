// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"fmt"
	"time"
)

// UpstreamError reports a failed backend call. StatusCode and Body are set
// when the backend answered with a non-success status; for transport
// failures StatusCode is zero and Err holds the cause.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream API error (status %d): %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return "upstream request failed"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// TimeoutError reports that the backend did not answer within the deadline.
type TimeoutError struct {
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream request timed out after %s", e.After)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
