// Copyright 2026 The TroopDeck Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AuthzMetrics records permission check outcomes
type AuthzMetrics struct {
	checks  metric.Int64Counter
	denials metric.Int64Counter
}

// NewAuthzMetrics creates authorization metrics on the given meter
func NewAuthzMetrics(m *Meter) (*AuthzMetrics, error) {
	checks, err := m.CreateCounter("authz_permission_checks_total", "Total permission checks performed")
	if err != nil {
		return nil, err
	}
	denials, err := m.CreateCounter("authz_denials_total", "Total permission checks that were denied")
	if err != nil {
		return nil, err
	}
	return &AuthzMetrics{checks: checks, denials: denials}, nil
}

// RecordCheck records a permission check and its outcome
func (a *AuthzMetrics) RecordCheck(ctx context.Context, permissionKey string, allowed bool) {
	attrs := metric.WithAttributes(attribute.String("permission_key", permissionKey))
	a.checks.Add(ctx, 1, attrs)
	if !allowed {
		a.denials.Add(ctx, 1, attrs)
	}
}
