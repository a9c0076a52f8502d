package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	cm "github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
)

// FieldError reports invalid record fields by name.
type FieldError struct {
	Fields map[string]string
}

func newFieldError(fields map[string]string) *FieldError {
	return &FieldError{Fields: fields}
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *FieldError) Unwrap() error { return common.ErrorValidation }

// reservedKeys are envelope fields owned by the store. They are stripped
// from incoming documents.
var reservedKeys = []string{cm.FieldID, cm.FieldCreatedAt, cm.FieldUpdatedAt}

func stripReserved(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, k := range reservedKeys {
		delete(out, k)
	}
	return out
}

// rule checks one field of a document. present is false when the key is
// absent from the document.
type rule func(v any, present bool) string

type schema map[string]rule

var schemas = map[string]schema{
	common.CollectionAdvisories: {
		cm.AdvisoryTitle:       required(nonEmptyString),
		cm.AdvisoryCategory:    optional(oneOf(cm.Categories...)),
		cm.AdvisoryPriority:    optional(oneOf(string(cm.PriorityLow), string(cm.PriorityMedium), string(cm.PriorityHigh), string(cm.PriorityCritical))),
		cm.AdvisoryStatus:      optional(oneOf(string(cm.WireDraft), string(cm.WirePublished), string(cm.WireArchived))),
		cm.AdvisoryContent:     optional(stringValue),
		cm.AdvisoryExcerpt:     optional(stringValue),
		cm.AdvisoryIsEmergency: optional(boolValue),
		cm.AdvisoryPublishAt:   optional(timestamp),
		cm.AdvisoryAuthor:      optional(stringValue),
		cm.AdvisoryTags:        optional(stringList),
	},
	common.CollectionIncidents: {
		cm.IncidentTitle:       required(nonEmptyString),
		cm.IncidentSeverity:    optional(oneOf(string(cm.PriorityLow), string(cm.PriorityMedium), string(cm.PriorityHigh), string(cm.PriorityCritical))),
		cm.IncidentStatus:      optional(oneOf(cm.IncidentOpen, cm.IncidentMonitoring, cm.IncidentResolved)),
		cm.IncidentLocation:    optional(stringValue),
		cm.IncidentDescription: optional(stringValue),
	},
	common.CollectionEvacuationCenters: {
		cm.CenterName:         required(nonEmptyString),
		cm.CenterAddress:      optional(stringValue),
		cm.CenterCapacity:     optional(count),
		cm.CenterOccupancy:    optional(count),
		cm.CenterStatus:       optional(oneOf(cm.CenterOpen, cm.CenterFull, cm.CenterClosed)),
		cm.CenterContactPhone: optional(stringValue),
	},
	common.CollectionResources: {
		cm.DocumentTitle:       required(nonEmptyString),
		cm.DocumentDescription: optional(stringValue),
		cm.DocumentKey:         optional(stringValue),
	},
	common.CollectionSitePages: {
		"title":   required(nonEmptyString),
		"slug":    optional(stringValue),
		"content": optional(stringValue),
	},
}

// validate checks doc against the collection schema. With partial set only
// the keys present are checked, which is how patches are validated. Keys the
// schema does not name pass through untouched.
func validate(collection string, doc map[string]any, partial bool) error {
	sc, ok := schemas[collection]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrorUnknownCollection, collection)
	}

	fields := map[string]string{}
	for name, check := range sc {
		v, present := doc[name]
		if partial && !present {
			continue
		}
		if msg := check(v, present); msg != "" {
			fields[name] = msg
		}
	}

	if collection == common.CollectionEvacuationCenters {
		capacity, okC := number(doc[cm.CenterCapacity])
		occupancy, okO := number(doc[cm.CenterOccupancy])
		if okC && okO && occupancy > capacity {
			fields[cm.CenterOccupancy] = "must not exceed capacity"
		}
	}

	if len(fields) > 0 {
		return newFieldError(fields)
	}
	return nil
}

func required(r rule) rule {
	return func(v any, present bool) string {
		if !present || v == nil {
			return "is required"
		}
		return r(v, present)
	}
}

func optional(r rule) rule {
	return func(v any, present bool) string {
		if !present || v == nil {
			return ""
		}
		return r(v, present)
	}
}

func stringValue(v any, _ bool) string {
	if _, ok := v.(string); !ok {
		return "must be a string"
	}
	return ""
}

func nonEmptyString(v any, _ bool) string {
	s, ok := v.(string)
	if !ok {
		return "must be a string"
	}
	if strings.TrimSpace(s) == "" {
		return "is required"
	}
	return ""
}

func boolValue(v any, _ bool) string {
	if _, ok := v.(bool); !ok {
		return "must be a boolean"
	}
	return ""
}

func oneOf(allowed ...string) rule {
	return func(v any, _ bool) string {
		s, ok := v.(string)
		if ok {
			for _, a := range allowed {
				if s == a {
					return ""
				}
			}
		}
		return "must be one of " + strings.Join(allowed, ", ")
	}
}

func timestamp(v any, _ bool) string {
	s, ok := v.(string)
	if !ok {
		return "must be an RFC 3339 timestamp"
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return "must be an RFC 3339 timestamp"
	}
	return ""
}

func stringList(v any, _ bool) string {
	list, ok := v.([]any)
	if !ok {
		return "must be a list of strings"
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return "must be a list of strings"
		}
	}
	return ""
}

func count(v any, _ bool) string {
	n, ok := number(v)
	if !ok || n < 0 || n != math.Trunc(n) {
		return "must be a non-negative whole number"
	}
	return ""
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
