package lookup

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feral-file/ff-streaks/internal/domain"
)

// Query is one of FindAll, FindByCreator, FindTop, FindActiveAtAnchor or FindBrokenSince
type Query interface {
	// Kind is the wire name of the query variant
	Kind() string
	sealed()
}

// FindAll selects every tracked streak
type FindAll struct{}

// FindByCreator selects the streaks of one creator
type FindByCreator struct {
	CreatorIdentityKey string  `json:"creatorIdentityKey"`
	Namespace          *string `json:"namespace,omitempty"`
}

// FindTop selects the longest streaks
type FindTop struct {
	Namespace *string `json:"namespace,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// FindActiveAtAnchor selects streaks whose latest tick is AnchorValue
type FindActiveAtAnchor struct {
	AnchorValue domain.DayStamp `json:"anchorValue"`
	Namespace   *string         `json:"namespace,omitempty"`
}

// FindBrokenSince selects streaks that missed their expected tick as of ReferenceAnchor
type FindBrokenSince struct {
	ReferenceAnchor domain.DayStamp `json:"referenceAnchor"`
	Namespace       *string         `json:"namespace,omitempty"`
}

const (
	KindFindAll            = "findAll"
	KindFindByCreator      = "findByCreator"
	KindFindTop            = "findTop"
	KindFindActiveAtAnchor = "findActiveAtAnchor"
	KindFindBrokenSince    = "findBrokenSince"
)

func (FindAll) Kind() string            { return KindFindAll }
func (FindByCreator) Kind() string      { return KindFindByCreator }
func (FindTop) Kind() string            { return KindFindTop }
func (FindActiveAtAnchor) Kind() string { return KindFindActiveAtAnchor }
func (FindBrokenSince) Kind() string    { return KindFindBrokenSince }

func (FindAll) sealed()            {}
func (FindByCreator) sealed()      {}
func (FindTop) sealed()            {}
func (FindActiveAtAnchor) sealed() {}
func (FindBrokenSince) sealed()    {}

// UnsupportedQueryError carries the rejected query for diagnostics
type UnsupportedQueryError struct {
	Query  json.RawMessage
	Reason string
}

func (e *UnsupportedQueryError) Error() string {
	return fmt.Sprintf("%s: %s: %s", domain.ErrUnsupportedQuery, e.Reason, string(e.Query))
}

func (e *UnsupportedQueryError) Unwrap() error {
	return domain.ErrUnsupportedQuery
}

// ParseQuery decodes the wire form of a query. Exactly one variant key must be present.
func ParseQuery(raw json.RawMessage) (Query, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, unsupported(raw, "query must be a JSON object")
	}
	if len(fields) != 1 {
		return nil, unsupported(raw, fmt.Sprintf("expected exactly one query variant, got %d", len(fields)))
	}

	for kind, body := range fields {
		q, reason := parseVariant(kind, body)
		if reason != "" {
			return nil, unsupported(raw, reason)
		}
		return q, nil
	}
	return nil, unsupported(raw, "empty query")
}

func parseVariant(kind string, body json.RawMessage) (Query, string) {
	switch kind {
	case KindFindAll:
		var v bool
		if err := json.Unmarshal(body, &v); err != nil || !v {
			return nil, "findAll must be true"
		}
		return FindAll{}, ""

	case KindFindByCreator:
		var v struct {
			CreatorIdentityKey *string `json:"creatorIdentityKey"`
			Namespace          *string `json:"namespace"`
		}
		if err := decodeStrict(body, &v); err != nil {
			return nil, err.Error()
		}
		if v.CreatorIdentityKey == nil || *v.CreatorIdentityKey == "" {
			return nil, "creatorIdentityKey is required"
		}
		key := strings.ToLower(*v.CreatorIdentityKey)
		if _, err := hex.DecodeString(key); err != nil {
			return nil, "creatorIdentityKey must be hex"
		}
		return FindByCreator{CreatorIdentityKey: key, Namespace: v.Namespace}, ""

	case KindFindTop:
		var v struct {
			Namespace *string `json:"namespace"`
			Limit     *int    `json:"limit"`
		}
		if err := decodeStrict(body, &v); err != nil {
			return nil, err.Error()
		}
		q := FindTop{Namespace: v.Namespace}
		if v.Limit != nil {
			if *v.Limit < 0 {
				return nil, "limit must not be negative"
			}
			q.Limit = *v.Limit
		}
		return q, ""

	case KindFindActiveAtAnchor:
		var v struct {
			AnchorValue *domain.DayStamp `json:"anchorValue"`
			Namespace   *string          `json:"namespace"`
		}
		if err := decodeStrict(body, &v); err != nil {
			return nil, err.Error()
		}
		if v.AnchorValue == nil || !v.AnchorValue.Valid() {
			return nil, "anchorValue must be a YYYYMMDD day stamp"
		}
		return FindActiveAtAnchor{AnchorValue: *v.AnchorValue, Namespace: v.Namespace}, ""

	case KindFindBrokenSince:
		var v struct {
			ReferenceAnchor *domain.DayStamp `json:"referenceAnchor"`
			Namespace       *string          `json:"namespace"`
		}
		if err := decodeStrict(body, &v); err != nil {
			return nil, err.Error()
		}
		if v.ReferenceAnchor == nil || !v.ReferenceAnchor.Valid() {
			return nil, "referenceAnchor must be a YYYYMMDD day stamp"
		}
		return FindBrokenSince{ReferenceAnchor: *v.ReferenceAnchor, Namespace: v.Namespace}, ""
	}

	return nil, fmt.Sprintf("unknown query variant %q", kind)
}

func decodeStrict(body json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed query body: %v", err)
	}
	return nil
}

func unsupported(raw json.RawMessage, reason string) *UnsupportedQueryError {
	return &UnsupportedQueryError{Query: append(json.RawMessage(nil), raw...), Reason: reason}
}
