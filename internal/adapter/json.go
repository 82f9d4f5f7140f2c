package adapter

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// JSON defines an interface for the JSON codec used on overlay payloads and lookup queries
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Canonicalize rewrites a JSON document in RFC 8785 canonical form
	Canonicalize(data []byte) ([]byte, error)
}

// RealJSON implements JSON with encoding/json and gowebpki/jcs
type RealJSON struct{}

// NewJSON creates a new real JSON implementation
func NewJSON() JSON {
	return &RealJSON{}
}

func (j *RealJSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (j *RealJSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (j *RealJSON) Canonicalize(data []byte) ([]byte, error) {
	return jcs.Transform(data)
}
