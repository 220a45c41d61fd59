package apitoken

import (
	"encoding/json"
	"strings"
)

// Authorization-type scopes a token may carry.
const (
	ScopePersonal     = "personal"
	ScopeOrganization = "organization"
)

// payload is the schema of the encrypted token body. Every field is required;
// parsing fails closed on anything missing, mistyped, or unknown.
type payload struct {
	OwnerID string   `json:"userId"`
	Name    string   `json:"name"`
	TokenID string   `json:"tokenId"`
	Scopes  []string `json:"scopes"`
}

func (p payload) validate() error {
	if strings.TrimSpace(p.OwnerID) == "" {
		return ErrInvalidToken
	}
	if strings.TrimSpace(p.TokenID) == "" {
		return ErrInvalidToken
	}
	if len(p.Scopes) == 0 {
		return ErrInvalidAuthorizationType
	}
	return nil
}

func encodePayload(p payload) ([]byte, error) {
	return json.Marshal(p)
}

// decodePayload parses the decrypted token body with strict schema
// validation: unknown fields and wrong types are rejected rather than
// trusting a loosely-parsed structure.
func decodePayload(data []byte) (payload, error) {
	var p payload
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return payload{}, ErrInvalidToken
	}
	if err := p.validate(); err != nil {
		return payload{}, err
	}
	return p, nil
}
