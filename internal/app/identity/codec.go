// internal/app/identity/codec.go
package identity

import (
	"encoding/json"
	"fmt"

	"github.com/dalemusser/idbridge/internal/domain/models"
)

// envelope is the serialized form of a principal as stored in the session.
type envelope struct {
	Protocol   Protocol        `json:"protocol"`
	Attributes map[string]any  `json:"attributes"`
	RawIDToken string          `json:"id_token,omitempty"`
	Local      *models.AppUser `json:"local,omitempty"`
}

// Marshal serializes a principal for session storage.
func Marshal(p Principal) ([]byte, error) {
	env := envelope{
		Protocol:   p.Protocol(),
		Attributes: p.RawAttributes(),
	}
	if u, ok := p.LocalUser(); ok {
		env.Local = &u
	}
	if op, ok := p.(*OIDCPrincipal); ok {
		env.RawIDToken = op.RawIDToken()
	}
	return json.Marshal(env)
}

// Unmarshal restores a principal serialized by Marshal.
func Unmarshal(data []byte) (Principal, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode principal: %w", err)
	}

	switch env.Protocol {
	case ProtocolOAuth2:
		return &OAuth2Principal{attrs: env.Attributes, local: env.Local}, nil
	case ProtocolOIDC:
		return &OIDCPrincipal{claims: env.Attributes, rawIDToken: env.RawIDToken, local: env.Local}, nil
	default:
		return nil, fmt.Errorf("unknown principal protocol %q", env.Protocol)
	}
}
