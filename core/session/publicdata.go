package session

import (
	"encoding/json"
	"fmt"
	"maps"
)

// PublicDataUserIDKey is the reserved public data key holding the user
// identity. A nil value denotes an anonymous session.
const PublicDataUserIDKey = "userId"

// PublicData is the JSON blob safe to expose to the browser. It always
// carries a userId key (nil for anonymous sessions) and either a role string
// or a roles list, never both.
type PublicData map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (d PublicData) Clone() PublicData {
	out := make(PublicData, len(d))
	maps.Copy(out, d)
	return out
}

// Merge returns a copy of d with other's keys written over it.
func (d PublicData) Merge(other PublicData) PublicData {
	out := d.Clone()
	maps.Copy(out, other)
	return out
}

// JSON serializes the data. Map keys are marshaled in sorted order, so equal
// data always produces an identical fingerprint.
func (d PublicData) JSON() (string, error) {
	if d == nil {
		d = PublicData{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("session: marshal public data: %w", err)
	}
	return string(b), nil
}

// UserID returns the userId value, nil when absent or anonymous.
func (d PublicData) UserID() any {
	return d[PublicDataUserIDKey]
}

// RoleSet collects the granted roles from the role or roles key. Carrying
// both keys at once violates the public data invariant.
func (d PublicData) RoleSet() ([]string, error) {
	role, hasRole := d["role"]
	roles, hasRoles := d["roles"]

	if hasRole && hasRoles {
		return nil, fmt.Errorf("%w: both role and roles are set", ErrInvalidPublicData)
	}

	if hasRole {
		s, ok := role.(string)
		if !ok {
			return nil, fmt.Errorf("%w: role must be a string", ErrInvalidPublicData)
		}
		return []string{s}, nil
	}

	if hasRoles {
		switch v := roles.(type) {
		case []string:
			return v, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: roles must be strings", ErrInvalidPublicData)
				}
				out = append(out, s)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("%w: roles must be a string list", ErrInvalidPublicData)
		}
	}

	return nil, nil
}

// Validate checks the role XOR roles invariant.
func (d PublicData) Validate() error {
	_, err := d.RoleSet()
	return err
}

// ParsePublicData decodes a serialized public data blob. Empty input yields
// an empty map.
func ParsePublicData(s string) (PublicData, error) {
	if s == "" {
		return PublicData{}, nil
	}
	var d PublicData
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, fmt.Errorf("session: parse public data: %w", err)
	}
	if d == nil {
		d = PublicData{}
	}
	return d, nil
}

// PrivateData is the opaque JSON blob held only server-side.
type PrivateData map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (d PrivateData) Clone() PrivateData {
	out := make(PrivateData, len(d))
	maps.Copy(out, d)
	return out
}

// Merge returns a copy of d with other's keys written over it.
func (d PrivateData) Merge(other PrivateData) PrivateData {
	out := d.Clone()
	maps.Copy(out, other)
	return out
}

// JSON serializes the data.
func (d PrivateData) JSON() (string, error) {
	if d == nil {
		d = PrivateData{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("session: marshal private data: %w", err)
	}
	return string(b), nil
}

// ParsePrivateData decodes a serialized private data blob. Empty input yields
// an empty map.
func ParsePrivateData(s string) (PrivateData, error) {
	if s == "" {
		return PrivateData{}, nil
	}
	var d PrivateData
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, fmt.Errorf("session: parse private data: %w", err)
	}
	if d == nil {
		d = PrivateData{}
	}
	return d, nil
}

// userIDKey renders a userId value into the canonical string the store
// indexes sessions by. Anonymous sessions map to the empty string.
func userIDKey(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
