package models

import (
	"encoding/json"
	"fmt"
)

// UserRef is a reference to a user inside a post document. The service
// returns either a bare identifier or an embedded summary {_id, username},
// so the two shapes are folded into one value with a uniform id accessor
// and an optional username accessor.
type UserRef struct {
	id       string
	username string
}

// UserID builds a bare-identifier reference.
func UserID(id string) UserRef {
	return UserRef{id: id}
}

// UserSummary builds an embedded-summary reference.
func UserSummary(id, username string) UserRef {
	return UserRef{id: id, username: username}
}

// ID returns the referenced user's identifier.
func (r UserRef) ID() string {
	return r.id
}

// Username returns the embedded username, if one was provided.
func (r UserRef) Username() (string, bool) {
	return r.username, r.username != ""
}

// DisplayName returns the embedded username, or the literal "Unknown"
// placeholder when the reference carries only an identifier. Entries are
// never dropped, so counts stay intact even without identity data.
func (r UserRef) DisplayName() string {
	if r.username == "" {
		return "Unknown"
	}
	return r.username
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty user reference")
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UserID(id)
		return nil
	}
	var summary struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return fmt.Errorf("user reference: %w", err)
	}
	*r = UserSummary(summary.ID, summary.Username)
	return nil
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.username == "" {
		return json.Marshal(r.id)
	}
	return json.Marshal(struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	}{r.id, r.username})
}
