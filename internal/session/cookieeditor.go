package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// EditorCookie is one entry of a Cookie-Editor browser extension export.
type EditorCookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	HTTPOnly       bool    `json:"httpOnly"`
	Secure         bool    `json:"secure"`
	ExpirationDate float64 `json:"expirationDate"`
	SameSite       string  `json:"sameSite"`
	HostOnly       bool    `json:"hostOnly"`
	Session        bool    `json:"session"`
	StoreID        string  `json:"storeId"`
}

// FromCookieEditor converts a Cookie-Editor export into session state.
// The export carries no local storage, so Origins is always empty.
func FromCookieEditor(export []EditorCookie) *State {
	state := &State{Cookies: make([]Cookie, 0, len(export)), Origins: []Origin{}}
	for _, c := range export {
		expires := c.ExpirationDate
		if expires == 0 {
			expires = -1
		}
		state.Cookies = append(state.Cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			Expires:  expires,
			SameSite: mapSameSite(c.SameSite),
		})
	}
	return state
}

func mapSameSite(v string) string {
	switch strings.ToLower(v) {
	case "no_restriction":
		return "None"
	case "strict":
		return "Strict"
	default:
		// "lax", "unspecified" and anything unknown
		return "Lax"
	}
}

// ConvertFile reads a Cookie-Editor export and writes a session-state file.
func ConvertFile(in, out string) (*State, error) {
	data, err := os.ReadFile(in)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("input file %s not found, save the Cookie-Editor JSON export there", in)
	}
	if err != nil {
		return nil, err
	}

	var export []EditorCookie
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("could not decode JSON from %s: %w", in, err)
	}

	state := FromCookieEditor(export)
	if err := state.Save(out); err != nil {
		return nil, err
	}
	return state, nil
}
