// Package session reads and writes the saved browser session used to get
// past the target site's bot check.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-rod/rod/lib/proto"
)

// ErrMissing is returned when the session-state file does not exist.
var ErrMissing = errors.New("session file does not exist, run 'fxsheet capture-session' (or 'fxsheet convert-cookies') to create it")

// State is a serialized browsing context: cookies plus per-origin storage.
type State struct {
	Cookies []Cookie `json:"cookies"`
	Origins []Origin `json:"origins"`
}

// Cookie mirrors one entry of the session-state cookie list.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	Expires  float64 `json:"expires"` // unix seconds, -1 for session cookies
	SameSite string  `json:"sameSite"`
}

// Origin holds local-storage entries for one origin.
type Origin struct {
	Origin       string         `json:"origin"`
	LocalStorage []StorageEntry `json:"localStorage"`
}

type StorageEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Load reads a session-state file.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("invalid session file %s, regenerate it: %w", path, err)
	}
	if state.Origins == nil {
		state.Origins = []Origin{}
	}
	return &state, nil
}

// Save writes the state as indented JSON.
func (s *State) Save(path string) error {
	if s.Origins == nil {
		s.Origins = []Origin{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// CookieParams converts the state into parameters the browser accepts.
func (s *State) CookieParams() []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		if p.Path == "" {
			p.Path = "/"
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, p)
	}
	return params
}

// FromBrowser builds a state from cookies read out of a live browser.
func FromBrowser(cookies []*proto.NetworkCookie) *State {
	state := &State{Cookies: make([]Cookie, 0, len(cookies)), Origins: []Origin{}}
	for _, c := range cookies {
		expires := float64(c.Expires)
		if c.Session {
			expires = -1
		}
		sameSite := string(c.SameSite)
		if sameSite == "" {
			sameSite = "Lax"
		}
		state.Cookies = append(state.Cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			Expires:  expires,
			SameSite: sameSite,
		})
	}
	return state
}
