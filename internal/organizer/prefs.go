package organizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// PrefDateFormat selects the display layout for extracted timestamps.
const PrefDateFormat = "date_format"

// Preferences is a thin schema over the preferences key of the KeyValue
// collaborator: a flat name-to-value map.
type Preferences struct {
	kv KeyValue
}

func NewPreferences(kv KeyValue) *Preferences {
	return &Preferences{kv: kv}
}

// Get returns the value stored under name. Missing names and read failures
// both yield ok=false; callers fall back to their defaults.
func (p *Preferences) Get(ctx context.Context, name string) (string, bool) {
	prefs, err := p.readAll(ctx)
	if err != nil {
		return "", false
	}
	v, ok := prefs[name]
	return v, ok
}

// Set stores value under name, preserving all other preferences.
func (p *Preferences) Set(ctx context.Context, name, value string) error {
	prefs, err := p.readAll(ctx)
	if err != nil {
		return fmt.Errorf("reading preferences: %w", err)
	}

	prefs[name] = value

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := p.kv.Set(ctx, preferencesKey, data); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// All returns every stored preference.
func (p *Preferences) All(ctx context.Context) (map[string]string, error) {
	return p.readAll(ctx)
}

func (p *Preferences) readAll(ctx context.Context) (map[string]string, error) {
	data, err := p.kv.Get(ctx, preferencesKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	prefs := map[string]string{}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	return prefs, nil
}
