// Package config loads service settings and tracker credential profiles.
package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile is one named tracker credential set.
type Profile struct {
	Name          string
	Host          string
	SessionCookie string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, name string) (Profile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// NewRegistry loads a credentials file of ini sections, each carrying the
// tracker host and the session cookie for that profile.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]Profile, error) {
	var profiles []Profile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, profileFromSection(section))
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s not found", name)
	}
	return profileFromSection(section), nil
}

func profileFromSection(section *ini.Section) Profile {
	return Profile{
		Name:          section.Name(),
		Host:          section.Key("host").String(),
		SessionCookie: section.Key("session_cookie").String(),
	}
}
