package config

import (
	"github.com/pkg/errors"
)

// Profile is one named target: a search property and the warehouse dataset
// its data lands in. Profiles live under the "profiles" key of the main
// config file.
type Profile struct {
	SiteURL              string `mapstructure:"site-url" json:"site-url"`
	CredentialsFile      string `mapstructure:"credentials-file" json:"credentials-file"`
	Project              string `mapstructure:"project" json:"project"`
	Dataset              string `mapstructure:"dataset" json:"dataset"`
	RawTable             string `mapstructure:"raw-table" json:"raw-table"`
	AppearanceTable      string `mapstructure:"appearance-table" json:"appearance-table"`
	AllocTable           string `mapstructure:"alloc-table" json:"alloc-table"`
	CountryDimSQL        string `mapstructure:"country-dim-sql" json:"country-dim-sql"`
	RowLimit             int    `mapstructure:"row-limit" json:"row-limit"`
	RetryIntervalSeconds int    `mapstructure:"retry-interval-seconds" json:"retry-interval-seconds"`
}

const profilesKey = "profiles"

// LoadProfile fetches the named profile from the config file.
func (c *File) LoadProfile(name string) (Profile, error) {
	profiles, err := c.loadProfiles()
	if err != nil {
		return Profile{}, err
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, errors.Errorf("profile %q not found in %v", name, c.FullPath)
	}
	return p, nil
}

// SaveProfile adds or replaces the named profile.
func (c *File) SaveProfile(name string, p Profile) error {
	profiles, err := c.loadProfiles()
	if err != nil {
		return err
	}
	profiles[name] = p
	return c.Set(profilesKey, profiles)
}

// ProfileNames lists the configured profiles.
func (c *File) ProfileNames() ([]string, error) {
	profiles, err := c.loadProfiles()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names, nil
}

func (c *File) loadProfiles() (map[string]Profile, error) {
	profiles := map[string]Profile{}
	err := c.Get(profilesKey, &profiles)
	if err != nil {
		if _, ok := err.(KeyNotFoundError); ok { // if no profiles are configured yet...
			return profiles, nil
		}
		return nil, err
	}
	return profiles, nil
}
