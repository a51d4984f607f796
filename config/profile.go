// Package config loads simulation profiles from INI files.
//
// Each section of the file describes one profile:
//
//	[fast]
//	Type = Simulations
//	Name = Counting, 8 threads
//	Threads = 8
//	GameBackupAmount = 5000
//	Deck = QueueDeck
//	Logic = CountingLogic
//	BackupDir = /tmp/hilo
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/timpalpant/hilo"
)

const (
	SimulationsType = "Simulations"

	DefaultThreads          = 1
	DefaultGameBackupAmount = 1000
)

// Profile is one validated simulation configuration.
type Profile struct {
	Section          string
	Name             string
	Threads          int
	GameBackupAmount int
	Deck             string
	Logic            string
	// Empty when game history should not be saved.
	BackupDir string
	// Zero means seed from the clock.
	Seed uint64
}

func (p Profile) String() string {
	return fmt.Sprintf("%s: %d threads, %d games per window, %s, %s",
		p.Name, p.Threads, p.GameBackupAmount, p.Deck, p.Logic)
}

// ProfileError records why a section could not be used as a profile.
type ProfileError struct {
	Section string
	Err     error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile [%s]: %v", e.Section, e.Err)
}

func (e *ProfileError) Cause() error {
	return e.Err
}

// Load parses profiles from source, which may be a filename or []byte.
// Sections that do not describe a valid profile are skipped and returned
// as *ProfileError. The returned error is non-nil only if source could
// not be read at all.
func Load(source interface{}) ([]Profile, []error, error) {
	f, err := ini.Load(source)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}

	var profiles []Profile
	var invalid []error
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}

		p, err := parseProfile(sec)
		if err != nil {
			invalid = append(invalid, &ProfileError{Section: sec.Name(), Err: err})
			continue
		}
		profiles = append(profiles, p)
	}

	return profiles, invalid, nil
}

func parseProfile(sec *ini.Section) (Profile, error) {
	if typ := sec.Key("Type").String(); typ != SimulationsType {
		return Profile{}, errors.Errorf("unsupported type %q", typ)
	}

	p := Profile{
		Section:          sec.Name(),
		Name:             sec.Key("Name").MustString(sec.Name()),
		Threads:          DefaultThreads,
		GameBackupAmount: DefaultGameBackupAmount,
		Deck:             sec.Key("Deck").MustString(hilo.DefaultDeckName),
		Logic:            sec.Key("Logic").MustString(hilo.DefaultStrategyName),
		BackupDir:        strings.TrimSpace(sec.Key("BackupDir").String()),
	}

	var err error
	if sec.HasKey("Threads") {
		if p.Threads, err = sec.Key("Threads").Int(); err != nil {
			return Profile{}, errors.Wrap(err, "Threads")
		}
	}
	if sec.HasKey("GameBackupAmount") {
		if p.GameBackupAmount, err = sec.Key("GameBackupAmount").Int(); err != nil {
			return Profile{}, errors.Wrap(err, "GameBackupAmount")
		}
	}
	if sec.HasKey("Seed") {
		if p.Seed, err = sec.Key("Seed").Uint64(); err != nil {
			return Profile{}, errors.Wrap(err, "Seed")
		}
	}

	return p, p.Validate()
}

// Validate checks that the profile can be used to build a pool.
func (p Profile) Validate() error {
	if p.Threads < 1 {
		return errors.Errorf("Threads must be at least 1, got %d", p.Threads)
	}
	if p.GameBackupAmount < 1 {
		return errors.Errorf("GameBackupAmount must be at least 1, got %d", p.GameBackupAmount)
	}
	if _, err := hilo.NewDeckByName(p.Deck, 0); err != nil {
		return err
	}
	if _, err := hilo.StrategyByName(p.Logic); err != nil {
		return err
	}
	return nil
}

// Find returns the profile whose section or name matches key.
func Find(profiles []Profile, key string) (Profile, bool) {
	for _, p := range profiles {
		if p.Section == key || p.Name == key {
			return p, true
		}
	}
	return Profile{}, false
}
