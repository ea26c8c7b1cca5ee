// Package story holds the static story configuration bundle: title, setting,
// genre, and the character roster. The bundle is loaded once at startup from
// a TOML file and is read-only to the rest of the system.
package story

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrNoPlayerCharacter is returned when the roster declares no player character.
var ErrNoPlayerCharacter = errors.New("story has no player character")

// Config is the static story configuration supplied once at startup.
type Config struct {
	Title      string      `toml:"title"`
	Setting    string      `toml:"setting"`
	Genre      string      `toml:"genre"`
	Characters []Character `toml:"characters"`
}

// Character describes one member of the story roster.
type Character struct {
	Name              string `toml:"name"`
	Personality       string `toml:"personality"`
	Background        string `toml:"background"`
	Motivation        string `toml:"motivation"`
	IsPlayerCharacter bool   `toml:"is_player_character"`
}

// Load reads and validates a story configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story config: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing story config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural requirements on the bundle.
func (c *Config) Validate() error {
	if c.Title == "" {
		return errors.New("story title is required")
	}
	if c.Setting == "" {
		return errors.New("story setting is required")
	}
	if len(c.Characters) == 0 {
		return errors.New("story has no characters")
	}

	players := 0
	for i, ch := range c.Characters {
		if ch.Name == "" {
			return fmt.Errorf("character %d has no name", i)
		}
		if ch.IsPlayerCharacter {
			players++
		}
	}
	if players == 0 {
		return ErrNoPlayerCharacter
	}
	if players > 1 {
		return errors.New("story declares more than one player character")
	}

	return nil
}

// PlayerCharacter returns the roster entry marked as the player character.
func (c *Config) PlayerCharacter() Character {
	for _, ch := range c.Characters {
		if ch.IsPlayerCharacter {
			return ch
		}
	}
	// Validate guarantees one exists; zero value keeps callers total.
	return Character{}
}

// NonPlayerCharacters returns the roster without the player character.
func (c *Config) NonPlayerCharacters() []Character {
	out := make([]Character, 0, len(c.Characters))
	for _, ch := range c.Characters {
		if !ch.IsPlayerCharacter {
			out = append(out, ch)
		}
	}
	return out
}

// Roster renders the character list as a prompt-ready text block, one
// character per line.
func (c *Config) Roster() string {
	var b strings.Builder
	for _, ch := range c.NonPlayerCharacters() {
		fmt.Fprintf(&b, "- %s: %s", ch.Name, ch.Personality)
		if ch.Motivation != "" {
			fmt.Fprintf(&b, " Motivation: %s", ch.Motivation)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
