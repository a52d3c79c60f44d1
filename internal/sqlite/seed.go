// This file implements fixture seeding from a YAML file.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lockerhq/locker/pkg/types"
)

// SeedUser is one account in a fixtures file, with the items it starts out
// holding.
type SeedUser struct {
	Login    string   `yaml:"login"`
	Password string   `yaml:"password"`
	Items    []string `yaml:"items"`
}

// SeedFixtures is the root of a fixtures file.
type SeedFixtures struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedFile reads and validates a YAML fixtures file.
func LoadSeedFile(path string) (*SeedFixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures file: %w", err)
	}

	var fixtures SeedFixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parsing fixtures file: %w", err)
	}

	for i, u := range fixtures.Users {
		if u.Login == "" {
			return nil, fmt.Errorf("fixtures user %d: login must not be empty", i)
		}
		if u.Password == "" {
			return nil, fmt.Errorf("fixtures user %d (%s): password must not be empty", i, u.Login)
		}
	}

	return &fixtures, nil
}

// Seed creates the fixture users and their items. Users whose login already
// exists are skipped entirely. progress, when non-nil, is called once per
// fixture user. Returns the number of users created and skipped.
func (b *Backend) Seed(ctx context.Context, fixtures *SeedFixtures, progress func()) (created, skipped int, err error) {
	users, err := b.Users()
	if err != nil {
		return 0, 0, err
	}
	items, err := b.Items()
	if err != nil {
		return 0, 0, err
	}

	for _, su := range fixtures.Users {
		user := &types.User{Login: su.Login}
		if err := user.SetPassword(su.Password); err != nil {
			return created, skipped, fmt.Errorf("hashing password for %s: %w", su.Login, err)
		}

		err := users.Create(ctx, user)
		if errors.Is(err, types.ErrLoginTaken) {
			skipped++
			if progress != nil {
				progress()
			}
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("creating user %s: %w", su.Login, err)
		}

		for _, name := range su.Items {
			item := &types.Item{UserID: user.ID, Name: name}
			if err := items.Create(ctx, item); err != nil {
				return created, skipped, fmt.Errorf("creating item %s for %s: %w", name, su.Login, err)
			}
		}

		created++
		if progress != nil {
			progress()
		}
	}

	return created, skipped, nil
}
