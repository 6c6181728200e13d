package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     Role   `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile registers bootstrap accounts listed in a YAML file. Entries
// whose email already exists are skipped, so seeding is idempotent.
func (s *Service) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, u := range sf.Users {
		if u.Email == "" || u.Password == "" {
			continue
		}
		if _, _, err := s.Register(ctx, u.Name, u.Email, u.Password, u.Role); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return nil
}
