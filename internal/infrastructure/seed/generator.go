// Package seed fills a development database with fake users and items.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// DefaultPassword is the password every seeded account gets
const DefaultPassword = "sickfits123"

// Generator produces valid domain objects from gofakeit data.
// A fixed seed gives the same sequence on every run.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator; seed 0 picks a random seed
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// User returns a new user with the default permission set
func (g *Generator) User() (*identity.User, error) {
	first := g.faker.FirstName()
	last := g.faker.LastName()
	email := fmt.Sprintf("%s.%s.%d@%s",
		emailPart(first), emailPart(last), g.faker.Number(1000, 9999), g.faker.DomainName())
	return identity.NewUser(email, first+" "+last, DefaultPassword)
}

func emailPart(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(s))
}

// Item returns a new item owned by ownerID. Prices are whole cents between
// 5.00 and 250.00.
func (g *Generator) Item(ownerID uuid.UUID) (*catalog.Item, error) {
	title := fmt.Sprintf("%s %s", g.faker.ProductName(), g.faker.ProductCategory())
	if len(title) > 200 {
		title = title[:200]
	}
	price := int64(g.faker.Number(500, 25000))
	image := fmt.Sprintf("https://picsum.photos/seed/%d/600/400", g.faker.Number(1, 1_000_000))
	return catalog.NewItem(ownerID, title, g.faker.Paragraph(1, 3, 10, " "), price, image, image+"?large=1")
}

// Repositories are the stores a Seeder writes to
type Repositories struct {
	Users identity.UserRepository
	Items catalog.ItemRepository
}

// Seeder writes generated data through the domain repositories
type Seeder struct {
	gen    *Generator
	repos  Repositories
	logger *zap.Logger
}

// NewSeeder creates a seeder
func NewSeeder(gen *Generator, repos Repositories, logger *zap.Logger) *Seeder {
	return &Seeder{gen: gen, repos: repos, logger: logger}
}

// Result counts what a Run created
type Result struct {
	Users int
	Items int
	Admin *identity.User
}

// Run creates one admin plus users, each selling itemsPerUser items. The
// admin signs in as admin@sickfits.local with DefaultPassword.
func (s *Seeder) Run(ctx context.Context, users, itemsPerUser int) (*Result, error) {
	res := &Result{}

	admin, err := identity.NewUser("admin@sickfits.local", "Sick Fits Admin", DefaultPassword)
	if err != nil {
		return nil, err
	}
	admin.ReplacePermissions(identity.NewPermissionSet(identity.PermissionAdmin, identity.PermissionUser,
		identity.PermissionItemCreate, identity.PermissionItemUpdate, identity.PermissionItemDelete,
		identity.PermissionPermissionUpdate))
	if err := s.repos.Users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	res.Admin = admin
	res.Users++

	for i := 0; i < users; i++ {
		user, err := s.gen.User()
		if err != nil {
			return res, err
		}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return res, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		res.Users++

		for j := 0; j < itemsPerUser; j++ {
			item, err := s.gen.Item(user.ID)
			if err != nil {
				return res, err
			}
			if err := s.repos.Items.Create(ctx, item); err != nil {
				return res, fmt.Errorf("create item %q: %w", item.Title, err)
			}
			res.Items++
		}
		s.logger.Debug("Seeded user", zap.String("email", user.Email), zap.Int("items", itemsPerUser))
	}

	s.logger.Info("Seed complete", zap.Int("users", res.Users), zap.Int("items", res.Items))
	return res, nil
}
