package repo

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pkordes/shareit/internal/domain"
)

// Demo is the data SeedDemo created.
type Demo struct {
	Owner   domain.User
	Bookers []domain.User
	Items   []domain.Item
}

// SeedDemo creates one owner with itemCount available items and bookerCount
// other users, with names drawn from faker. User and item management is not
// exposed over HTTP, so this is how a fresh store gets someone to book.
func SeedDemo(ctx context.Context, users UserRepo, items ItemRepo, faker *gofakeit.Faker, bookerCount, itemCount int) (Demo, error) {
	newUser := func() (domain.User, error) {
		return users.Create(ctx, domain.User{
			Name:  faker.Name(),
			Email: faker.Username() + "." + faker.UUID()[:8] + "@" + faker.DomainName(),
		})
	}

	var (
		demo Demo
		err  error
	)
	if demo.Owner, err = newUser(); err != nil {
		return Demo{}, fmt.Errorf("repo.SeedDemo: owner: %w", err)
	}
	for range bookerCount {
		u, err := newUser()
		if err != nil {
			return Demo{}, fmt.Errorf("repo.SeedDemo: booker: %w", err)
		}
		demo.Bookers = append(demo.Bookers, u)
	}
	for range itemCount {
		it, err := items.Create(ctx, domain.Item{
			OwnerID:     demo.Owner.ID,
			Name:        faker.ProductName(),
			Description: faker.ProductDescription(),
			Available:   true,
		})
		if err != nil {
			return Demo{}, fmt.Errorf("repo.SeedDemo: item: %w", err)
		}
		demo.Items = append(demo.Items, it)
	}
	return demo, nil
}
