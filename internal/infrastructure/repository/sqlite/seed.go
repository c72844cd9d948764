package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

type seedUser struct {
	name     string
	email    string
	password string
}

type seedProduct struct {
	name        string
	description string
	price       string
	ownerEmail  string
}

var seedUsers = []seedUser{
	{name: "Admin MG Gourmet", email: "admin@mggourmet.com", password: "admin123"},
	{name: "Demo User", email: "demo@mggourmet.com", password: "demo123"},
}

var seedProducts = []seedProduct{
	{
		name:        "Din Din Gourmet Frango",
		description: "Delicioso din din gourmet de frango com temperos especiais e legumes frescos.",
		price:       "25.90",
		ownerEmail:  "admin@mggourmet.com",
	},
	{
		name:        "Din Din Gourmet Carne",
		description: "Din din gourmet de carne bovina com molho especial e acompanhamentos selecionados.",
		price:       "28.90",
		ownerEmail:  "admin@mggourmet.com",
	},
	{
		name:        "Din Din Gourmet Peixe",
		description: "Din din gourmet de peixe grelhado com ervas aromáticas e vegetais orgânicos.",
		price:       "32.90",
		ownerEmail:  "admin@mggourmet.com",
	},
	{
		name:        "Din Din Vegetariano",
		description: "Din din gourmet vegetariano com quinoa, legumes e molho de ervas finas.",
		price:       "22.90",
		ownerEmail:  "admin@mggourmet.com",
	},
	{
		name:        "Din Din Gourmet Premium",
		description: "Nossa opção premium com ingredientes selecionados e apresentação especial.",
		price:       "39.90",
		ownerEmail:  "admin@mggourmet.com",
	},
	{
		name:        "Din Din Light",
		description: "Versão light e saudável do nosso din din gourmet, ideal para dietas.",
		price:       "24.90",
		ownerEmail:  "demo@mggourmet.com",
	},
}

// Seed loads the demo users and catalog. It is a no-op when the first demo
// user already exists, so it is safe to run on every boot.
func Seed(ctx context.Context, users domain.UserRepository, products domain.ProductRepository, logger *slog.Logger) error {
	if _, err := users.FindByEmail(ctx, seedUsers[0].email); err == nil {
		logger.Debug("Seed skipped, demo data already present")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: check existing users: %w", err)
	}

	owners := make(map[string]int64, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}
		user := &domain.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: string(hash),
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed: create user %s: %w", su.email, err)
		}
		owners[su.email] = user.ID
	}

	for _, sp := range seedProducts {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			return fmt.Errorf("seed: parse price for %s: %w", sp.name, err)
		}
		product, err := domain.NewProduct(sp.name, sp.description, price, owners[sp.ownerEmail])
		if err != nil {
			return fmt.Errorf("seed: build product %s: %w", sp.name, err)
		}
		if err := products.Create(ctx, product); err != nil {
			return fmt.Errorf("seed: create product %s: %w", sp.name, err)
		}
	}

	logger.Info("Database seeded",
		slog.Int("users", len(seedUsers)),
		slog.Int("products", len(seedProducts)),
	)
	return nil
}
