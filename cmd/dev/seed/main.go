package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"mcanlodge/internal/accommodation"
	"mcanlodge/internal/product"
	"mcanlodge/internal/user"
	"mcanlodge/pkg/config"
	"mcanlodge/pkg/db"
)

func main() {
	var (
		adminEmail    = flag.String("admin-email", "admin@mcanlodge.local", "admin account email")
		adminPassword = flag.String("admin-password", "", "admin account password (required)")
		withSamples   = flag.Bool("samples", true, "seed sample accommodations and products")
	)
	flag.Parse()

	if *adminPassword == "" {
		fmt.Fprintln(os.Stderr, "missing -admin-password")
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	users := user.NewRepository(pool)
	if existing, err := users.FindByEmail(ctx, *adminEmail); err == nil {
		fmt.Printf("admin already exists: %s (%s)\n", existing.Email, existing.ID)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
			os.Exit(1)
		}
		admin, err := users.Create(ctx, *adminEmail, "Lodge Admin", string(hash), user.RoleAdmin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("admin created: %s (%s)\n", admin.Email, admin.ID)
	}

	if !*withSamples {
		return
	}

	rooms := accommodation.NewRepository(pool)
	for _, seed := range []struct {
		name, desc, location, price string
		capacity                    int
	}{
		{"Brothers Hall A", "Shared hall, bunk beds", "Main lodge, ground floor", "1500.00", 12},
		{"Brothers Hall B", "Shared hall, bunk beds", "Main lodge, first floor", "1500.00", 12},
		{"Family Suite", "Private room with en-suite bath", "Annex block", "5000.00", 4},
	} {
		a, err := rooms.Create(ctx, seed.name, seed.desc, seed.location, seed.price, seed.capacity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed accommodation %q: %v\n", seed.name, err)
			os.Exit(1)
		}
		fmt.Printf("accommodation: %s (%s)\n", a.Name, a.ID)
	}

	products := product.NewRepository(pool)
	for _, seed := range []product.Product{
		{Name: "Lodge T-Shirt", Description: "Branded cotton t-shirt", Price: "2500.00", Category: "apparel", Stock: 50, IsActive: true},
		{Name: "Prayer Mat", Description: "Standard prayer mat", Price: "3500.00", Category: "essentials", Stock: 30, IsActive: true},
		{Name: "Water Bottle", Description: "1L reusable bottle", Price: "1200.00", Category: "essentials", Stock: 100, IsActive: true},
	} {
		p, err := products.Upsert(ctx, seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed product %q: %v\n", seed.Name, err)
			os.Exit(1)
		}
		fmt.Printf("product: %s (%s)\n", p.Name, p.ID)
	}

	fmt.Println("seed complete")
}
