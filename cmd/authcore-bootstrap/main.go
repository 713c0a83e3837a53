// Command authcore-bootstrap prepares a fresh deployment: it migrates the
// identity schema and creates the superuser role and the first superuser
// account. Running it against an already-bootstrapped database is a no-op.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	authcore "github.com/vterekhov/authcore"
	"github.com/vterekhov/authcore/identity"
	"github.com/vterekhov/authcore/password"
)

func main() {
	// A missing .env file is fine; real deployments pass the environment
	// directly.
	_ = godotenv.Load()

	var (
		dsn    = flag.String("dsn", os.Getenv("AUTHCORE_DSN"), "Postgres DSN")
		login  = flag.String("login", os.Getenv("AUTHCORE_SUPERUSER_LOGIN"), "superuser login")
		passwd = flag.String("password", os.Getenv("AUTHCORE_SUPERUSER_PASSWORD"), "superuser password")
	)
	flag.Parse()

	if *dsn == "" || *login == "" || *passwd == "" {
		log.Fatal("dsn, login, and password are required (flags or AUTHCORE_* environment)")
	}

	if err := run(context.Background(), *dsn, *login, *passwd); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
}

func run(ctx context.Context, dsn, login, passwd string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	store := identity.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	cfg := authcore.DefaultConfig()
	superuserRole := cfg.Account.SuperuserRole

	_, err = store.CreateRole(ctx, authcore.RoleRecord{
		Name:        superuserRole,
		Description: "full administrative access",
	})
	switch {
	case err == nil:
		log.Printf("created role %q", superuserRole)
	case errors.Is(err, authcore.ErrRoleExists):
		log.Printf("role %q already exists", superuserRole)
	default:
		return fmt.Errorf("create role: %w", err)
	}

	_, err = store.CreateRole(ctx, authcore.RoleRecord{
		Name:        cfg.Account.DefaultRole,
		Description: "regular account",
	})
	if err != nil && !errors.Is(err, authcore.ErrRoleExists) {
		return fmt.Errorf("create default role: %w", err)
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return fmt.Errorf("configure hasher: %w", err)
	}

	hash, err := hasher.Hash(passwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := store.CreateUser(ctx, authcore.CreateUserInput{
		Login:        login,
		PasswordHash: hash,
		Role:         superuserRole,
	})
	switch {
	case err == nil:
		log.Printf("created superuser %q (id %s)", login, user.UserID)
	case errors.Is(err, authcore.ErrUserExists):
		log.Printf("superuser %q already exists", login)
	default:
		return fmt.Errorf("create superuser: %w", err)
	}

	return nil
}
