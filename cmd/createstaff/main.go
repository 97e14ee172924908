package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/models"
	"finance-tracker/internal/util"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("createstaff", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	configPath := fs.String("config", "config.yaml", "Path to the config file")
	dbPath := fs.String("db", "", "Database file (overrides database.path from the config)")
	promote := fs.Bool("promote", false, "Grant staff rights to an existing user instead of creating one")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: createstaff -user <username> [-password <password>] [-config <path>] [-db <path>] [-promote]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	cfg, err := config.Read(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var existing models.User
	err = db.Where("LOWER(username) = LOWER(?)", *username).First(&existing).Error
	switch {
	case err == nil && *promote:
		if err := db.Model(&existing).Update("is_staff", true).Error; err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}
		fmt.Fprintf(stdout, "User %s is now staff\n", existing.Username)
		return nil
	case err == nil:
		return fmt.Errorf("user %s already exists (use -promote to grant staff rights)", existing.Username)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to look up user: %w", err)
	case *promote:
		return fmt.Errorf("user %s does not exist", *username)
	}

	if err := util.ValidateUsername(*username); err != nil {
		return err
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if err := util.ValidatePassword(password); err != nil {
		return err
	}

	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     *username,
		PasswordHash: string(hash),
		IsStaff:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "Staff user %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
