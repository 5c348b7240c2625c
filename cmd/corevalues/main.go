package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"testgen/internal/config"
	"testgen/internal/firestore"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
	"testgen/internal/repository"
)

// defaultValues is appended by seed when no -values flag is given
var defaultValues = []model.CoreValue{
	{Name: "Integrity", Description: "We do the right thing, even when no one is watching."},
	{Name: "Accountability", Description: "We own our commitments and their outcomes."},
	{Name: "Respect", Description: "We listen and treat every colleague fairly."},
	{Name: "Collaboration", Description: "We win together across teams."},
}

const usage = `usage: corevalues <command> [flags]

commands:
  seed   append core values to a user's list
  dump   print a user's core values as JSON

flags:
  -user    user id (required)
  -token   ID token; defaults to $ID_TOKEN
  -values  seed only: "Name:Description,Name2:Description2"
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	userID := fs.String("user", "", "user id")
	token := fs.String("token", os.Getenv("ID_TOKEN"), "ID token")
	values := fs.String("values", "", "comma separated Name:Description pairs")
	_ = fs.Parse(os.Args[2:])

	if *userID == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store := firestore.NewClient(firestore.Config{
		ProjectID: cfg.FirebaseProjectID,
		BaseURL:   cfg.FirestoreBaseURL,
		Timeout:   cfg.StoreTimeout,
	}, log)
	repo := repository.NewCoreValueRepo(store, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {
	case "seed":
		list := defaultValues
		if *values != "" {
			if list, err = parseValues(*values); err != nil {
				log.Fatal("invalid -values", "error", err)
			}
		}
		// seed appends; an unreadable list is never overwritten
		current, err := repo.Get(ctx, *token, *userID)
		if err != nil {
			log.Fatal("failed to load core values", "user_id", *userID, "error", err)
		}
		next := append(model.CopyCoreValues(current), list...)
		if err := repo.Save(ctx, *token, *userID, next); err != nil {
			log.Fatal("failed to save core values", "user_id", *userID, "error", err)
		}
		fmt.Printf("Added %d core values for user '%s' (%d total)\n", len(list), *userID, len(next))
	case "dump":
		list, err := repo.Get(ctx, *token, *userID)
		if err != nil {
			log.Fatal("failed to load core values", "user_id", *userID, "error", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(list)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// parseValues reads "Name:Description" pairs; the description is optional
func parseValues(s string) ([]model.CoreValue, error) {
	var out []model.CoreValue
	for _, part := range strings.Split(s, ",") {
		name, desc, _ := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty core value name in %q", part)
		}
		out = append(out, model.CoreValue{Name: name, Description: strings.TrimSpace(desc)})
	}
	return out, nil
}
