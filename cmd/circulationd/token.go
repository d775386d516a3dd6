package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/httpapi"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
)

var (
	errMissingOwner = errors.New("-owner is required")
	errMissingActor = errors.New("-actor is required")
)

func issueToken(args []string) error {
	flags := flag.NewFlagSet("token", flag.ContinueOnError)
	owner := flags.String("owner", "", "owner (tenant) id")
	role := flags.String("role", string(core.RoleLibrary), `Library or "Book Store"`)
	actor := flags.String("actor", "", "staff member recorded in override audits")
	ttl := flags.Duration("ttl", 12*time.Hour, "token lifetime")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *owner == "" {
		return errMissingOwner
	}

	if *actor == "" {
		return errMissingActor
	}

	ownerID, err := uuid.Parse(*owner)
	if err != nil {
		return fmt.Errorf("parsing -owner: %w", err)
	}

	if !core.Role(*role).IsValid() {
		return fmt.Errorf("unknown role %q", *role)
	}

	token, err := httpapi.IssueToken(config.Load().Auth.JWTSecret, httpapi.Principal{
		OwnerID: ownerID,
		Role:    core.Role(*role),
		Actor:   *actor,
	}, *ttl, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}
