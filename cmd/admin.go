/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/skywave/access"
	"github.com/humaidq/skywave/db"
)

// withDatabase runs action with an open pool.
func withDatabase(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := connectDatabase(ctx, cmd); err != nil {
			return err
		}
		defer db.Close()

		return action(ctx, cmd)
	}
}

func parseUserID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", errInvalidUserID, value)
	}

	return id, nil
}

func userFlag() cli.Flag {
	return &cli.StringFlag{Name: "user", Required: true, Usage: "owning user id"}
}

// CmdUser manages users.
var CmdUser = &cli.Command{
	Name:  "user",
	Usage: "Manage users",
	Flags: []cli.Flag{databaseURLFlag()},
	Commands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a user",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true, Usage: "display name"},
			},
			Action: withDatabase(userCreate),
		},
	},
}

func userCreate(ctx context.Context, cmd *cli.Command) error {
	user, err := db.CreateUser(ctx, cmd.String("name"))
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (%s)\n", user.ID, user.DisplayName)

	return nil
}

// CmdStation manages station locations.
var CmdStation = &cli.Command{
	Name:  "station",
	Usage: "Manage station locations",
	Flags: []cli.Flag{databaseURLFlag()},
	Commands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a station location",
			Flags: []cli.Flag{
				userFlag(),
				&cli.StringFlag{Name: "name", Required: true, Usage: "station profile name"},
				&cli.StringFlag{Name: "callsign", Required: true, Usage: "station callsign"},
				&cli.StringFlag{Name: "grid", Usage: "station Maidenhead locator"},
				&cli.BoolFlag{Name: "active", Value: true, Usage: "mark the station active"},
			},
			Action: withDatabase(stationCreate),
		},
	},
}

func stationCreate(ctx context.Context, cmd *cli.Command) error {
	userID, err := parseUserID(cmd.String("user"))
	if err != nil {
		return err
	}

	station, err := db.CreateStation(ctx, userID, cmd.String("name"), cmd.String("callsign"), cmd.String("grid"), cmd.Bool("active"))
	if err != nil {
		return err
	}

	fmt.Printf("Created station %d (%s, %s)\n", station.ID, station.Name, station.Callsign)

	return nil
}

// CmdLogbook manages logbooks and their stations.
var CmdLogbook = &cli.Command{
	Name:  "logbook",
	Usage: "Manage logbooks",
	Flags: []cli.Flag{databaseURLFlag()},
	Commands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a logbook with a public slug",
			Flags: []cli.Flag{
				userFlag(),
				&cli.StringFlag{Name: "name", Required: true, Usage: "logbook name"},
				&cli.StringFlag{Name: "slug", Required: true, Usage: "public slug used by the API"},
			},
			Action: withDatabase(logbookCreate),
		},
		{
			Name:  "link",
			Usage: "Add a station to a logbook",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "logbook", Required: true, Usage: "logbook id"},
				&cli.Int64Flag{Name: "station", Required: true, Usage: "station id"},
			},
			Action: withDatabase(logbookLink),
		},
	},
}

func logbookCreate(ctx context.Context, cmd *cli.Command) error {
	userID, err := parseUserID(cmd.String("user"))
	if err != nil {
		return err
	}

	book, err := db.CreateLogbook(ctx, userID, cmd.String("name"), cmd.String("slug"))
	if err != nil {
		return err
	}

	fmt.Printf("Created logbook %d (%s)\n", book.ID, book.PublicSlug)

	return nil
}

func logbookLink(ctx context.Context, cmd *cli.Command) error {
	if err := db.LinkStation(ctx, cmd.Int64("logbook"), cmd.Int64("station")); err != nil {
		return err
	}

	fmt.Println("Station linked")

	return nil
}

// CmdAPIKey manages API keys.
var CmdAPIKey = &cli.Command{
	Name:  "apikey",
	Usage: "Manage API keys",
	Flags: []cli.Flag{databaseURLFlag()},
	Commands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create an API key; the key is printed once",
			Flags: []cli.Flag{
				userFlag(),
				&cli.BoolFlag{Name: "write", Usage: "grant write rights"},
				&cli.StringFlag{Name: "description", Usage: "free-form note"},
			},
			Action: withDatabase(apiKeyCreate),
		},
		{
			Name:   "list",
			Usage:  "List a user's API keys",
			Flags:  []cli.Flag{userFlag()},
			Action: withDatabase(apiKeyList),
		},
		{
			Name:      "disable",
			Usage:     "Disable an API key",
			ArgsUsage: "<id>",
			Action:    withDatabase(apiKeyDisable),
		},
	},
}

func apiKeyCreate(ctx context.Context, cmd *cli.Command) error {
	userID, err := parseUserID(cmd.String("user"))
	if err != nil {
		return err
	}

	rights := access.RightsRead
	if cmd.Bool("write") {
		rights = access.RightsWrite
	}

	plain, key, err := db.CreateAPIKey(ctx, userID, rights, cmd.String("description"))
	if err != nil {
		return err
	}

	fmt.Printf("Created api key %s with rights %s\n", key.ID, key.Rights)
	fmt.Println(plain)

	return nil
}

func apiKeyList(ctx context.Context, cmd *cli.Command) error {
	userID, err := parseUserID(cmd.String("user"))
	if err != nil {
		return err
	}

	keys, err := db.ListAPIKeys(ctx, userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRIGHTS\tENABLED\tLAST USED\tDESCRIPTION")

	for _, key := range keys {
		lastUsed := "never"
		if key.LastUsed != nil {
			lastUsed = key.LastUsed.UTC().Format("2006-01-02 15:04:05")
		}

		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", key.ID, key.Rights, key.Enabled, lastUsed, key.Description)
	}

	return w.Flush()
}

func apiKeyDisable(ctx context.Context, cmd *cli.Command) error {
	id, err := uuid.Parse(strings.TrimSpace(cmd.Args().First()))
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidKeyID, cmd.Args().First())
	}

	if err := db.DisableAPIKey(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Disabled api key %s\n", id)

	return nil
}
