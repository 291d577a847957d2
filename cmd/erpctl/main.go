// Command erpctl runs operator tasks against the college ERP database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	appRepos "github.com/yigit/collegeerp/internal/app/repositories"
	appServices "github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/bootstrap"
	"github.com/yigit/collegeerp/internal/config"
	pkgAuth "github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/logger"
	"github.com/yigit/collegeerp/internal/seed"
)

var readPasswordFunc = term.ReadPassword // mockable

var errPasswordMismatch = errors.New("passwords do not match")

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("erpctl failed")
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "erpctl",
		Usage:     "operate the college ERP database",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: bootstrap.DefaultConfigPath, Usage: "path to the YAML config file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending SQL migrations",
				Action: func(c *cli.Context) error {
					return withEnv(c, func(env *environment) error {
						if env.cfg.Database.Driver == config.DriverMemory {
							fmt.Fprintln(out, "The memory driver has no schema to migrate")
							return nil
						}
						fmt.Fprintln(out, "Migrations applied")
						return nil
					})
				},
			},
			{
				Name:  "seed",
				Usage: "create the demo department, class, course and accounts",
				Action: func(c *cli.Context) error {
					return withEnv(c, func(env *environment) error {
						if err := seed.CreateDefaultData(c.Context, env.repos, seed.DefaultOptions, env.logger); err != nil {
							return err
						}
						fmt.Fprintln(out, "Demo data ready")
						return nil
					})
				},
			},
			{
				Name:  "createsuperuser",
				Usage: "create an admin account with full write access",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "password", Usage: "prompted for when omitted"},
				},
				Action: func(c *cli.Context) error {
					password, err := passwordFrom(c, out)
					if err != nil {
						return err
					}
					return withEnv(c, func(env *environment) error {
						user, err := env.auth.CreateSuperuser(c.Context, c.String("username"), c.String("email"), password)
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "Superuser %s created (id %d)\n", user.Username, user.ID)
						return nil
					})
				},
			},
			{
				Name:  "changepassword",
				Usage: "set a new password for an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Usage: "prompted for when omitted"},
				},
				Action: func(c *cli.Context) error {
					password, err := passwordFrom(c, out)
					if err != nil {
						return err
					}
					return withEnv(c, func(env *environment) error {
						if err := env.auth.ChangePassword(c.Context, c.String("username"), password); err != nil {
							return err
						}
						fmt.Fprintf(out, "Password changed for %s\n", c.String("username"))
						return nil
					})
				},
			},
		},
	}
}

// passwordFrom returns --password or prompts twice on the terminal
func passwordFrom(c *cli.Context, out io.Writer) (string, error) {
	if p := c.String("password"); p != "" {
		return p, nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(out, "Password (again): ")
	second, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	if strings.TrimSpace(string(first)) == "" {
		return "", errors.New("password must not be blank")
	}
	return string(first), nil
}

type environment struct {
	cfg    *config.Config
	repos  *appRepos.Repositories
	auth   appServices.AuthService
	logger zerolog.Logger
}

// withEnv loads config, opens (and migrates) the database and runs fn
func withEnv(c *cli.Context, fn func(env *environment) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	database, repos, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	pkgAuth.SetBcryptCost(cfg.Auth.BcryptCost)
	return fn(&environment{
		cfg:    cfg,
		repos:  repos,
		auth:   appServices.NewAuthService(repos, lgr),
		logger: lgr,
	})
}
