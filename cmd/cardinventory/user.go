package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/DannyJSullivan/card-inventory-api/internal/app"
	"github.com/DannyJSullivan/card-inventory-api/internal/domain"
	"github.com/DannyJSullivan/card-inventory-api/internal/service"
)

// flagChange is one account toggle exposed as a user subcommand.
type flagChange struct {
	use   string
	short string
	apply func(ctx context.Context, admin *service.UserAdmin, username string) (*domain.User, error)
}

var flagChanges = []flagChange{
	{
		use:   "activate",
		short: "Allow a user to access protected endpoints",
		apply: func(ctx context.Context, a *service.UserAdmin, u string) (*domain.User, error) { return a.SetActive(ctx, u, true) },
	},
	{
		use:   "deactivate",
		short: "Block a user from protected endpoints",
		apply: func(ctx context.Context, a *service.UserAdmin, u string) (*domain.User, error) { return a.SetActive(ctx, u, false) },
	},
	{
		use:   "promote",
		short: "Grant the admin flag",
		apply: func(ctx context.Context, a *service.UserAdmin, u string) (*domain.User, error) { return a.SetAdmin(ctx, u, true) },
	},
	{
		use:   "demote",
		short: "Revoke the admin flag",
		apply: func(ctx context.Context, a *service.UserAdmin, u string) (*domain.User, error) { return a.SetAdmin(ctx, u, false) },
	},
}

// NewUserCmd creates the user subcommand and its account toggles.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	for _, fc := range flagChanges {
		cmd.AddCommand(newFlagChangeCmd(fc))
	}
	return cmd
}

func newFlagChangeCmd(fc flagChange) *cobra.Command {
	return &cobra.Command{
		Use:   fc.use + " <username>",
		Short: fc.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			admin, closeFn, err := app.NewUserAdmin(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := fc.apply(cmd.Context(), admin, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%s: active=%t admin=%t\n", user.Username, user.IsActive, user.IsAdmin)
			return nil
		},
	}
}
