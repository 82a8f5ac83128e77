package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/qfactory/mes-helper/internal/app"
	"github.com/qfactory/mes-helper/internal/core/domain"
)

// credentials are the flags shared by every command that logs in.
type credentials struct {
	user     string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.user, "user", "u", "", "MES user key")
	cmd.Flags().StringVarP(&c.password, "password", "p", "", "MES password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("user")
}

// promptPassword asks for the password with masked input.
var promptPassword = func() (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show("MES password")
}

// login opens the application and authenticates. The returned session id is
// only used inside this process.
func (r *runner) login(ctx context.Context, c credentials) (*app.App, string, domain.Profile, error) {
	password := c.password
	if password == "" {
		p, err := promptPassword()
		if err != nil {
			return nil, "", domain.Profile{}, err
		}
		password = p
	}

	a, err := r.open(ctx)
	if err != nil {
		return nil, "", domain.Profile{}, err
	}
	res, err := a.Queries.Login(ctx, c.user, password)
	if err != nil {
		_ = a.Close(ctx)
		return nil, "", domain.Profile{}, err
	}
	return a, res.SessionID, res.Profile, nil
}

func newLoginCommand(r *runner) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check MES credentials and show the login profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, id, profile, err := r.login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			return renderProfile(cmd.OutOrStdout(), id, profile)
		},
	}
	creds.bind(cmd)
	return cmd
}

func renderProfile(w io.Writer, sessionID string, p domain.Profile) error {
	fmt.Fprint(w, pterm.Success.Sprintln("login success"))
	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"session_id", sessionID},
		{"userKey", p.UserKey},
		{"userName", p.DisplayName},
		{"companyCode", p.CompanyCode},
		{"companyId", p.CompanyID.String()},
		{"plantId", p.PlantID.String()},
		{"plantCode", p.PlantCode},
		{"languageCode", p.LanguageCode},
	}).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
