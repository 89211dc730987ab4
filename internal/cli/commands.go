package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brimblehq/licenses/internal/helpers"
	"github.com/brimblehq/licenses/internal/license"
	"github.com/brimblehq/licenses/internal/logging"
	"github.com/brimblehq/licenses/internal/types"
	"github.com/brimblehq/licenses/internal/ui"
)

var errNoValidLicense = errors.New("no valid license")

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all stored license keys",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := a.session.Refresh()
			if err != nil {
				return err
			}

			ui.RenderStatus(cmd.OutOrStdout(), active)

			if check && active == nil {
				return reportedError{err: errNoValidLicense}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Exit with status 1 when no license is valid")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "add [key]",
		Short: "Add a license key",
		Long: `Add a license key. Without an argument the key is prompted for,
or read from stdin when stdin is not a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd, args, notify)
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Show a desktop notification once the key is added")
	return cmd
}

func (a *app) runAdd(cmd *cobra.Command, args []string, notify bool) error {
	out := cmd.OutOrStdout()

	var (
		input string
		err   error
	)

	switch {
	case len(args) > 0:
		input = strings.Join(args, "\n")
	case a.isTerminal():
		input, err = ui.PromptKey()
	default:
		input, err = ui.ReadKey(cmd.InOrStdin())
	}

	if errors.Is(err, ui.ErrCancelled) {
		fmt.Fprintln(out, "No license key given")
		return a.showLicenses(out)
	}
	if err != nil {
		return err
	}

	if a.isTerminal() {
		proceed, err := a.confirmProductChange(helpers.NormalizeKey(input))
		if errors.Is(err, ui.ErrCancelled) {
			proceed = false
		} else if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(out, "License key not added")
			return a.showLicenses(out)
		}
	}

	spinner := ui.NewStepSpinner("licenses", out)
	spinner.Start("Saving license key")

	record, err := a.session.Add(types.LicenseKey(input))
	spinner.Stop(err == nil)

	if err != nil {
		ui.RenderAddError(cmd.ErrOrStderr(), err)
		return reportedError{err: err}
	}

	fmt.Fprintf(out, "Added license for %s, expires %s\n", record.Name, ui.FormatExpiry(record.Expires))

	if notify {
		message := fmt.Sprintf("Licensed to %s until %s", record.Name, ui.FormatExpiry(record.Expires))
		if err := a.notifier.Send("License key added", message); err != nil {
			a.logger.Warn("failed to send notification", zap.Error(err))
		}
	}

	return a.showLicenses(out)
}

// confirmProductChange asks before a key for another product takes over
// from the active license. Anything it cannot check is left to AddKey,
// which reports the failure.
func (a *app) confirmProductChange(key types.LicenseKey) (bool, error) {
	active, err := a.session.Refresh()
	if err != nil || active == nil {
		return true, nil
	}

	record, err := license.Decode(key)
	if err != nil || strings.EqualFold(record.Product, active.Product) {
		return true, nil
	}

	return a.confirm(fmt.Sprintf("The active license is for %s. Make the %s license active instead?", active.Product, record.Product))
}

func newIssueCmd(a *app) *cobra.Command {
	var (
		record types.LicenseRecord
		width  int
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Create a license key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()

			if record.Expires == "" {
				record.Expires = now.AddDate(1, 0, 0).Format(license.DateLayout)
			}
			if record.Product == "" {
				record.Product = a.validator.Products()[0]
			}
			if record.Reference == "" {
				record.Reference = uuid.NewString()
			}

			key, err := license.Encode(record)
			if err != nil {
				return err
			}

			if err := a.validator.Validate(record, now); err != nil {
				a.logger.Warn("issued key would be rejected by this installation",
					logging.Key(key), zap.String("reason", err.Error()))
			}

			fmt.Fprintln(cmd.OutOrStdout(), license.Wrap(key, width))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&record.Name, "name", "", "Licensee name")
	flags.StringVar(&record.Company, "company", "", "Licensee company")
	flags.StringVar(&record.Email, "email", "", "Licensee email")
	flags.StringVar(&record.Expires, "expires", "", "Expiry date as YYYYMMDD (default: one year from today)")
	flags.StringVar(&record.Product, "product", "", "Product name (default: first configured product)")
	flags.StringVar(&record.Reference, "reference", "", "Free-form reference (default: a random UUID)")
	flags.IntVar(&width, "width", 0, "Wrap the key at this many characters")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of the license file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.store.Path())
		},
	}
}
