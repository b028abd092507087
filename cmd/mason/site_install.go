package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/installer"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/profiles"
	"github.com/masonry-cms/mason/internal/settings"
	"github.com/masonry-cms/mason/internal/terminal"
	"github.com/masonry-cms/mason/internal/updatewarn"
	"github.com/masonry-cms/mason/internal/wizard"
)

// isTerminal reports whether prompts may be shown; tests replace it.
var isTerminal = terminal.IsInteractive

// runWizard completes the missing install parameters; tests replace it.
var runWizard = func(params *wizard.Params) error {
	return wizard.Run(wizard.NewHuhUI(), params)
}

// loadUserDefaults reads ~/.mason/defaults.toml; tests replace it.
var loadUserDefaults = settings.LoadDefaults

// installFlags carries the site install flag values.
type installFlags struct {
	dbURL          string
	dbPrefix       string
	dbSU           string
	dbSUPassword   string
	accountName    string
	accountMail    string
	accountPass    string
	locale         string
	siteName       string
	siteMail       string
	sitesSubdir    string
	configDir      string
	existingConfig bool
}

func newSiteInstallCmd(opts *rootOptions) *cobra.Command {
	flags := &installFlags{}
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Long:  messages.InstallLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.projectRoot()
			if err != nil {
				return err
			}
			profile, overrides, err := parseInstallOperands(args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if profile != "" && flags.existingConfig {
				return errors.New(messages.InstallProfileConflict)
			}
			if flags.existingConfig {
				if flags.configDir == "" {
					return errors.New(messages.InstallExistingConfigNeedsDir)
				}
				profile, err = profiles.FromConfigDir(flags.configDir)
				if err != nil {
					return err
				}
			}
			subdir := flags.sitesSubdir
			if subdir == "" {
				subdir, err = opts.siteSubdir(root)
				if err != nil {
					return err
				}
			}
			updatewarn.WarnIfOutdated(cmd.Context(), Version, cmd.ErrOrStderr())

			instOpts, err := buildInstallOptions(cmd, opts, flags, overrides)
			if err != nil {
				// A cancelled wizard reports once and exits nonzero.
				if errors.Is(err, wizard.ErrCancelled) {
					_, _ = fmt.Fprint(cmd.ErrOrStderr(), messages.InstallCancelled)
					return &SilentExitError{Code: 1}
				}
				return err
			}
			instOpts.Profile = profile
			instOpts.Subdir = subdir
			instOpts.URI = opts.uri

			report, err := installer.Run(cmd.Context(), root, instOpts)
			if err != nil {
				return err
			}
			renderInstallReport(cmd.OutOrStdout(), report, flags.configDir)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.dbURL, "db-url", "", messages.InstallFlagDBURL)
	fl.StringVar(&flags.dbPrefix, "db-prefix", "", messages.InstallFlagDBPrefix)
	fl.StringVar(&flags.dbSU, "db-su", "", messages.InstallFlagDBSU)
	fl.StringVar(&flags.dbSUPassword, "db-su-pw", "", messages.InstallFlagDBSUPassword)
	fl.StringVar(&flags.accountName, "account-name", "", messages.InstallFlagAccountName)
	fl.StringVar(&flags.accountMail, "account-mail", "", messages.InstallFlagAccountMail)
	fl.StringVar(&flags.accountPass, "account-pass", "", messages.InstallFlagAccountPass)
	fl.StringVar(&flags.locale, "locale", "", messages.InstallFlagLocale)
	fl.StringVar(&flags.siteName, "site-name", "", messages.InstallFlagSiteName)
	fl.StringVar(&flags.siteMail, "site-mail", "", messages.InstallFlagSiteMail)
	fl.StringVar(&flags.sitesSubdir, "sites-subdir", "", messages.InstallFlagSitesSubdir)
	fl.StringVar(&flags.configDir, "config-dir", "", messages.InstallFlagConfigDir)
	fl.BoolVar(&flags.existingConfig, "existing-config", false, messages.InstallFlagExistingConfig)
	return cmd
}

// buildInstallOptions folds flags, per-user defaults, and wizard answers
// into the installer options. The wizard only runs on a terminal, without
// --yes, and only for parameter groups nothing else supplied.
func buildInstallOptions(cmd *cobra.Command, opts *rootOptions, flags *installFlags, overrides settings.Tree) (installer.Options, error) {
	var conn *dburl.Conn
	if flags.dbURL != "" {
		parsed, err := dburl.Parse(flags.dbURL)
		if err != nil {
			return installer.Options{}, err
		}
		conn = parsed
	}

	defaults, err := loadUserDefaults()
	if err != nil {
		return installer.Options{}, err
	}
	if flags.accountName == "" {
		flags.accountName = defaults.Account.Name
	}
	if flags.accountMail == "" {
		flags.accountMail = defaults.Account.Mail
	}
	if flags.siteMail == "" {
		flags.siteMail = defaults.Site.Mail
	}
	if flags.locale == "" {
		flags.locale = defaults.Locale
	}

	tty := isTerminal()
	hasOverride := func(key string) bool {
		_, ok := overrides.GetString(key)
		return ok
	}
	given := wizard.Given{
		Database:    conn != nil,
		SiteName:    flags.siteName != "" || hasOverride("site.name"),
		AccountName: flags.accountName != "" || hasOverride("account.name"),
		AccountMail: flags.accountMail != "" || hasOverride("account.mail"),
		AccountPass: flags.accountPass != "",
	}
	allGiven := given.Database && given.SiteName && given.AccountName && given.AccountMail && given.AccountPass
	if tty && !opts.yes && !allGiven {
		params := &wizard.Params{
			SiteName:    flags.siteName,
			AccountName: flags.accountName,
			AccountMail: flags.accountMail,
			AccountPass: flags.accountPass,
			Given:       given,
		}
		if err := runWizard(params); err != nil {
			return installer.Options{}, err
		}
		if conn == nil {
			conn = params.Conn()
		}
		flags.siteName = params.SiteName
		flags.accountName = params.AccountName
		flags.accountMail = params.AccountMail
		flags.accountPass = params.AccountPass
	}

	if conn != nil {
		if flags.dbSU != "" || flags.dbSUPassword != "" {
			conn = conn.WithSU(flags.dbSU, flags.dbSUPassword)
		}
		if flags.dbPrefix != "" {
			conn = conn.WithPrefix(flags.dbPrefix)
		}
	}

	var confirm installer.ConfirmFunc
	if tty {
		confirm = confirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	return installer.Options{
		Conn:        conn,
		Overrides:   overrides,
		SiteName:    flags.siteName,
		SiteMail:    flags.siteMail,
		Locale:      flags.locale,
		AccountName: flags.accountName,
		AccountMail: flags.accountMail,
		AccountPass: flags.accountPass,
		ConfigDir:   flags.configDir,

		ExistingConfig: flags.existingConfig,
		AssumeYes:      opts.yes,
		Confirm:        confirm,
		Interactive:    tty,
		Out:            cmd.OutOrStdout(),
	}, nil
}

func renderInstallReport(out io.Writer, report *installer.Report, configDir string) {
	_, _ = fmt.Fprintf(out, messages.InstallCompleteFmt, report.Profile, report.Subdir)
	_, _ = fmt.Fprintf(out, messages.InstallAccountFmt, report.AccountName)
	if report.GeneratedPassword != "" {
		_, _ = fmt.Fprintf(out, messages.InstallGeneratedPasswordFmt, report.GeneratedPassword)
	}
	if report.ConfigImported > 0 {
		_, _ = fmt.Fprintf(out, messages.InstallImportedFmt, report.ConfigImported, configDir)
	}
}
