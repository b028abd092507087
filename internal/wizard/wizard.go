// Package wizard interactively collects the install parameters that were not
// supplied on the command line.
package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/masonry-cms/mason/internal/account"
	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/messages"
)

var (
	errBack = errors.New("wizard back requested")
	// ErrCancelled is returned when the user exits the wizard; the install
	// must abort.
	ErrCancelled = errors.New(messages.WizardCancelled)
)

// Given marks parameter groups supplied on the command line, which the
// wizard must not ask for again.
type Given struct {
	Database    bool
	SiteName    bool
	AccountName bool
	AccountMail bool
	AccountPass bool
}

// Params holds the install parameters the wizard completes. Pre-set values
// appear as editable defaults in the prompts; groups marked Given are
// skipped entirely.
type Params struct {
	Driver      string
	Host        string
	Port        int
	DBName      string
	DBUser      string
	DBPassword  string
	SiteName    string
	AccountName string
	AccountMail string
	AccountPass string

	Given Given
}

// Conn builds the connection description the params describe.
func (p *Params) Conn() *dburl.Conn {
	return &dburl.Conn{
		Driver:   p.Driver,
		Host:     p.Host,
		Port:     p.Port,
		Name:     p.DBName,
		User:     p.DBUser,
		Password: p.DBPassword,
	}
}

type flowStep int

const (
	stepDatabase flowStep = iota
	stepDBPassword
	stepSite
	stepAccount
	stepAccountPassword
	stepDone
)

// Run walks the install prompts in order. Esc goes one step back; Esc on
// the first step asks whether to exit. Ctrl+C exits immediately with
// ErrCancelled.
func Run(ui UI, params *Params) error {
	step := stepDatabase
	for step < stepDone {
		snapshot := *params
		var err error

		switch step {
		case stepDatabase:
			err = promptDatabase(ui, params)
		case stepDBPassword:
			err = promptDBPassword(ui, params)
		case stepSite:
			err = promptSite(ui, params)
		case stepAccount:
			err = promptAccount(ui, params)
		case stepAccountPassword:
			err = promptAccountPassword(ui, params)
		}

		if err == nil {
			step++
			continue
		}
		if !errors.Is(err, errBack) {
			return err
		}

		*params = snapshot
		if step == stepDatabase {
			exit, confirmErr := confirmExit(ui)
			if confirmErr != nil {
				return confirmErr
			}
			if exit {
				return ErrCancelled
			}
			continue
		}
		step--
	}
	return nil
}

// confirmExit asks whether an Esc on the first step means leaving the
// wizard. Esc here returns to the first step.
func confirmExit(ui UI) (bool, error) {
	exit := true
	if err := ui.Confirm(messages.WizardConfirmExitTitle, &exit); err != nil {
		if errors.Is(err, errBack) {
			return false, nil
		}
		return false, err
	}
	return exit, nil
}

func promptDatabase(ui UI, params *Params) error {
	if params.Given.Database {
		return nil
	}
	if params.Driver == "" {
		params.Driver = dburl.Drivers[0]
	}
	if err := ui.Select(messages.WizardTitleDriver, dburl.Drivers, &params.Driver); err != nil {
		return err
	}

	if params.Driver == "sqlite" {
		if params.DBName == "" || looksLikeServerName(params.DBName) {
			params.DBName = dburl.DefaultSQLitePath
		}
		return ui.Input(messages.WizardTitleSQLitePath, messages.WizardHintSQLitePath, &params.DBName, required(messages.WizardTitleSQLitePath))
	}

	if params.Host == "" {
		params.Host = "localhost"
	}
	if err := ui.Input(messages.WizardTitleHost, "", &params.Host, required(messages.WizardTitleHost)); err != nil {
		return err
	}

	port := defaultPortString(params)
	if err := ui.Input(messages.WizardTitlePort, "", &port, validatePort); err != nil {
		return err
	}
	params.Port, _ = strconv.Atoi(strings.TrimSpace(port))

	if err := ui.Input(messages.WizardTitleName, "", &params.DBName, required(messages.WizardTitleName)); err != nil {
		return err
	}
	return ui.Input(messages.WizardTitleUser, "", &params.DBUser, required(messages.WizardTitleUser))
}

// looksLikeServerName guards against carrying a server database name into
// the sqlite path field after the user backs up and switches drivers.
func looksLikeServerName(name string) bool {
	return !strings.ContainsAny(name, "/.")
}

func defaultPortString(params *Params) string {
	if params.Port > 0 {
		return strconv.Itoa(params.Port)
	}
	if params.Driver == "pgsql" {
		return strconv.Itoa(dburl.DefaultPgSQLPort)
	}
	return strconv.Itoa(dburl.DefaultMySQLPort)
}

func promptDBPassword(ui UI, params *Params) error {
	if params.Given.Database || params.Driver == "sqlite" {
		return nil
	}
	return ui.SecretInput(messages.WizardTitlePassword, "", &params.DBPassword)
}

func promptSite(ui UI, params *Params) error {
	if params.Given.SiteName {
		return nil
	}
	return ui.Input(messages.WizardTitleSiteName, "", &params.SiteName, required(messages.WizardTitleSiteName))
}

func promptAccount(ui UI, params *Params) error {
	if !params.Given.AccountName {
		validate := func(value string) error {
			return account.ValidateName(strings.TrimSpace(value))
		}
		if err := ui.Input(messages.WizardTitleAccountName, "", &params.AccountName, validate); err != nil {
			return err
		}
	}
	if !params.Given.AccountMail {
		if err := ui.Input(messages.WizardTitleAccountMail, "", &params.AccountMail, validateMail); err != nil {
			return err
		}
	}
	return nil
}

func promptAccountPassword(ui UI, params *Params) error {
	if params.Given.AccountPass {
		return nil
	}
	return ui.SecretInput(messages.WizardTitleAccountPass, messages.WizardHintAccountPass, &params.AccountPass)
}

// required validates that an input is not blank.
func required(title string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf(messages.WizardValueRequiredFmt, title)
		}
		return nil
	}
}

func validatePort(value string) error {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf(messages.WizardPortMustBeNumericFmt, messages.WizardTitlePort)
	}
	return nil
}

var mailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateMail(value string) error {
	if !mailRE.MatchString(strings.TrimSpace(value)) {
		return fmt.Errorf(messages.WizardMailInvalidFmt, messages.WizardTitleAccountMail)
	}
	return nil
}
