package messages

// Wizard prompt text and errors.
const (
	WizardRequiresTerminal = "interactive prompts require a terminal; pass the missing flags or --yes"
	WizardCancelled        = "installation cancelled"

	WizardTitleDriver      = "Database driver"
	WizardTitleHost        = "Database host"
	WizardTitlePort        = "Database port"
	WizardTitleName        = "Database name"
	WizardTitleUser        = "Database user"
	WizardTitlePassword    = "Database password"
	WizardTitleSQLitePath  = "SQLite file path"
	WizardTitleSiteName    = "Site name"
	WizardTitleAccountName = "Admin account name"
	WizardTitleAccountMail = "Admin email address"
	WizardTitleAccountPass = "Admin password"

	WizardHintAccountPass  = "Leave empty to generate a password"
	WizardHintSQLitePath   = "Relative paths are resolved against the site directory"
	WizardConfirmExitTitle = "Exit without installing?"

	WizardValueRequiredFmt     = "%s is required"
	WizardPortMustBeNumericFmt = "%s must be a number between 1 and 65535"
	WizardMailInvalidFmt       = "%s does not look like an email address"
)
