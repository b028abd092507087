// Package installer drives the ordered steps that turn an empty site
// directory into an installed Masonry site: requirements check, database
// provisioning, settings files, schema, seed configuration, and the admin
// account.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/masonry-cms/mason/internal/account"
	"github.com/masonry-cms/mason/internal/configsync"
	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/envfile"
	"github.com/masonry-cms/mason/internal/fsutil"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/profiles"
	"github.com/masonry-cms/mason/internal/requirements"
	"github.com/masonry-cms/mason/internal/settings"
	"github.com/masonry-cms/mason/internal/sites"
)

// Install parameter defaults, used by the command flags and again here for
// values the wizard was not asked for.
const (
	DefaultSiteName    = "Masonry"
	DefaultSiteMail    = "admin@example.com"
	DefaultLocale      = "en"
	DefaultAccountName = "admin"
)

// ConfirmFunc asks the user a yes/no question before a destructive step.
type ConfirmFunc func(prompt string) (bool, error)

// Options carries everything site install collected from flags, operands,
// and the wizard. Overrides are dotted-key assignments; they win over the
// corresponding fields, matching the order the values appear on the command
// line.
type Options struct {
	Profile     string
	Subdir      string
	URI         string
	Conn        *dburl.Conn
	Overrides   settings.Tree
	SiteName    string
	SiteMail    string
	Locale      string
	AccountName string
	AccountMail string
	AccountPass string

	// ConfigDir is imported into the active store after installation.
	// ExistingConfig additionally adopts the directory's site UUID.
	ConfigDir      string
	ExistingConfig bool

	AssumeYes   bool
	Confirm     ConfirmFunc
	Interactive bool
	Out         io.Writer
	Now         func() time.Time
}

// Report summarizes a finished installation.
type Report struct {
	Subdir            string
	URI               string
	Profile           string
	AccountName       string
	GeneratedPassword string
	ConfigImported    int
}

type step struct {
	label string
	// plain steps print their own lines and must not race a spinner.
	plain bool
	run   func() error
}

// Run installs a site under root. The first failing step aborts the
// installation; there is no rollback.
func Run(ctx context.Context, root string, opts Options) (*Report, error) {
	if root == "" {
		return nil, errors.New(messages.InstallRootRequired)
	}
	if opts.Conn == nil {
		return nil, errors.New(messages.InstallConnRequired)
	}
	if opts.ExistingConfig && opts.ConfigDir == "" {
		return nil, errors.New(messages.InstallExistingConfigNeedsDir)
	}

	applyParamOverrides(&opts)
	fillDefaults(&opts)

	profile, err := profiles.Load(opts.Profile)
	if err != nil {
		return nil, err
	}

	siteDir := sites.Dir(root, opts.Subdir)
	fileConn := connWithOverrides(opts.Conn, opts.Overrides)
	conn := fileConn.ResolveRelative(siteDir)

	siteUUID, err := resolveSiteUUID(opts)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	report := &Report{
		Subdir:      opts.Subdir,
		URI:         opts.URI,
		Profile:     profile.Name,
		AccountName: opts.AccountName,
	}

	var db *database.DB
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	steps := []step{
		{label: messages.InstallStepRequirements, plain: true, run: func() error {
			return checkRequirements(ctx, out, root, opts.Subdir, conn, opts.ConfigDir)
		}},
		{label: messages.InstallStepSiteDir, run: func() error {
			return sites.EnsureDir(root, opts.Subdir)
		}},
		{label: messages.InstallStepDatabase, run: func() error {
			var err error
			db, err = prepareDatabase(ctx, conn, opts)
			return err
		}},
		{label: messages.InstallStepSettings, run: func() error {
			return writeSettings(root, opts, fileConn, siteUUID)
		}},
		{label: messages.InstallStepSchema, run: func() error {
			return createSchema(ctx, db, profile.Name, siteUUID, now().UTC().Format(time.RFC3339))
		}},
		{label: messages.InstallStepConfig, run: func() error {
			return seedConfig(ctx, db, profile, opts, siteUUID)
		}},
		{label: messages.InstallStepAccount, run: func() error {
			return createAccount(ctx, db, opts, now, report)
		}},
	}
	if opts.ConfigDir != "" {
		steps = append(steps, step{label: messages.InstallStepImport, run: func() error {
			store := configsync.NewStore(db)
			changes, err := configsync.Import(ctx, store, opts.ConfigDir, configsync.ImportOptions{AdoptUUID: opts.ExistingConfig})
			if err != nil {
				return err
			}
			report.ConfigImported = changes.Total()
			return nil
		}})
	}

	if err := runSteps(out, opts.Interactive, steps); err != nil {
		return nil, err
	}
	return report, nil
}

func runSteps(out io.Writer, interactive bool, steps []step) error {
	for _, s := range steps {
		if err := runStep(out, interactive, s); err != nil {
			return fmt.Errorf(messages.InstallStepFailedFmt, s.label, err)
		}
	}
	return nil
}

func runStep(out io.Writer, interactive bool, s step) error {
	if !interactive || s.plain {
		_, _ = fmt.Fprintf(out, messages.InstallStepLineFmt, s.label)
		return s.run()
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " " + s.label + "..."
	sp.Start()
	defer sp.Stop()
	return s.run()
}

// applyParamOverrides folds dotted-key operands into the install parameters
// they name. File-level keys stay in the tree and land in settings.toml.
func applyParamOverrides(opts *Options) {
	if v, ok := opts.Overrides.GetString("site.name"); ok {
		opts.SiteName = v
	}
	if v, ok := opts.Overrides.GetString("site.mail"); ok {
		opts.SiteMail = v
	}
	if v, ok := opts.Overrides.GetString("site.langcode"); ok {
		opts.Locale = v
	}
	if v, ok := opts.Overrides.GetString("account.name"); ok {
		opts.AccountName = v
	}
	if v, ok := opts.Overrides.GetString("account.mail"); ok {
		opts.AccountMail = v
	}
}

func fillDefaults(opts *Options) {
	if opts.Profile == "" {
		opts.Profile = profiles.DefaultName
	}
	if opts.Subdir == "" {
		opts.Subdir = sites.DefaultSubdir
	}
	if opts.SiteName == "" {
		opts.SiteName = DefaultSiteName
	}
	if opts.SiteMail == "" {
		opts.SiteMail = DefaultSiteMail
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.AccountName == "" {
		opts.AccountName = DefaultAccountName
	}
	if opts.AccountMail == "" {
		opts.AccountMail = opts.SiteMail
	}
}

// connWithOverrides applies database.* operands on a copy of conn.
func connWithOverrides(conn *dburl.Conn, overrides settings.Tree) *dburl.Conn {
	out := *conn
	if v, ok := overrides.GetString("database.driver"); ok {
		out.Driver = v
	}
	if v, ok := overrides.GetString("database.host"); ok {
		out.Host = v
	}
	if v, ok := overrides.GetInt("database.port"); ok {
		out.Port = int(v)
	}
	if v, ok := overrides.GetString("database.name"); ok {
		out.Name = v
	}
	if v, ok := overrides.GetString("database.user"); ok {
		out.User = v
	}
	if v, ok := overrides.GetString("database.prefix"); ok {
		out.Prefix = v
	}
	return &out
}

// resolveSiteUUID picks the site UUID the installation will carry: an
// explicit override, the UUID of the configuration being adopted, or a
// fresh one.
func resolveSiteUUID(opts Options) (string, error) {
	if v, ok := opts.Overrides.GetString("site.uuid"); ok && v != "" {
		return v, nil
	}
	if opts.ExistingConfig {
		objects, err := configsync.ReadDir(opts.ConfigDir)
		if err != nil {
			return "", err
		}
		id, err := configsync.SiteUUID(objects)
		if err != nil {
			return "", err
		}
		if id == "" {
			return "", fmt.Errorf(messages.ConfigUUIDMissingFmt, opts.ConfigDir)
		}
		return id, nil
	}
	return uuid.NewString(), nil
}

func checkRequirements(ctx context.Context, out io.Writer, root string, subdir string, conn *dburl.Conn, configDir string) error {
	results := requirements.Check(ctx, requirements.Params{
		Root:      root,
		Subdir:    subdir,
		Conn:      conn,
		ConfigDir: configDir,
	})
	requirements.Render(out, results)
	if requirements.HasFailure(results) {
		return errors.New(messages.InstallRequirementsFailed)
	}
	return nil
}

// prepareDatabase makes the target database exist and empty of site tables,
// confirming first when tables would be dropped, then opens the working
// connection.
func prepareDatabase(ctx context.Context, conn *dburl.Conn, opts Options) (*database.DB, error) {
	if err := confirmDrop(ctx, conn, opts); err != nil {
		return nil, err
	}
	if _, _, err := database.DropOrCreate(ctx, conn); err != nil {
		return nil, err
	}
	return database.Open(ctx, conn)
}

func confirmDrop(ctx context.Context, conn *dburl.Conn, opts Options) error {
	if opts.AssumeYes {
		return nil
	}
	exists, err := database.Exists(ctx, conn)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	db, err := database.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	has, err := db.HasTables(ctx)
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	if opts.Confirm == nil {
		return errors.New(messages.InstallConfirmRequired)
	}
	ok, err := opts.Confirm(fmt.Sprintf(messages.InstallConfirmDropFmt, conn.Name))
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(messages.InstallAborted)
	}
	return nil
}

// writeSettings renders settings.toml (patching an existing file in place)
// and stores the database password in the site .env file.
func writeSettings(root string, opts Options, fileConn *dburl.Conn, siteUUID string) error {
	updates := map[string]any{
		"site.name":       opts.SiteName,
		"site.mail":       opts.SiteMail,
		"site.uuid":       siteUUID,
		"site.langcode":   opts.Locale,
		"database.driver": fileConn.Driver,
		"database.host":   fileConn.Host,
		"database.port":   fileConn.Port,
		"database.name":   fileConn.Name,
		"database.user":   fileConn.User,
		"database.prefix": fileConn.Prefix,
	}
	if opts.ConfigDir != "" {
		updates["config.sync"] = opts.ConfigDir
	}
	for _, key := range opts.Overrides.Keys() {
		if strings.HasPrefix(key, "account.") {
			continue
		}
		if value, ok := opts.Overrides.Get(key); ok {
			updates[key] = value
		}
	}

	path := sites.SettingsPath(root, opts.Subdir)
	content := settings.Template
	existing, err := os.ReadFile(path)
	if err == nil {
		content = string(existing)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	rendered, err := settings.Patch(content, updates)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf(messages.SettingsWriteFmt, path, err)
	}
	if err := patchEnv(root, opts.Subdir, fileConn.Password); err != nil {
		return err
	}
	return ensureSyncDir(root, opts.Subdir)
}

// ensureSyncDir creates the configuration sync directory the freshly written
// settings name.
func ensureSyncDir(root string, subdir string) error {
	site, err := sites.LoadSite(root, subdir)
	if err != nil {
		return err
	}
	dir := sites.SyncDirPath(root, subdir, site)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.SitesCreateDirFmt, dir, err)
	}
	return nil
}

func patchEnv(root string, subdir string, password string) error {
	if password == "" {
		return nil
	}
	path := sites.EnvPath(root, subdir)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(messages.EnvFileReadFmt, path, err)
	}
	content := envfile.Patch(string(existing), map[string]string{envfile.PasswordVar: password})
	if err := fsutil.WriteFileAtomic(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf(messages.EnvFileWriteFmt, path, err)
	}
	return nil
}

// siteObject mirrors the system.site configuration object.
type siteObject struct {
	UUID     string `yaml:"uuid"`
	Name     string `yaml:"name"`
	Mail     string `yaml:"mail"`
	Langcode string `yaml:"langcode"`
}

// extensionObject mirrors the core.extension configuration object.
type extensionObject struct {
	Profile string   `yaml:"profile"`
	Modules []string `yaml:"modules"`
}

// seedConfig writes the profile's default configuration plus the identity
// objects into the active store.
func seedConfig(ctx context.Context, db *database.DB, profile *profiles.Profile, opts Options, siteUUID string) error {
	defaults, err := profile.DefaultConfig()
	if err != nil {
		return err
	}
	objects := make(configsync.Objects, len(defaults)+2)
	for name, data := range defaults {
		normalized, err := configsync.Normalize(name, data)
		if err != nil {
			return err
		}
		objects[name] = normalized
	}

	site, err := encodeObject(configsync.SiteObjectName, siteObject{
		UUID:     siteUUID,
		Name:     opts.SiteName,
		Mail:     opts.SiteMail,
		Langcode: opts.Locale,
	})
	if err != nil {
		return err
	}
	objects[configsync.SiteObjectName] = site

	modules := profile.Modules
	if modules == nil {
		modules = []string{}
	}
	extension, err := encodeObject(configsync.ExtensionObjectName, extensionObject{Profile: profile.Name, Modules: modules})
	if err != nil {
		return err
	}
	objects[configsync.ExtensionObjectName] = extension

	return configsync.NewStore(db).Seed(ctx, objects)
}

// encodeObject marshals a seed object and normalizes it to the store's
// canonical form, so an untouched export diffs clean against the store.
func encodeObject(name string, doc any) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigEncodeObjectFmt, name, err)
	}
	return configsync.Normalize(name, data)
}

// createAccount inserts the uid 1 admin account, generating a password when
// none was supplied.
func createAccount(ctx context.Context, db *database.DB, opts Options, now func() time.Time, report *Report) error {
	name := opts.AccountName
	if err := account.ValidateName(name); err != nil {
		return err
	}

	password := opts.AccountPass
	if password == "" {
		generated, err := account.GeneratePassword(account.GeneratedPasswordLength)
		if err != nil {
			return err
		}
		password = generated
		report.GeneratedPassword = generated
	}
	hash, err := account.HashPassword(password)
	if err != nil {
		return err
	}

	table := db.Quote(db.TableName(account.TableBase))
	stmt := "INSERT INTO " + table + " (uid, name, mail, pass, created) VALUES (" +
		placeholders(db.Conn().Driver, 5) + ")"
	if _, err := db.ExecContext(ctx, stmt, account.AdminUID, name, opts.AccountMail, hash, now().Unix()); err != nil {
		return fmt.Errorf(messages.AccountCreateFmt, name, err)
	}
	return nil
}

func placeholders(driver string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if driver == "pgsql" {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
