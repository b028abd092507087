// Package requirements runs the pre-install environment checks. Each check
// returns Results; any Fail aborts the install.
package requirements

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/settings"
	"github.com/masonry-cms/mason/internal/sites"
)

// Status classifies a check outcome.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// Result is a single requirement check outcome.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// Render writes the checklist with colored status labels, one line per
// result plus an indented recommendation where a check carries one.
func Render(w io.Writer, results []Result) {
	for _, r := range results {
		var status string
		switch r.Status {
		case StatusOK:
			status = color.GreenString(messages.StatusOKLabel)
		case StatusWarn:
			status = color.YellowString(messages.StatusWarnLabel)
		case StatusFail:
			status = color.RedString(messages.StatusFailLabel)
		}
		_, _ = fmt.Fprintf(w, messages.RequirementsResultLineFmt, status, r.CheckName, r.Message)
		if r.Recommendation != "" {
			_, _ = fmt.Fprintf(w, "%s%s\n", messages.RequirementsRecommendationPrefix, r.Recommendation)
		}
	}
}

// databaseExistsFunc probes database reachability; tests replace it.
var databaseExistsFunc = database.Exists

// Params describes the install whose requirements are being checked.
type Params struct {
	Root      string
	Subdir    string
	Conn      *dburl.Conn
	ConfigDir string
}

// Check runs every applicable requirement check in order.
func Check(ctx context.Context, params Params) []Result {
	results := CheckRoot(params.Root)
	results = append(results, CheckSites(params.Root)...)
	if params.Conn != nil {
		results = append(results, CheckDriver(params.Conn)...)
		results = append(results, CheckDatabase(ctx, params.Conn)...)
	}
	if params.Subdir != "" {
		results = append(results, CheckSettings(params.Root, params.Subdir)...)
	}
	if params.ConfigDir != "" {
		results = append(results, CheckConfigDir(params.ConfigDir)...)
	}
	return results
}

// CheckRoot verifies the project manifest parses.
func CheckRoot(projectRoot string) []Result {
	manifestPath := filepath.Join(projectRoot, sites.ManifestName)
	if _, err := sites.LoadManifest(projectRoot); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.RequirementsCheckRoot,
			Message:        fmt.Sprintf(messages.RequirementsRootInvalidFmt, manifestPath),
			Recommendation: messages.RequirementsRootInvalidRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.RequirementsCheckRoot,
		Message:   fmt.Sprintf(messages.RequirementsRootOKFmt, manifestPath),
	}}
}

// CheckSites verifies the sites directory can be written, creating it when
// absent.
func CheckSites(projectRoot string) []Result {
	sitesDir := filepath.Join(projectRoot, "sites")
	if err := os.MkdirAll(sitesDir, 0o755); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.RequirementsCheckSites,
			Message:        fmt.Sprintf(messages.RequirementsSitesNotWritableFmt, sitesDir),
			Recommendation: messages.RequirementsSitesRecommend,
		}}
	}
	probe, err := os.CreateTemp(sitesDir, ".mason-write-*")
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.RequirementsCheckSites,
			Message:        fmt.Sprintf(messages.RequirementsSitesNotWritableFmt, sitesDir),
			Recommendation: messages.RequirementsSitesRecommend,
		}}
	}
	probeName := probe.Name()
	_ = probe.Close()
	_ = os.Remove(probeName)
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.RequirementsCheckSites,
		Message:   fmt.Sprintf(messages.RequirementsSitesOKFmt, sitesDir),
	}}
}

// CheckDriver verifies the connection names a supported driver.
func CheckDriver(conn *dburl.Conn) []Result {
	for _, driver := range dburl.Drivers {
		if conn.Driver == driver {
			return []Result{{
				Status:    StatusOK,
				CheckName: messages.RequirementsCheckDriver,
				Message:   fmt.Sprintf(messages.RequirementsDriverOKFmt, conn.Driver),
			}}
		}
	}
	return []Result{{
		Status:         StatusFail,
		CheckName:      messages.RequirementsCheckDriver,
		Message:        fmt.Sprintf(messages.RequirementsDriverUnknownFmt, conn.Driver),
		Recommendation: messages.RequirementsDriverRecommend,
	}}
}

// CheckDatabase probes the database. A database that does not exist yet is
// fine; the installer creates it. An unreachable server is a failure.
func CheckDatabase(ctx context.Context, conn *dburl.Conn) []Result {
	if _, err := databaseExistsFunc(ctx, conn); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.RequirementsCheckDatabase,
			Message:        fmt.Sprintf(messages.RequirementsDatabaseFailFmt, conn.Redacted(), err),
			Recommendation: messages.RequirementsDatabaseRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.RequirementsCheckDatabase,
		Message:   fmt.Sprintf(messages.RequirementsDatabaseOKFmt, conn.Redacted()),
	}}
}

// CheckSettings verifies an existing settings.toml is writable. A missing
// file is fine; the installer creates it.
func CheckSettings(projectRoot string, subdir string) []Result {
	path := filepath.Join(projectRoot, "sites", subdir, settings.FileName)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil || info.Mode().Perm()&0o200 == 0 {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.RequirementsCheckSettings,
			Message:        fmt.Sprintf(messages.RequirementsSettingsFailFmt, path),
			Recommendation: messages.RequirementsSettingsRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.RequirementsCheckSettings,
		Message:   fmt.Sprintf(messages.RequirementsSettingsOKFmt, path),
	}}
}

// CheckConfigDir verifies the configuration sync directory exists.
func CheckConfigDir(dir string) []Result {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.RequirementsCheckConfigDir,
			Message:        fmt.Sprintf(messages.RequirementsConfigDirMissingFmt, dir),
			Recommendation: messages.RequirementsConfigDirRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.RequirementsCheckConfigDir,
		Message:   fmt.Sprintf(messages.RequirementsConfigDirOKFmt, dir),
	}}
}
