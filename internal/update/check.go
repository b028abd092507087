// Package update checks GitHub for newer mason releases.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/version"
)

// Repo identifies the GitHub repository used for release checks.
const Repo = "masonry-cms/mason"

// ReleasesBaseURL is the base URL for release downloads.
const ReleasesBaseURL = "https://github.com/" + Repo + "/releases"

var (
	latestReleaseURL = "https://api.github.com/repos/" + Repo + "/releases/latest"
	httpClient       = &http.Client{Timeout: 10 * time.Second}

	// updateSleep delays the single retry; tests replace it.
	updateSleep = time.Sleep
	retryDelay  = 250 * time.Millisecond
)

// RateLimitError indicates GitHub's API rate limit was hit while checking
// for updates. Callers should treat it as a best-effort failure and keep
// output minimal.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
}

func (e *RateLimitError) Error() string {
	remaining := "unknown"
	if e.Remaining != nil {
		remaining = strconv.Itoa(*e.Remaining)
	}
	return fmt.Sprintf(messages.UpdateRateLimitedFmt, e.Status, remaining)
}

// IsRateLimitError reports whether err represents a GitHub rate-limit
// condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// CheckResult captures the latest release check outcome.
type CheckResult struct {
	Current      string
	Latest       string
	Outdated     bool
	CurrentIsDev bool
}

// Check fetches the latest release and compares it to currentVersion. Dev
// builds skip the comparison; they are never reported as outdated.
func Check(ctx context.Context, currentVersion string) (CheckResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := CheckResult{CurrentIsDev: version.IsDev(currentVersion)}
	if result.CurrentIsDev {
		result.Current = "dev"
	} else {
		current, err := version.Normalize(currentVersion)
		if err != nil {
			return CheckResult{}, fmt.Errorf(messages.UpdateBadCurrentVersionFmt, currentVersion, err)
		}
		result.Current = current
	}

	latest, err := fetchLatestReleaseVersion(ctx)
	if err != nil {
		return CheckResult{}, err
	}
	result.Latest = latest

	if !result.CurrentIsDev {
		cmp, err := compareSemver(result.Current, latest)
		if err != nil {
			return CheckResult{}, err
		}
		result.Outdated = cmp < 0
	}
	return result, nil
}

// fetchLatestReleaseVersion returns the latest release tag in normalized
// X.Y.Z form, retrying once when the failure looks transient.
func fetchLatestReleaseVersion(ctx context.Context) (string, error) {
	tag, retryable, err := requestLatestTag(ctx)
	if err != nil && retryable {
		updateSleep(retryDelay)
		tag, _, err = requestLatestTag(ctx)
	}
	if err != nil {
		return "", err
	}
	normalized, err := version.Normalize(tag)
	if err != nil {
		return "", fmt.Errorf(messages.UpdateBadTagFmt, tag, err)
	}
	return normalized, nil
}

// requestLatestTag performs one releases/latest API call. retryable reports
// whether the failure is worth a second attempt: transient transport errors
// and 5xx answers are, everything else is final.
func requestLatestTag(ctx context.Context) (tag string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return "", false, fmt.Errorf(messages.UpdateRequestFmt, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "mason")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", isTransientTransportError(err), fmt.Errorf(messages.UpdateFetchFmt, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		if limit := rateLimitFrom(resp); limit != nil {
			return "", false, limit
		}
		serverSide := resp.StatusCode >= 500 && resp.StatusCode <= 599
		return "", serverSide, fmt.Errorf(messages.UpdateFetchStatusFmt, resp.Status)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf(messages.UpdateDecodeFmt, err)
	}
	tag = strings.TrimSpace(payload.TagName)
	if tag == "" {
		return "", false, errors.New(messages.UpdateMissingTag)
	}
	return tag, false, nil
}

func isTransientTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// rateLimitFrom classifies resp as a rate-limit rejection, or returns nil.
// 429 always counts; GitHub answers unauthenticated exhaustion with 403 plus
// an X-RateLimit-Remaining header of 0.
func rateLimitFrom(resp *http.Response) *RateLimitError {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status}
	case http.StatusForbidden:
		remaining, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")))
		if err != nil || remaining != 0 {
			return nil
		}
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining}
	default:
		return nil
	}
}

// compareSemver returns -1 if a < b, 0 if a == b, and 1 if a > b. Both
// versions must normalize to X.Y.Z form.
func compareSemver(a string, b string) (int, error) {
	av, err := semverParts(a)
	if err != nil {
		return 0, err
	}
	bv, err := semverParts(b)
	if err != nil {
		return 0, err
	}
	for i := range av {
		switch {
		case av[i] < bv[i]:
			return -1, nil
		case av[i] > bv[i]:
			return 1, nil
		}
	}
	return 0, nil
}

func semverParts(raw string) ([3]int, error) {
	normalized, err := version.Normalize(raw)
	if err != nil {
		return [3]int{}, err
	}
	// Normalize guarantees three segments that fit in an int.
	var out [3]int
	for i, part := range strings.SplitN(normalized, ".", 3) {
		out[i], _ = strconv.Atoi(part)
	}
	return out, nil
}
