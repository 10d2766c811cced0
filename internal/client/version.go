package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrIncompatibleService means the service's major version differs from
// the one this client was built against.
var ErrIncompatibleService = errors.New("incompatible memory service version")

// SupportedAPIVersion is the service API version this client targets.
const SupportedAPIVersion = "2.4.0"

// GetBuildInfo fetches the service's build information.
func (c *Client) GetBuildInfo(ctx context.Context) (BuildInfo, error) {
	var info BuildInfo
	if err := c.get(ctx, "/build-info", nil, &info); err != nil {
		return BuildInfo{}, fmt.Errorf("getting build info: %w", err)
	}
	return info, nil
}

// CheckCompatibility compares the service version against
// SupportedAPIVersion. A major mismatch is an error; a newer service
// minor returns a warning string the CLI prints and carries on.
func (c *Client) CheckCompatibility(ctx context.Context) (string, error) {
	info, err := c.GetBuildInfo(ctx)
	if err != nil {
		return "", err
	}
	return checkVersions(SupportedAPIVersion, info.Version)
}

// checkVersions implements the compatibility rule on explicit version
// strings. An unparseable service version yields a warning, not an
// error: some deployments report commit hashes instead of semver.
func checkVersions(supported, actual string) (string, error) {
	want, err := semver.NewVersion(supported)
	if err != nil {
		return "", fmt.Errorf("parsing supported version %q: %w", supported, err)
	}

	got, err := semver.NewVersion(actual)
	if err != nil {
		return fmt.Sprintf("service reports non-semver version %q, skipping compatibility check", actual), nil
	}

	if got.Major() != want.Major() {
		return "", fmt.Errorf("%w: service is %s, client supports %s", ErrIncompatibleService, actual, supported)
	}

	if got.Minor() > want.Minor() {
		return fmt.Sprintf("service version %s is newer than the supported %s; some fields may be missing from output", actual, supported), nil
	}

	return "", nil
}
