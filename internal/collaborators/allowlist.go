// SPDX-License-Identifier: Apache-2.0

// Package collaborators loads the allow-list mapping collaborator identities
// to their authorized OpenPGP fingerprints.
package collaborators

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the expected location of the allow-list within the
// repository's private metadata directory.
const FileName = "collaborators.yaml"

// ErrAllowListInvalid is returned when the allow-list cannot be loaded or
// does not parse as a mapping of identity to 40-hex fingerprint. Failure to
// load the allow-list is fatal.
var ErrAllowListInvalid = errors.New("collaborator allow-list is missing or malformed")

var fingerprintPattern = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)

// AllowList maps collaborator identity to canonical (uppercase) 40-hex
// OpenPGP fingerprint.
type AllowList map[string]string

// Load reads and validates the allow-list at path.
func Load(path string) (AllowList, error) {
	contents, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAllowListInvalid, path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAllowListInvalid, path, err)
	}

	allowList := make(AllowList, len(raw))
	for identity, fingerprint := range raw {
		trimmed := strings.TrimSpace(fingerprint)
		if !fingerprintPattern.MatchString(trimmed) {
			return nil, fmt.Errorf("%w: %s: fingerprint for %q is not 40 hex characters", ErrAllowListInvalid, path, identity)
		}
		allowList[identity] = strings.ToUpper(trimmed)
	}

	return allowList, nil
}

// Identity returns the collaborator identity associated with fingerprint,
// comparing case-insensitively, and whether one was found.
func (a AllowList) Identity(fingerprint string) (string, bool) {
	canonical := strings.ToUpper(strings.TrimSpace(fingerprint))
	for identity, fp := range a {
		if fp == canonical {
			return identity, true
		}
	}
	return "", false
}
