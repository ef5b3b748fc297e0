// Package version finds the latest published release of create-fun and
// decides whether the running binary is behind it.
package version

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// Status tells how a Result was obtained.
type Status int

const (
	// Unknown means every lookup failed. It does not mean "up to date".
	Unknown Status = iota
	// Known means the primary registry lookup answered.
	Known
	// FallbackUsed means the registry failed and a fallback answered.
	FallbackUsed
)

func (s Status) String() string {
	switch s {
	case Known:
		return "known"
	case FallbackUsed:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is the outcome of a latest-version check.
type Result struct {
	Status  Status
	Version string
	Source  string // name of the lookup that produced Version
}

// Lookup is one way of finding the latest published version of a package.
type Lookup interface {
	Name() string
	Latest(ctx context.Context, pkg string) (string, error)
}

// Checker runs the primary lookup and then each fallback until one answers.
type Checker struct {
	Primary   Lookup
	Fallbacks []Lookup
	// Timeout bounds the whole check. Zero means no timeout.
	Timeout time.Duration
	Log     *zap.Logger
}

// Check never fails; failures collapse into an Unknown result.
func (c *Checker) Check(ctx context.Context, pkg string) Result {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.Primary != nil {
		latest, err := c.Primary.Latest(ctx, pkg)
		if err == nil {
			log.Debug("latest version found", zap.String("lookup", c.Primary.Name()), zap.String("version", latest))
			return Result{Status: Known, Version: latest, Source: c.Primary.Name()}
		}
		log.Debug("version lookup failed", zap.String("lookup", c.Primary.Name()), zap.Error(err))
	}

	for _, fb := range c.Fallbacks {
		if ctx.Err() != nil {
			break
		}
		latest, err := fb.Latest(ctx, pkg)
		if err != nil {
			log.Debug("version lookup failed", zap.String("lookup", fb.Name()), zap.Error(err))
			continue
		}
		log.Debug("latest version found", zap.String("lookup", fb.Name()), zap.String("version", latest))
		return Result{Status: FallbackUsed, Version: latest, Source: fb.Name()}
	}

	log.Debug("latest version unknown, continuing")
	return Result{Status: Unknown}
}

// IsBehind reports whether current is strictly older than the version in r.
// An Unknown result is never behind. An unparseable version is reported as
// an error together with false.
func IsBehind(current string, r Result) (bool, error) {
	if r.Status == Unknown || r.Version == "" {
		return false, nil
	}
	cur, err := Parse(current)
	if err != nil {
		return false, err
	}
	latest, err := Parse(r.Version)
	if err != nil {
		return false, err
	}
	return cur.LessThan(latest), nil
}

// Parse accepts versions with or without a leading "v".
func Parse(versionStr string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(versionStr), "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version '%s': %w", versionStr, err)
	}
	return v, nil
}

// NewChecker wires the standard chain: registry first, then `npm view`,
// then GitHub releases of repository.
func NewChecker(registry, repository string, timeout time.Duration, log *zap.Logger) *Checker {
	return &Checker{
		Primary: RegistryLookup{BaseURL: registry},
		Fallbacks: []Lookup{
			NpmViewLookup{},
			ReleaseLookup{Repository: repository},
		},
		Timeout: timeout,
		Log:     log,
	}
}
