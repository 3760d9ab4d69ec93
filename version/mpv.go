package version

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/metafates/gache"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/where"
)

// MinimumMPV is the oldest mpv whose JSON IPC answers with request_id.
const MinimumMPV = "0.29.0"

var mpvVersion = regexp.MustCompile(`mpv v?(\d+\.\d+\.\d+)`)

// keyed by executable path
var mpvCacher = gache.New[map[string]string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "mpv-version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// ParseMPV extracts the version from the first line of `mpv --version`.
func ParseMPV(output string) (string, error) {
	match := mpvVersion.FindStringSubmatch(output)
	if match == nil {
		return "", errors.New("unrecognized mpv version output")
	}
	return match[1], nil
}

// MPV reports the version of the mpv executable at path.
func MPV(ctx context.Context, path string) (string, error) {
	cached, expired, err := mpvCacher.Get()
	if err != nil {
		log.Warnf("mpv version cache: %v", err)
	}
	if !expired && cached != nil {
		if v, ok := cached[path]; ok {
			return v, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}

	v, err := ParseMPV(string(out))
	if err != nil {
		return "", err
	}

	if expired || cached == nil {
		cached = make(map[string]string)
	}
	cached[path] = v
	if err := mpvCacher.Set(cached); err != nil {
		log.Warnf("mpv version cache: %v", err)
	}

	return v, nil
}
