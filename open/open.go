// Package open hands files to the desktop's default application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/qkd/kdplayer/constant"
)

// Start opens path with the default handler without waiting for it.
func Start(path string) error {
	cmd, err := command(path, "")
	if err != nil {
		return err
	}
	return cmd.Start()
}

// StartWith opens path with app, falling back to the default handler
// when app is empty.
func StartWith(path, app string) error {
	cmd, err := command(path, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(path, app string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case constant.Windows:
		if app != "" {
			return exec.Command("cmd", "/C", "start", "", app, path), nil
		}
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), nil
	case constant.Darwin:
		if app != "" {
			return exec.Command("open", "-a", app, path), nil
		}
		return exec.Command("open", path), nil
	case constant.Linux:
		if app != "" {
			return exec.Command(app, path), nil
		}
		return exec.Command("xdg-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
