package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/qkd/kdplayer/color"
	"github.com/qkd/kdplayer/constant"
	"github.com/qkd/kdplayer/icon"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/style"
	"github.com/qkd/kdplayer/version"
	"github.com/spf13/viper"
)

// checkDependencies exits when the configured mpv executable is missing
// and warns when it is older than version.MinimumMPV.
func checkDependencies() {
	mpv := viper.GetString(key.PlayerMpvPath)
	path, err := exec.LookPath(mpv)
	if err != nil {
		printMissingDependencyError(mpv)
		os.Exit(1)
	}

	v, err := version.MPV(context.Background(), path)
	if err != nil {
		log.Warnf("could not determine mpv version: %v", err)
		return
	}

	if cmp, err := version.Compare(v, version.MinimumMPV); err == nil && cmp < 0 {
		fmt.Fprintf(os.Stderr, "%s mpv %s is older than %s, IPC replies may be misread\n",
			style.Fg(color.Yellow)(icon.Get(icon.Fail)),
			v,
			version.MinimumMPV,
		)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("%q was not found in your PATH. Set %s to its location.", dep, style.Fg(color.Purple)(key.PlayerMpvPath))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.Orange).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			body,
			suggestion,
		),
	))
}
