package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/qkd/kdplayer/color"
	"github.com/qkd/kdplayer/history"
	"github.com/qkd/kdplayer/icon"
	"github.com/qkd/kdplayer/style"
	"github.com/qkd/kdplayer/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("search", "s", "", "Fuzzy search titles and urls")
	historyCmd.Flags().StringP("remove", "r", "", "Forget the station with this url")
	historyCmd.Flags().Bool("clear", false, "Forget every station")
	historyCmd.Flags().BoolP("json", "j", false, "Print entries as JSON")

	historyCmd.MarkFlagsMutuallyExclusive("search", "remove", "clear")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently played stations",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s history cleared\n", icon.Get(icon.Success))
			return
		}

		if url := lo.Must(cmd.Flags().GetString("remove")); url != "" {
			handleErr(history.Remove(url))
			cmd.Printf("%s removed %s\n", icon.Get(icon.Success), url)
			return
		}

		var (
			entries []*history.Entry
			err     error
		)

		if query := lo.Must(cmd.Flags().GetString("search")); query != "" {
			entries, err = history.Find(query)
		} else {
			entries, err = history.Recent()
		}
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println("No stations found")
			return
		}

		width := util.TerminalWidth(80)
		accent := style.Fg(color.HiCyan)
		for _, e := range entries {
			line := fmt.Sprintf("%s %s %s",
				accent(e.String()),
				style.Faint(e.URL),
				style.Italic(util.Quantify(e.Plays, "play", "plays")+", "+e.PlayedAt.Format("2006-01-02 15:04")),
			)
			cmd.Println(util.Truncate(line, width))
		}
	},
}
