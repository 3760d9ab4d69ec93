package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/qkd/kdplayer/icon"
	"github.com/qkd/kdplayer/playlist"
	"github.com/qkd/kdplayer/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolP("json", "j", false, "Print the sources as a JSON array")
}

var resolveCmd = &cobra.Command{
	Use:     "resolve url",
	Short:   "Expand a .pls or .m3u playlist into playable sources",
	Example: "  kdplayer resolve https://somafm.com/groovesalad.pls",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJson := lo.Must(cmd.Flags().GetBool("json"))

		var erase = func() {}
		if !asJson && util.IsTerminal() {
			erase = util.PrintErasable(fmt.Sprintf("%s Resolving %s", icon.Get(icon.Progress), args[0]))
		}

		sources, err := playlist.NewResolver(nil).Resolve(cmd.Context(), args[0])
		erase()
		handleErr(err)

		if asJson {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(sources))
			return
		}

		for _, source := range sources {
			cmd.Println(source)
		}
	},
}
