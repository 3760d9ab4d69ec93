package cmd

import (
	"encoding/json"
	"errors"

	"github.com/qkd/kdplayer/metadata"
	"github.com/qkd/kdplayer/style"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().Bool("icy", false, "Treat the input as a raw ICY metadata block")
	metadataCmd.Flags().StringP("artwork", "a", "", "Artwork reference attached to the title")
	metadataCmd.Flags().BoolP("json", "j", false, "Print the normalized triple as JSON")
}

var metadataCmd = &cobra.Command{
	Use:   "metadata raw",
	Short: "Show how a stream title is normalized",
	Example: `  kdplayer metadata "Daft Punk - Around the World"
  kdplayer metadata --icy "StreamTitle='Artist - Song';StreamUrl='http://x/a.jpg';"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var normalized metadata.Normalized

		if lo.Must(cmd.Flags().GetBool("icy")) {
			icy, ok := metadata.ParseICY(args[0])
			if !ok {
				handleErr(errors.New("no StreamTitle in ICY block"))
			}
			normalized = icy.Normalized()
		} else {
			art := lo.Must(cmd.Flags().GetString("artwork"))
			normalized = metadata.Normalize(args[0], mo.Some(metadata.Artwork{URL: art}))
		}

		fields := normalized.Fields()

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i, label := range []string{"Title", "Subtitle", "Artwork"} {
			cmd.Printf("%s %s\n", style.Bold(label+":"), fields[i])
		}
	},
}
