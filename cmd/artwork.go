package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/qkd/kdplayer/artwork"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/icon"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/metadata"
	"github.com/qkd/kdplayer/open"
	"github.com/qkd/kdplayer/util"
	"github.com/qkd/kdplayer/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(artworkCmd)

	artworkCmd.Flags().StringP("output", "o", "", "File to write the JPEG to (defaults to the artwork directory)")
	artworkCmd.Flags().IntP("quality", "q", 0, "JPEG quality between 1 and 100 (defaults to artwork.jpeg_quality)")
	artworkCmd.Flags().Bool("open", false, "Open the saved image with artwork.viewer")
}

var artworkCmd = &cobra.Command{
	Use:     "artwork ref",
	Short:   "Fetch an artwork reference and save it as JPEG",
	Example: "  kdplayer artwork https://example.com/cover.png -o cover.jpg",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			output  = lo.Must(cmd.Flags().GetString("output"))
			quality = lo.Must(cmd.Flags().GetInt("quality"))
		)

		if quality == 0 {
			quality = viper.GetInt(key.ArtworkJPEGQuality)
		}

		resolver := artwork.NewResolver(nil)
		resolver.Resolve(metadata.Artwork{URL: args[0]})
		resolver.Wait()

		img, ok := resolver.Current().Get()
		if !ok {
			handleErr(errors.New("could not resolve artwork, see the logs for details"))
		}

		data, err := artwork.EncodeJPEG(img, quality)
		handleErr(err)

		if output == "" {
			base := filepath.Base(args[0])
			output, err = saveArtwork(data, strings.TrimSuffix(base, filepath.Ext(base)))
		} else {
			err = filesystem.API().WriteFile(output, data, 0644)
		}
		handleErr(err)

		cmd.Printf("%s %s (%s, %dx%d)\n",
			icon.Get(icon.Success),
			output,
			img.Format,
			img.Bounds().Dx(),
			img.Bounds().Dy(),
		)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.StartWith(output, viper.GetString(key.ArtworkViewer)))
		}
	},
}

// saveArtwork writes a JPEG into the artwork directory and returns its path.
func saveArtwork(data []byte, name string) (string, error) {
	name = util.SanitizeFilename(name)
	if name == "" {
		name = "artwork"
	}

	path := filepath.Join(where.Artwork(), fmt.Sprintf("%s-%d.jpg", name, time.Now().Unix()))
	if err := filesystem.API().WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	return path, nil
}
