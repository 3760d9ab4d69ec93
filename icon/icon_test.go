package icon

import (
	"testing"

	"github.com/qkd/kdplayer/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given every registered icon", t, func() {
		for _, variant := range AvailableVariants() {
			Convey("variant="+variant, func() {
				viper.Set(key.IconsVariant, variant)
				for i := Play; i <= Progress; i++ {
					So(Get(i), ShouldNotBeEmpty)
				}
			})
		}

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Play), ShouldBeEmpty)
		})
	})
}
