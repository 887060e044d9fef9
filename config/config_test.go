package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/key"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.EngineBinary), ShouldEqual, "mpv")
			So(viper.GetInt(key.IPCReadTimeout), ShouldEqual, 2000)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("engine.socket_wait_retries")
			So(result, ShouldEqual, "engine_socket_wait_retries")
		})

		Convey("Field.Env should carry the application prefix", func() {
			f := Default[key.IPCConnectTimeout]
			So(f.Env(), ShouldEqual, "SONATA_IPC_CONNECT_TIMEOUT")
		})
	})
}

func TestMillis(t *testing.T) {
	Convey("Millis", t, func() {
		Convey("Should convert integer milliseconds", func() {
			viper.Set(key.PlayerTick, 250)
			So(Millis(key.PlayerTick), ShouldEqual, 250*time.Millisecond)
		})

		Convey("Should clamp negative values to zero", func() {
			viper.Set(key.PlayerTick, -10)
			So(Millis(key.PlayerTick), ShouldEqual, time.Duration(0))
		})

		Reset(func() {
			viper.Set(key.PlayerTick, Default[key.PlayerTick].Value)
		})
	})
}
