package cmd

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/key"
	"github.com/spf13/viper"
)

var configOnce sync.Once

// useMemConfig points viper at a fresh in-memory filesystem.
func useMemConfig() {
	filesystem.SetMemMapFs()
	configOnce.Do(func() {
		if err := config.Setup(); err != nil {
			panic(err)
		}
	})
	viper.SetFs(filesystem.API())
}

func TestConfigCommands(t *testing.T) {
	Convey("Given the in-memory configuration", t, func() {
		useMemConfig()

		Reset(func() {
			So(resetValues(), ShouldBeNil)
		})

		Convey("setValue should store and persist a valid value", func() {
			v, err := setValue(key.EngineVolume, []string{"55"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 55)
			So(viper.GetInt(key.EngineVolume), ShouldEqual, 55)

			contents, err := filesystem.API().ReadFile(configFile())
			So(err, ShouldBeNil)
			So(string(contents), ShouldContainSubstring, "volume = 55")

			Convey("and resetValues should restore the default", func() {
				So(resetValues(key.EngineVolume), ShouldBeNil)
				So(viper.GetInt(key.EngineVolume), ShouldEqual, 70)
			})

			Convey("and an out-of-range volume should be refused", func() {
				_, err := setValue(key.EngineVolume, []string{"150"})
				So(err, ShouldNotBeNil)
				So(viper.GetInt(key.EngineVolume), ShouldEqual, 55)
			})
		})

		Convey("setValue should refuse a read timeout of zero", func() {
			_, err := setValue(key.IPCReadTimeout, []string{"0"})
			So(err, ShouldNotBeNil)
			So(viper.GetInt(key.IPCReadTimeout), ShouldEqual, 2000)
		})

		Convey("setValue should refuse values that do not parse", func() {
			_, err := setValue(key.EngineGapless, []string{"maybe"})
			So(err, ShouldNotBeNil)

			_, err = setValue(key.PlayerTick, []string{"fast"})
			So(err, ShouldNotBeNil)

			_, err = setValue(key.PlayerTick, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("setValue should suggest the closest key for typos", func() {
			_, err := setValue("engine.volum", []string{"5"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.EngineVolume)
		})

		Convey("resetValues should reject unknown keys", func() {
			So(resetValues("ipc.timeout"), ShouldNotBeNil)
		})

		Convey("selectFields should return the requested fields sorted", func() {
			fields, err := selectFields([]string{key.IPCReadTimeout, key.EngineBinary})
			So(err, ShouldBeNil)
			So(fields, ShouldHaveLength, 2)
			So(fields[0].Key, ShouldEqual, key.EngineBinary)
			So(fields[1].Key, ShouldEqual, key.IPCReadTimeout)

			Convey("and printFields should group them by section", func() {
				var out bytes.Buffer
				So(printFields(&out, fields, false), ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "engine")
				So(out.String(), ShouldContainSubstring, "ipc")
			})

			Convey("and printFields should encode them as json", func() {
				var out bytes.Buffer
				So(printFields(&out, fields, true), ShouldBeNil)

				var decoded []map[string]any
				So(json.Unmarshal(out.Bytes(), &decoded), ShouldBeNil)
				So(decoded, ShouldHaveLength, 2)
				So(decoded[0]["key"], ShouldEqual, key.EngineBinary)
				So(decoded[1]["default"], ShouldEqual, 2000.0)
			})
		})

		Convey("selectFields should reject unknown keys", func() {
			_, err := selectFields([]string{"nope"})
			So(err, ShouldNotBeNil)
		})

		Convey("section should name the part before the first dot", func() {
			So(section(key.EngineSocketWaitRetries), ShouldEqual, "engine")
			So(section("plain"), ShouldEqual, "plain")
		})
	})
}
