package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("JSON"), WithOutput(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When a message is logged through a named logger", func() {
			Get().Named("pitch").Info(ctx, "classified", String("zone", "Good"), Int("column", 2), Error(errors.New("boom")))

			Convey("Then fields are grouped under the name with a source location", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "classified")
				So(rec["level"], ShouldEqual, "INFO")
				group, ok := rec["pitch"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["zone"], ShouldEqual, "Good")
				So(group["column"], ShouldEqual, 2.0)
				So(group["error"], ShouldEqual, "boom")
				So(group["source"], ShouldContainSubstring, "logger_test.go:")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown", Bool("flag", true))

			Convey("Then lower levels are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})
	})

	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		So(SetLevelString("debug"), ShouldBeNil)
		Named("store").Debug(ctx, "opened", String("driver", "memory"))
		So(strings.Contains(buf.String(), "store.driver=memory"), ShouldBeTrue)
	})

	Convey("Given bad settings", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
		So(Get(), ShouldNotBeNil)
		So(Sync(), ShouldBeNil)
	})
}
