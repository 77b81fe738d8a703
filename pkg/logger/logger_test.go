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

func TestLoggerInit(t *testing.T) {
	Convey("Init", t, func() {
		Convey("installs a global logger", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("rejects unknown formats and levels", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
			So(Init(WithLevel("loud")), ShouldNotBeNil)
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("JSON output carries fields, component and source", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithOutput(&buf)), ShouldBeNil)

		Named("ingest").With(Int64("team", 118)).Info(context.Background(), "applied",
			Bool("created", true), Error(errors.New("boom")))

		var line map[string]any
		So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
		So(line["msg"], ShouldEqual, "applied")
		So(line["component"], ShouldEqual, "ingest")
		So(line["team"], ShouldEqual, float64(118))
		So(line["created"], ShouldEqual, true)
		So(line["error"], ShouldEqual, "boom")
		So(line["source"], ShouldContainSubstring, "logger_test.go")
	})
}

func TestLoggerLevel(t *testing.T) {
	Convey("Debug is suppressed until the level is lowered", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Get().Debug(ctx, "hidden")
		So(buf.Len(), ShouldEqual, 0)

		So(SetLevelString("DEBUG"), ShouldBeNil)
		Get().Debug(ctx, "shown")
		So(strings.Contains(buf.String(), "shown"), ShouldBeTrue)

		So(SetLevelString("nope"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
