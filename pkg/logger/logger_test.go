package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When initialized with an unknown format", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})

		Convey("When writing JSON to a buffer", func() {
			var buf bytes.Buffer
			So(Init(WithWriter(&buf), WithFormat(FormatJSON)), ShouldBeNil)

			Named("scheduler").With(String("task", "snapshot")).Info(context.Background(), "tick",
				Int("events", 2), Bool("ok", true), Duration("took", time.Second))

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "tick")
			group, ok := rec["scheduler"].(map[string]any)
			So(ok, ShouldBeTrue)
			So(group["task"], ShouldEqual, "snapshot")
			So(group["events"], ShouldEqual, 2.0)
			So(group["source"], ShouldContainSubstring, "logger_test.go")
		})
	})
}

func TestLevels(t *testing.T) {
	Convey("Given a text logger on a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Then debug is hidden at info level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible", Error(errors.New("boom")))
			So(buf.String(), ShouldContainSubstring, "visible")
			So(buf.String(), ShouldContainSubstring, "error=boom")
			SetLevel(slog.LevelInfo)
		})

		Convey("Then unknown level names are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})

	Convey("Given a nop logger", t, func() {
		l := Nop().Named("quiet").With(String("k", "v"))
		So(func() { l.Error(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
