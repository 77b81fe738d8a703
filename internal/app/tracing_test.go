package service_test

import (
	"bytes"
	"context"
	"testing"

	service "github.com/okian/specialscout/internal/app"
	"github.com/okian/specialscout/internal/config"
	"github.com/okian/specialscout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInitTracing(t *testing.T) {
	Convey("Given tracing exported to a buffer", t, func() {
		ctx := context.Background()
		var out bytes.Buffer
		shutdown, err := service.InitTracing(ctx, "1.2.3", true, &out)
		So(err, ShouldBeNil)

		Convey("When a submission is applied and the provider shuts down", func() {
			svc := service.New(service.WithStoreDriver(config.DriverMemory))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			_, err := svc.Ingest(ctx, 1, &model.MatchRecord{Team: 118})
			So(err, ShouldBeNil)
			So(shutdown(ctx), ShouldBeNil)

			Convey("Then the span and resource are written out", func() {
				So(out.String(), ShouldContainSubstring, "ingest.Apply")
				So(out.String(), ShouldContainSubstring, "specialscout")
				So(out.String(), ShouldContainSubstring, "1.2.3")
			})
		})
	})

	Convey("Given tracing without export", t, func() {
		shutdown, err := service.InitTracing(context.Background(), "dev", false, nil)

		Convey("Then the provider still installs and shuts down", func() {
			So(err, ShouldBeNil)
			So(shutdown(context.Background()), ShouldBeNil)
		})
	})
}
