package pubsub_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/okian/weekplan/internal/adapters/pubsub"
	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRedisBus(t *testing.T) {
	_ = logger.Init()

	Convey("Given two instances sharing one Redis", t, func() {
		mr := miniredis.RunT(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a, err := pubsub.NewRedis(ctx, mr.Addr(), pubsub.WithChannel("test:inv"), pubsub.WithOrigin("a"))
		So(err, ShouldBeNil)
		defer func() { _ = a.Close() }()
		b, err := pubsub.NewRedis(ctx, mr.Addr(), pubsub.WithChannel("test:inv"), pubsub.WithOrigin("b"))
		So(err, ShouldBeNil)
		defer func() { _ = b.Close() }()

		So(a.Name(), ShouldEqual, "redis")
		So(a.Origin(), ShouldEqual, "a")

		got := make(chan invalidation.Signal, 4)
		handler := func(_ context.Context, s invalidation.Signal) { got <- s }
		ready := make(chan struct{})
		go func() {
			close(ready)
			_ = b.Listen(ctx, handler)
		}()
		go func() { _ = a.Listen(ctx, handler) }()
		<-ready

		Convey("When instance a publishes a class deletion", func() {
			sig := invalidation.NewSignal(invalidation.Classes, invalidation.Delete, "c9", time.Unix(100, 0).UTC())

			// Retry until b's subscription is live.
			var received invalidation.Signal
			deadline := time.After(2 * time.Second)
		loop:
			for {
				So(a.Deliver(ctx, sig), ShouldBeNil)
				select {
				case received = <-got:
					break loop
				case <-time.After(50 * time.Millisecond):
				case <-deadline:
					break loop
				}
			}

			Convey("Then instance b relays it and a ignores its own message", func() {
				So(received.RecordID, ShouldEqual, "c9")
				So(received.Views, ShouldResemble, []invalidation.View{
					invalidation.ClassList, invalidation.ClassCount, invalidation.TodayClasses,
				})
				So(received.At.Equal(sig.At), ShouldBeTrue)
			})
		})

		Convey("When a malformed message arrives", func() {
			mr.Publish("test:inv", "not json")

			Convey("Then no handler is called", func() {
				select {
				case s := <-got:
					t.Errorf("unexpected relay of %+v", s)
				case <-time.After(100 * time.Millisecond):
				}
			})
		})
	})

	Convey("Given an unreachable address", t, func() {
		mr, err := miniredis.Run()
		So(err, ShouldBeNil)
		addr := mr.Addr()
		mr.Close()

		_, err = pubsub.NewRedis(context.Background(), addr)

		Convey("Then construction fails with ErrConnect", func() {
			So(errors.Is(err, pubsub.ErrConnect), ShouldBeTrue)
		})
	})
}
