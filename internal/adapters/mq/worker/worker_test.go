package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/weekplan/internal/adapters/mq/queue"
	"github.com/okian/weekplan/internal/adapters/mq/worker"
	"github.com/okian/weekplan/internal/domain/invalidation"
	logging "github.com/okian/weekplan/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type recordingSink struct {
	name string
	err  error

	mu  sync.Mutex
	got []invalidation.Signal
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, sig invalidation.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, sig)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestDispatcher(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a dispatcher with a failing and a healthy sink", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		failing := &recordingSink{name: "failing", err: errors.New("unreachable")}
		healthy := &recordingSink{name: "healthy"}
		d := worker.NewDispatcher(q, []worker.Sink{failing, healthy}, worker.WithName("test"), worker.WithSinkTimeout(100))
		go d.Run(ctx)

		convey.Convey("When a signal is enqueued", func() {
			sig := invalidation.NewSignal(invalidation.Events, invalidation.Update, "e1", time.Now())
			convey.So(q.Enqueue(ctx, sig), convey.ShouldBeTrue)

			convey.Convey("Then both sinks receive it and only the healthy one counts as delivered", func() {
				convey.So(waitFor(func() bool { return healthy.count() == 1 && failing.count() == 1 }), convey.ShouldBeTrue)
				convey.So(healthy.got[0].RecordID, convey.ShouldEqual, "e1")
				convey.So(d.Delivered(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the dispatcher is shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then it stops and a second shutdown is harmless", func() {
				convey.So(d.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(d.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a pool of three dispatchers", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		sink := &recordingSink{name: "recording"}
		p := worker.NewPool(3, q, []worker.Sink{sink, worker.NewLogSink(nil)})
		convey.So(p.Size(), convey.ShouldEqual, 3)
		p.Start(ctx)

		convey.Convey("When signals are enqueued and the pool shuts down", func() {
			for i := 0; i < 20; i++ {
				q.Enqueue(ctx, invalidation.NewSignal(invalidation.Classes, invalidation.Delete, "c", time.Now()))
			}
			convey.So(p.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then every buffered signal reached the sinks exactly once", func() {
				convey.So(sink.count(), convey.ShouldEqual, 20)
				convey.So(p.Delivered(), convey.ShouldEqual, 40)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a non-positive dispatcher count", t, func() {
		p := worker.NewPool(0, queue.NewInMemoryQueue(), nil)
		convey.So(p.Size(), convey.ShouldEqual, 1)
	})
}
