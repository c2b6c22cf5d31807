package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecording(t *testing.T) {
	Convey("Given the run metrics", t, func() {
		Convey("Then recording runs and fallbacks does not panic", func() {
			So(func() {
				RecordRun("classical")
				RecordRun("quantum")
				RecordRun("hybrid")
				RecordFallback()
			}, ShouldNotPanic)
		})

		Convey("And observing durations accepts edge values", func() {
			So(func() {
				ObserveRunDuration(0)
				ObserveRunDuration(0.05)
				ObserveRunDuration(10)
			}, ShouldNotPanic)
		})

		Convey("And counters accept zero and large values", func() {
			So(func() {
				AddScheduled(0)
				AddScheduled(100000)
				AddUnscheduled(0)
				AddUnscheduled(42)
			}, ShouldNotPanic)
		})
	})

	Convey("Given the operational gauges", t, func() {
		Convey("Then updates do not panic", func() {
			So(func() {
				UpdateQueueDepth(0)
				UpdateQueueDepth(1024)
				UpdateWorkerCount(8)
				RecordJobFailure()
			}, ShouldNotPanic)
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		done := make(chan struct{}, 8)
		for i := 0; i < 8; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordRun("hybrid")
					UpdateQueueDepth(j)
					ObserveRunDuration(float64(j) / 1000)
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}

		Convey("Then no panic occurred", func() {
			So(true, ShouldBeTrue)
		})
	})
}
