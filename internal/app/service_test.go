package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/qsched/internal/app"
	"github.com/okian/qsched/internal/domain/model"
	"github.com/okian/qsched/internal/domain/solver"
)

func intp(v int) *int { return &v }

func testConstraints() model.Constraints {
	return model.Constraints{
		StartDate:                "2026-09-01",
		EndDate:                  "2026-09-02",
		WorkingHoursStart:        "09:00",
		WorkingHoursEnd:          "17:00",
		MeetingDurationMinutes:   60,
		MaxMeetingsPerHostPerDay: 4,
	}
}

func host(id string, slots ...model.TimeSlot) model.Host {
	h := model.Host{ID: id, Active: true}
	byDate := map[string]int{}
	for _, s := range slots {
		i, ok := byDate[s.Date]
		if !ok {
			h.Availability = append(h.Availability, model.DayAvailability{Date: s.Date})
			i = len(h.Availability) - 1
			byDate[s.Date] = i
		}
		h.Availability[i].Slots = append(h.Availability[i].Slots, s)
	}
	return h
}

func slotAt(date, start, end string) model.TimeSlot {
	return model.TimeSlot{Date: date, Start: start, End: end}
}

// stubStrategy lets tests script solver outcomes.
type stubStrategy struct {
	name  string
	solve func(ctx context.Context, in solver.Input) (solver.Solution, error)
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Solve(ctx context.Context, in solver.Input) (solver.Solution, error) {
	return s.solve(ctx, in)
}

// scriptedQuantum returns a stub that schedules the first n requests.
func scriptedQuantum(n int) *stubStrategy {
	return &stubStrategy{
		name: model.AlgorithmQuantum,
		solve: func(_ context.Context, in solver.Input) (solver.Solution, error) {
			var sol solver.Solution
			for i, req := range in.Requests {
				if i < n {
					sol.Assignments = append(sol.Assignments, model.MeetingAssignment{
						RequestID: req.ID,
						HostID:    in.Index.Host(0).ID,
						Slot:      in.Index.Slots(0)[0],
						Score:     float64(req.ImportanceScore()),
					})
					continue
				}
				sol.Unscheduled = append(sol.Unscheduled, model.UnscheduledRequest{
					RequestID: req.ID,
					Reason:    solver.ReasonNoSlot,
				})
			}
			return sol, nil
		},
	}
}

func tenRequestProblem() model.Problem {
	p := model.Problem{Constraints: testConstraints(), Algorithm: model.AlgorithmHybrid}
	for i := 0; i < 10; i++ {
		p.Requests = append(p.Requests, model.MeetingRequest{ID: fmt.Sprintf("r%02d", i), Importance: intp(50 + i)})
	}
	for i := 0; i < 3; i++ {
		p.Hosts = append(p.Hosts, host(fmt.Sprintf("h%d", i),
			slotAt("2026-09-01", "09:00", "10:00"),
			slotAt("2026-09-01", "10:00", "11:00"),
			slotAt("2026-09-01", "11:00", "12:00"),
			slotAt("2026-09-02", "09:00", "10:00"),
		))
	}
	return p
}

func TestScheduleValidation(t *testing.T) {
	Convey("Given contradictory constraints", t, func() {
		p := model.Problem{Constraints: testConstraints()}
		p.Constraints.WorkingHoursEnd = "08:00"

		Convey("Then the run fails before any solving", func() {
			_, err := service.New().Schedule(context.Background(), p)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, service.ErrInvalidConstraints), ShouldBeTrue)
		})
	})

	Convey("Given a malformed event date range", t, func() {
		p := model.Problem{Constraints: testConstraints()}
		p.Constraints.EndDate = "2026-08-01"

		_, err := service.New().Schedule(context.Background(), p)
		So(errors.Is(err, service.ErrInvalidConstraints), ShouldBeTrue)
	})

	Convey("Given an unknown algorithm name", t, func() {
		p := model.Problem{Constraints: testConstraints(), Algorithm: "qaoa"}

		_, err := service.New().Schedule(context.Background(), p)
		So(errors.Is(err, service.ErrUnknownAlgorithm), ShouldBeTrue)
	})
}

func TestScheduleEmptyInput(t *testing.T) {
	Convey("Given a problem with zero requests", t, func() {
		p := model.Problem{Constraints: testConstraints()}

		Convey("When scheduled in any mode", func() {
			res, err := service.New().Schedule(context.Background(), p)
			So(err, ShouldBeNil)

			Convey("Then every metric is zero and nothing divides by zero", func() {
				So(res.Assignments, ShouldBeEmpty)
				So(res.Unscheduled, ShouldBeEmpty)
				So(res.Metrics, ShouldResemble, model.Metrics{})
			})
		})
	})
}

func TestScheduleClassical(t *testing.T) {
	Convey("Given a feasible classical run", t, func() {
		p := tenRequestProblem()
		p.Algorithm = model.AlgorithmClassical

		res, err := service.New().Schedule(context.Background(), p)
		So(err, ShouldBeNil)

		Convey("Then the classical solver is reported", func() {
			So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmClassical)
		})

		Convey("Then the partition invariant holds", func() {
			So(len(res.Assignments)+len(res.Unscheduled), ShouldEqual, len(p.Requests))
		})

		Convey("Then a correct solution reports zero violations", func() {
			So(res.Metrics.ConstraintViolations, ShouldEqual, 0)
		})

		Convey("Then the explanation and timing are populated", func() {
			So(res.Explanation, ShouldNotBeEmpty)
			So(res.ComputationTimeMs, ShouldBeGreaterThanOrEqualTo, 0)
		})
	})

	Convey("Given more requests than total slot capacity", t, func() {
		p := model.Problem{Constraints: testConstraints(), Algorithm: model.AlgorithmClassical}
		for i := 0; i < 5; i++ {
			p.Requests = append(p.Requests, model.MeetingRequest{ID: fmt.Sprintf("r%d", i)})
		}
		p.Hosts = []model.Host{host("h1",
			slotAt("2026-09-01", "09:00", "10:00"),
			slotAt("2026-09-01", "10:00", "11:00"),
		)}

		Convey("Then the overflow lands in unscheduled", func() {
			res, err := service.New().Schedule(context.Background(), p)
			So(err, ShouldBeNil)
			So(len(res.Unscheduled), ShouldBeGreaterThanOrEqualTo, 3)
			So(len(res.Assignments)+len(res.Unscheduled), ShouldEqual, 5)
		})
	})
}

func TestScheduleHybrid(t *testing.T) {
	Convey("Given a small hybrid problem", t, func() {
		p := tenRequestProblem()

		Convey("When the annealing result clears the acceptance ratio (9/10)", func() {
			svc := service.New(service.WithQuantum(scriptedQuantum(9)))
			res, err := svc.Schedule(context.Background(), p)
			So(err, ShouldBeNil)

			Convey("Then the annealing path is reported", func() {
				So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmQuantum)
				So(res.Metrics.ScheduledCount, ShouldEqual, 9)
			})
		})

		Convey("When the annealing result falls short (5/10)", func() {
			svc := service.New(service.WithQuantum(scriptedQuantum(5)))
			res, err := svc.Schedule(context.Background(), p)
			So(err, ShouldBeNil)

			Convey("Then the classical solver decides", func() {
				So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmClassical)
			})
		})
	})

	Convey("Given a problem above the hybrid size limits", t, func() {
		p := tenRequestProblem()
		quantumCalled := false
		svc := service.New(
			service.WithQuantum(&stubStrategy{
				name: model.AlgorithmQuantum,
				solve: func(_ context.Context, in solver.Input) (solver.Solution, error) {
					quantumCalled = true
					return solver.Solution{}, nil
				},
			}),
			service.WithHybridLimits(5, 2),
		)

		Convey("Then hybrid mode skips straight to the classical solver", func() {
			res, err := svc.Schedule(context.Background(), p)
			So(err, ShouldBeNil)
			So(quantumCalled, ShouldBeFalse)
			So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmClassical)
		})
	})
}

func TestScheduleFallback(t *testing.T) {
	Convey("Given a quantum solver that panics", t, func() {
		p := tenRequestProblem()
		p.Algorithm = model.AlgorithmQuantum
		svc := service.New(service.WithQuantum(&stubStrategy{
			name: model.AlgorithmQuantum,
			solve: func(_ context.Context, _ solver.Input) (solver.Solution, error) {
				panic("annealing loop corrupted")
			},
		}))

		Convey("When the run executes", func() {
			res, err := svc.Schedule(context.Background(), p)

			Convey("Then the failure never reaches the caller", func() {
				So(err, ShouldBeNil)
			})

			Convey("Then the classical fallback produced the result", func() {
				So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmClassical)
				So(res.Explanation, ShouldContainSubstring, "fallback")
				So(len(res.Assignments)+len(res.Unscheduled), ShouldEqual, len(p.Requests))
			})
		})
	})

	Convey("Given a quantum solver that returns an error", t, func() {
		p := tenRequestProblem()
		p.Algorithm = model.AlgorithmQuantum
		svc := service.New(service.WithQuantum(&stubStrategy{
			name: model.AlgorithmQuantum,
			solve: func(_ context.Context, _ solver.Input) (solver.Solution, error) {
				return solver.Solution{}, errors.New("backend unavailable")
			},
		}))

		Convey("Then the classical fallback still answers", func() {
			res, err := svc.Schedule(context.Background(), p)
			So(err, ShouldBeNil)
			So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmClassical)
		})
	})
}

func TestScheduleExtraStrategy(t *testing.T) {
	Convey("Given a registered hardware-backed strategy", t, func() {
		p := tenRequestProblem()
		p.Algorithm = "hardware"
		svc := service.New(service.WithStrategy("hardware", &stubStrategy{
			name: "hardware",
			solve: func(_ context.Context, in solver.Input) (solver.Solution, error) {
				var sol solver.Solution
				for _, req := range in.Requests {
					sol.Unscheduled = append(sol.Unscheduled, model.UnscheduledRequest{RequestID: req.ID, Reason: solver.ReasonNoSlot})
				}
				return sol, nil
			},
		}))

		Convey("Then the selector dispatches to it by name", func() {
			res, err := svc.Schedule(context.Background(), p)
			So(err, ShouldBeNil)
			So(res.AlgorithmUsed, ShouldEqual, "hardware")
			So(res.Metrics.UnscheduledCount, ShouldEqual, len(p.Requests))
		})
	})
}

func TestScheduleUtilization(t *testing.T) {
	Convey("Given two hosts and the default utilization constant", t, func() {
		p := model.Problem{Constraints: testConstraints(), Algorithm: model.AlgorithmClassical}
		p.Requests = []model.MeetingRequest{{ID: "r1"}, {ID: "r2"}}
		p.Hosts = []model.Host{
			host("h1", slotAt("2026-09-01", "09:00", "10:00")),
			host("h2", slotAt("2026-09-01", "09:00", "10:00")),
		}

		Convey("Then utilization divides scheduled count by hosts times the constant", func() {
			res, err := service.New().Schedule(context.Background(), p)
			So(err, ShouldBeNil)
			So(res.Metrics.ScheduledCount, ShouldEqual, 2)
			So(res.Metrics.AverageUtilization, ShouldAlmostEqual, 2.0/(2*4))
		})
	})
}
