package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/qsched/internal/domain/model"
)

func TestMinutesOfDay(t *testing.T) {
	Convey("Given wall-clock values", t, func() {
		Convey("Then well-formed clocks convert to minutes since midnight", func() {
			So(model.MinutesOfDay("00:00"), ShouldEqual, 0)
			So(model.MinutesOfDay("09:30"), ShouldEqual, 570)
			So(model.MinutesOfDay("23:59"), ShouldEqual, 1439)
		})

		Convey("Then malformed clocks yield -1", func() {
			So(model.MinutesOfDay(""), ShouldEqual, -1)
			So(model.MinutesOfDay("25:00"), ShouldEqual, -1)
			So(model.MinutesOfDay("9am"), ShouldEqual, -1)
		})
	})
}

func TestMeetingRequestImportance(t *testing.T) {
	Convey("Given a meeting request", t, func() {
		Convey("When the importance field is absent", func() {
			req := model.MeetingRequest{ID: "r1"}

			Convey("Then the default importance applies", func() {
				So(req.ImportanceScore(), ShouldEqual, model.DefaultImportance)
			})
		})

		Convey("When the importance field is zero", func() {
			zero := 0
			req := model.MeetingRequest{ID: "r1", Importance: &zero}

			Convey("Then zero is honored, not defaulted", func() {
				So(req.ImportanceScore(), ShouldEqual, 0)
			})
		})

		Convey("When the importance field is set", func() {
			ninety := 90
			req := model.MeetingRequest{ID: "r1", Importance: &ninety}

			So(req.ImportanceScore(), ShouldEqual, 90)
		})
	})
}

func TestPreferenceHelpers(t *testing.T) {
	Convey("Given a request with preferred dates", t, func() {
		req := model.MeetingRequest{PreferredDates: []string{"2026-09-01", "2026-09-03"}}

		So(req.WantsDate("2026-09-01"), ShouldBeTrue)
		So(req.WantsDate("2026-09-02"), ShouldBeFalse)
	})

	Convey("Given a host with preferred meeting types", t, func() {
		host := model.Host{PreferredMeetingTypes: []string{"technical", "intro"}}

		So(host.PrefersMeetingType("intro"), ShouldBeTrue)
		So(host.PrefersMeetingType("investor"), ShouldBeFalse)

		Convey("Then an empty requested type never matches", func() {
			So(host.PrefersMeetingType(""), ShouldBeFalse)
		})
	})
}

func TestSlotMinutes(t *testing.T) {
	Convey("Given a time slot", t, func() {
		s := model.TimeSlot{Date: "2026-09-01", Start: "10:00", End: "11:00"}

		So(s.StartMinutes(), ShouldEqual, 600)
		So(s.EndMinutes(), ShouldEqual, 660)
	})
}
