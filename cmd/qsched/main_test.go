package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/qsched/internal/config"
	"github.com/okian/qsched/internal/domain/model"
)

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	root := newRunCmd(cfg)
	root.SetArgs(args)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeProblem(t *testing.T, p model.Problem) string {
	t.Helper()
	data, err := json.Marshal(p)
	So(err, ShouldBeNil)
	path := filepath.Join(t.TempDir(), "problem.json")
	So(os.WriteFile(path, data, 0o600), ShouldBeNil)
	return path
}

func sampleProblem() model.Problem {
	imp := 80
	return model.Problem{
		Algorithm: model.AlgorithmClassical,
		Requests: []model.MeetingRequest{{
			ID:         "r-1",
			Topics:     []string{"budget review"},
			Importance: &imp,
		}},
		Hosts: []model.Host{{
			ID:     "h-1",
			Name:   "Dana",
			Active: true,
			Availability: []model.DayAvailability{{
				Date: "2026-09-01",
				Slots: []model.TimeSlot{
					{Start: "10:00", End: "11:00"},
				},
			}},
		}},
		Constraints: model.Constraints{
			StartDate:                "2026-09-01",
			EndDate:                  "2026-09-02",
			WorkingHoursStart:        "09:00",
			WorkingHoursEnd:          "17:00",
			MeetingDurationMinutes:   60,
			MaxMeetingsPerHostPerDay: 4,
		},
	}
}

func TestRunCommand(t *testing.T) {
	Convey("Given a problem file on disk", t, func() {
		cfg := config.New()
		path := writeProblem(t, sampleProblem())

		Convey("When the run command solves it", func() {
			out, err := execute(t, cfg, path)
			So(err, ShouldBeNil)

			var res model.Result
			So(json.Unmarshal([]byte(out), &res), ShouldBeNil)
			So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmClassical)
			So(res.Assignments, ShouldHaveLength, 1)
			So(res.Assignments[0].RequestID, ShouldEqual, "r-1")
			So(res.Assignments[0].HostID, ShouldEqual, "h-1")
		})

		Convey("When the algorithm flag overrides the file", func() {
			out, err := execute(t, cfg, "--algorithm", "quantum", path)
			So(err, ShouldBeNil)

			var res model.Result
			So(json.Unmarshal([]byte(out), &res), ShouldBeNil)
			So(res.AlgorithmUsed, ShouldEqual, model.AlgorithmQuantum)
		})

		Convey("When the file does not exist", func() {
			out, err := execute(t, cfg, filepath.Join(t.TempDir(), "missing.json"))
			So(err, ShouldNotBeNil)

			var envelope map[string]string
			So(json.Unmarshal([]byte(out), &envelope), ShouldBeNil)
			So(envelope["error"], ShouldNotBeEmpty)
		})

		Convey("When the problem names an unknown algorithm", func() {
			out, err := execute(t, cfg, "--algorithm", "qaoa", path)
			So(err, ShouldNotBeNil)
			So(out, ShouldContainSubstring, "error")
		})
	})
}

func TestProblemFiles(t *testing.T) {
	Convey("Given a directory of mixed files", t, func() {
		dir := t.TempDir()
		for _, name := range []string{"b.json", "a.json", "notes.txt"} {
			So(os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600), ShouldBeNil)
		}
		So(os.Mkdir(filepath.Join(dir, "sub.json"), 0o755), ShouldBeNil)

		Convey("Then only plain *.json files are listed, sorted", func() {
			paths, err := problemFiles(dir)
			So(err, ShouldBeNil)
			So(paths, ShouldResemble, []string{
				filepath.Join(dir, "a.json"),
				filepath.Join(dir, "b.json"),
			})
		})
	})

	Convey("Given a missing directory", t, func() {
		_, err := problemFiles(filepath.Join(t.TempDir(), "absent"))
		So(err, ShouldNotBeNil)
	})
}
