package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/scoring"
	types "github.com/okian/wordscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromRanked(t *testing.T) {
	Convey("Given a ranked page", t, func() {
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		id := uuid.New()
		entries := []model.RankedEntry{{Rank: 1, Record: model.ScoreRecord{ID: id, Letters: "WORLD", Points: 9, CreatedAt: at}}}

		Convey("When converting to the wire shape", func() {
			rows := types.FromRanked(entries)
			raw, err := json.Marshal(rows[0])

			Convey("Then points should be exposed as score with camelCase keys", func() {
				So(err, ShouldBeNil)
				var m map[string]any
				So(json.Unmarshal(raw, &m), ShouldBeNil)
				So(m["rank"], ShouldEqual, float64(1))
				So(m["score"], ShouldEqual, float64(9))
				So(m["letters"], ShouldEqual, "WORLD")
				So(m["id"], ShouldEqual, id.String())
				So(m["createdAt"], ShouldEqual, "2024-05-01T12:00:00Z")
			})
		})
	})
}

func TestFromBands(t *testing.T) {
	Convey("Given the scoring rules", t, func() {
		rules := types.FromBands(scoring.Rules())

		Convey("Then every band should be carried over in order", func() {
			So(len(rules), ShouldEqual, 7)
			So(rules[0], ShouldResemble, types.ScoringRule{Points: 1, Letters: "AEILNORSTU"})
			So(rules[6], ShouldResemble, types.ScoringRule{Points: 10, Letters: "QZ"})
		})
	})
}

func TestLettersRequest(t *testing.T) {
	Convey("Given a request body without letters", t, func() {
		var req types.LettersRequest
		err := json.Unmarshal([]byte(`{}`), &req)

		Convey("Then the field should be reported as absent", func() {
			So(err, ShouldBeNil)
			So(req.Letters, ShouldBeNil)
		})
	})
}
