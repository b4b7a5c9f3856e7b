package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	model "github.com/okian/wordscore/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestScoreRecord(t *testing.T) {
	convey.Convey("Given a ScoreRecord", t, func() {
		convey.Convey("When it has not been saved", func() {
			rec := model.ScoreRecord{Letters: "HELLO", Points: 8}

			convey.Convey("Then it should report itself as new", func() {
				convey.So(rec.IsNew(), convey.ShouldBeTrue)
				convey.So(rec.CreatedAt.IsZero(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the store assigned an id", func() {
			rec := model.ScoreRecord{
				ID:        uuid.New(),
				Letters:   "QZ",
				Points:    20,
				CreatedAt: time.Now().UTC(),
			}

			convey.Convey("Then it should not be new", func() {
				convey.So(rec.IsNew(), convey.ShouldBeFalse)
			})
		})
	})
}
