package ranking_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func record(letters string, points int, at time.Time) model.ScoreRecord {
	return model.ScoreRecord{ID: uuid.New(), Letters: letters, Points: points, CreatedAt: at}
}

func TestFindTopScores(t *testing.T) {
	Convey("Given a page already ordered by the store", t, func() {
		now := time.Now().UTC()
		page := []model.ScoreRecord{
			record("WORLD", 9, now),
			record("HELLO", 8, now.Add(time.Second)),
			record("TEST", 4, now.Add(2*time.Second)),
		}
		req := ranking.SortRequest{Orders: ranking.DefaultOrders(), Page: 0, Size: 10}

		Convey("When ranking the page", func() {
			entries, err := ranking.FindTopScores(page, req)

			Convey("Then ranks should be positional and order preserved", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
					So(e.Record, ShouldResemble, page[i])
				}
			})
		})

		Convey("When the page is not in score order", func() {
			reversed := []model.ScoreRecord{page[2], page[0], page[1]}
			entries, err := ranking.FindTopScores(reversed, req)

			Convey("Then no re-sorting should happen", func() {
				So(err, ShouldBeNil)
				So(entries[0].Record.Letters, ShouldEqual, "TEST")
				So(entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When requesting a later page", func() {
			entries, err := ranking.FindTopScores(page[1:], ranking.SortRequest{Page: 3, Size: 2})

			Convey("Then ranks should still start at one", func() {
				So(err, ShouldBeNil)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty page", t, func() {
		entries, err := ranking.FindTopScores(nil, ranking.SortRequest{Size: 10})

		Convey("Then the result should be empty without error", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldNotBeNil)
			So(entries, ShouldBeEmpty)
		})
	})

	Convey("Given an unknown sort field", t, func() {
		req := ranking.SortRequest{Orders: []ranking.Order{{Field: "invalidField"}}, Size: 10}
		_, err := ranking.FindTopScores(nil, req)

		Convey("Then it should fail naming the field and the valid set", func() {
			So(errors.Is(err, ranking.ErrInvalidSortField), ShouldBeTrue)
			var isf *ranking.InvalidSortFieldError
			So(errors.As(err, &isf), ShouldBeTrue)
			So(isf.Field, ShouldEqual, "invalidField")
			So(err.Error(), ShouldEqual, "invalid sort field: invalidField. Valid fields: points, createdAt")
		})
	})

	Convey("Given page sizes around the maximum", t, func() {
		Convey("When the size is 101", func() {
			_, err := ranking.FindTopScores(nil, ranking.SortRequest{Size: 101})

			Convey("Then it should fail with the maximum", func() {
				So(errors.Is(err, ranking.ErrPageSizeExceeded), ShouldBeTrue)
				var pse *ranking.PageSizeExceededError
				So(errors.As(err, &pse), ShouldBeTrue)
				So(pse.Requested, ShouldEqual, 101)
				So(pse.Max, ShouldEqual, 100)
			})
		})

		Convey("When the size is exactly 100", func() {
			_, err := ranking.FindTopScores(nil, ranking.SortRequest{Size: 100})

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given both an invalid field and an oversized page", t, func() {
		req := ranking.SortRequest{Orders: []ranking.Order{{Field: "letters"}}, Size: 500}
		err := req.Validate()

		Convey("Then the field error should win", func() {
			So(errors.Is(err, ranking.ErrInvalidSortField), ShouldBeTrue)
		})
	})

	Convey("Given a negative page", t, func() {
		err := ranking.SortRequest{Page: -1, Size: 10}.Validate()

		Convey("Then it should be rejected as invalid pagination", func() {
			So(errors.Is(err, ranking.ErrInvalidPagination), ShouldBeTrue)
		})
	})

	Convey("Given a page whose offset does not fit in an int", t, func() {
		huge := ranking.SortRequest{Orders: ranking.DefaultOrders(), Page: 1 << 62, Size: 2}
		edge := ranking.SortRequest{Orders: ranking.DefaultOrders(), Page: math.MaxInt / 2, Size: 2}

		Convey("Then it should be rejected as invalid pagination", func() {
			So(errors.Is(huge.Validate(), ranking.ErrInvalidPagination), ShouldBeTrue)
			So(errors.Is(ranking.SortRequest{Page: math.MaxInt, Size: ranking.MaxPageSize}.Validate(), ranking.ErrInvalidPagination), ShouldBeTrue)
			_, err := ranking.FindTopScores(nil, huge)
			So(errors.Is(err, ranking.ErrInvalidPagination), ShouldBeTrue)
		})

		Convey("Then the largest representable page should still be accepted", func() {
			So(edge.Validate(), ShouldBeNil)
			So(edge.Offset(), ShouldEqual, math.MaxInt-1)
		})
	})
}
