package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	dedupe "github.com/okian/wordscore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When claiming keys", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord(ctx, "key-1")

				Convey("Then it should return false and record the key", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})

				Convey("And it should not resolve before being bound", func() {
					_, ok := d.Resolve(ctx, "key-1")
					So(ok, ShouldBeFalse)
				})
			})

			Convey("And the key was already claimed", func() {
				d.SeenAndRecord(ctx, "key-1")
				seen := d.SeenAndRecord(ctx, "key-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And a record id is bound", func() {
				id := uuid.New()
				d.SeenAndRecord(ctx, "key-1")
				d.Bind(ctx, "key-1", id)

				Convey("Then the key should resolve to it", func() {
					got, ok := d.Resolve(ctx, "key-1")
					So(ok, ShouldBeTrue)
					So(got, ShouldEqual, id)
				})
			})

			Convey("And binding an unknown key", func() {
				d.Bind(ctx, "ghost", uuid.New())

				Convey("Then nothing should be recorded", func() {
					_, ok := d.Resolve(ctx, "ghost")
					So(ok, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When unrecording a key", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "key-1")
			d.Unrecord(ctx, "key-1")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be claimed again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "key-1"), ShouldBeFalse)
			})
		})

		Convey("When the bounded cache overflows", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 0; i < 5; i++ {
				key := fmt.Sprintf("key-%d", i)
				d.SeenAndRecord(ctx, key)
				d.Bind(ctx, key, uuid.New())
			}

			Convey("Then the oldest keys should be evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "key-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "key-3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "key-0"), ShouldBeFalse)
			})
		})

		Convey("When the bounded cache overflows while the oldest claim is in flight", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			d.SeenAndRecord(ctx, "pending")
			d.SeenAndRecord(ctx, "done")
			d.Bind(ctx, "done", uuid.New())
			d.SeenAndRecord(ctx, "next")

			Convey("Then the bound key should be evicted instead of the pending one", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "pending"), ShouldBeTrue)
				_, ok := d.Resolve(ctx, "pending")
				So(ok, ShouldBeFalse)
			})

			Convey("And a late Bind should still reach the pending key", func() {
				id := uuid.New()
				d.Bind(ctx, "pending", id)
				got, ok := d.Resolve(ctx, "pending")
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, id)
			})
		})

		Convey("When every claim is in flight", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
			}

			Convey("Then the cache should grow past its bound rather than drop a claim", func() {
				So(d.Size(), ShouldEqual, 4)
				So(d.SeenAndRecord(ctx, "key-0"), ShouldBeTrue)
			})
		})

		Convey("When the cache is unbounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
			}

			Convey("Then nothing should be evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
			})
		})

		Convey("When many goroutines claim the same key", func() {
			d := dedupe.NewInMemoryDeduper()
			var wg sync.WaitGroup
			var mu sync.Mutex
			winners := 0
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "shared") {
						mu.Lock()
						winners++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one should win the claim", func() {
				So(winners, ShouldEqual, 1)
			})
		})
	})
}
