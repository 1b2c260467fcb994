package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/predboard/internal/adapters/repository"
	"github.com/okian/predboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func rec(correct, total int, at time.Time) model.Record {
	return model.Record{
		Accuracy:  float64(correct) / float64(total) * 100,
		Correct:   correct,
		Total:     total,
		Timestamp: at,
	}
}

func TestBoard_UpdateBest(t *testing.T) {
	Convey("Given an empty board", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryLeaderboardStore()
		board := repository.NewBoard(store)

		Convey("When Alex scores 75%", func() {
			updated, err := board.UpdateBest(ctx, "Alex", rec(3, 4, t0))

			Convey("Then the record is inserted", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				e, err := board.Rank(ctx, "Alex")
				So(err, ShouldBeNil)
				So(e.Accuracy, ShouldEqual, 75.0)
				So(e.Display, ShouldEqual, "75.00")
				So(e.Correct, ShouldEqual, 3)
				So(e.Total, ShouldEqual, 4)
				So(e.Rank, ShouldEqual, 1)
			})

			Convey("And a lower second score leaves it unchanged", func() {
				saves := store.Saves()
				updated, err := board.UpdateBest(ctx, "Alex", rec(3, 5, t0.Add(time.Hour)))
				So(err, ShouldBeNil)
				So(updated, ShouldBeFalse)
				So(store.Saves(), ShouldEqual, saves)
				e, _ := board.Rank(ctx, "Alex")
				So(e.Accuracy, ShouldEqual, 75.0)
			})

			Convey("And an equal score keeps the original timestamp", func() {
				updated, err := board.UpdateBest(ctx, "Alex", rec(6, 8, t0.Add(time.Hour)))
				So(err, ShouldBeNil)
				So(updated, ShouldBeFalse)
				e, _ := board.Rank(ctx, "Alex")
				So(e.Timestamp, ShouldEqual, t0)
				So(e.Total, ShouldEqual, 4)
			})

			Convey("And a higher score replaces it", func() {
				updated, err := board.UpdateBest(ctx, "Alex", rec(4, 4, t0.Add(time.Hour)))
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				e, _ := board.Rank(ctx, "Alex")
				So(e.Accuracy, ShouldEqual, 100.0)
				So(e.Timestamp, ShouldEqual, t0.Add(time.Hour))
			})
		})

		Convey("When a sequence of submissions arrives", func() {
			scores := [][2]int{{1, 4}, {3, 4}, {2, 4}, {0, 4}, {3, 4}, {1, 4}}
			for i, s := range scores {
				_, err := board.UpdateBest(ctx, "Ben", rec(s[0], s[1], t0.Add(time.Duration(i)*time.Minute)))
				So(err, ShouldBeNil)
			}

			Convey("Then the stored accuracy is the maximum submitted", func() {
				e, err := board.Rank(ctx, "Ben")
				So(err, ShouldBeNil)
				So(e.Accuracy, ShouldEqual, 75.0)
				So(e.Timestamp, ShouldEqual, t0.Add(time.Minute))
			})
		})

		Convey("When the name is blank", func() {
			updated, err := board.UpdateBest(ctx, "   ", rec(1, 1, t0))

			Convey("Then it is rejected", func() {
				So(updated, ShouldBeFalse)
				So(errors.Is(err, repository.ErrMissingName), ShouldBeTrue)
				So(store.Saves(), ShouldEqual, 0)
			})
		})

		Convey("When the name has surrounding spaces", func() {
			_, err := board.UpdateBest(ctx, "  Bob ", rec(1, 2, t0))

			Convey("Then it is stored trimmed", func() {
				So(err, ShouldBeNil)
				_, err := board.Rank(ctx, "Bob")
				So(err, ShouldBeNil)
			})
		})

		Convey("When the record is inconsistent", func() {
			_, err := board.UpdateBest(ctx, "Ann", model.Record{Correct: 5, Total: 4, Accuracy: 125})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, model.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When the accuracy disagrees with the counts", func() {
			updated, err := board.UpdateBest(ctx, "Ann", model.Record{Correct: 0, Total: 4, Accuracy: 100, Timestamp: t0})

			Convey("Then nothing is stored", func() {
				So(errors.Is(err, model.ErrInvalidRecord), ShouldBeTrue)
				So(updated, ShouldBeFalse)
				_, err := board.Rank(ctx, "Ann")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestBoard_Ranking(t *testing.T) {
	Convey("Given a board with ties", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryLeaderboardStore()
		So(store.Save(ctx, model.Board{
			"Zed":   rec(1, 2, t0),
			"Amy":   rec(1, 2, t0),
			"Early": rec(1, 2, t0.Add(-time.Hour)),
			"Top":   rec(9, 10, t0.Add(time.Hour)),
			"Low":   rec(0, 10, t0),
		}), ShouldBeNil)
		board := repository.NewBoard(store)

		Convey("When listing all entries", func() {
			entries, err := board.TopN(ctx, 0)

			Convey("Then accuracy, timestamp and name decide the order", func() {
				So(err, ShouldBeNil)
				names := make([]string, len(entries))
				for i, e := range entries {
					names[i] = e.Name
					So(e.Rank, ShouldEqual, i+1)
				}
				So(names, ShouldResemble, []string{"Top", "Early", "Amy", "Zed", "Low"})
			})
		})

		Convey("When listing the top two", func() {
			entries, err := board.TopN(ctx, 2)

			Convey("Then only two are returned", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[1].Name, ShouldEqual, "Early")
			})
		})

		Convey("When asking for more than exist", func() {
			entries, err := board.TopN(ctx, 50)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 5)
		})

		Convey("When ranking an unknown name", func() {
			_, err := board.Rank(ctx, "Nobody")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When counting", func() {
			n, err := board.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5)
		})
	})
}

type failingStore struct {
	repository.LeaderboardStore
	saveErr error
}

func (f *failingStore) Save(context.Context, model.Board) error { return f.saveErr }

func TestBoard_SaveFailure(t *testing.T) {
	Convey("Given a store whose saves fail", t, func() {
		boom := errors.New("disk full")
		board := repository.NewBoard(&failingStore{LeaderboardStore: repository.NewMemoryLeaderboardStore(), saveErr: boom})

		Convey("Then UpdateBest reports the failure", func() {
			updated, err := board.UpdateBest(context.Background(), "Alex", rec(1, 1, t0))
			So(updated, ShouldBeFalse)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
