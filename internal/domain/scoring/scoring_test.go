package scoring_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	scoring "github.com/okian/predboard/internal/domain/scoring"
	"github.com/okian/predboard/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAccuracy(t *testing.T) {
	Convey("Given actuals [1,2,3,4]", t, func() {
		actual := []float64{1, 2, 3, 4}

		Convey("When predictions are [1,2,0,4]", func() {
			res, err := scoring.Accuracy(actual, []float64{1, 2, 0, 4})

			Convey("Then three of four match", func() {
				So(err, ShouldBeNil)
				So(res.Correct, ShouldEqual, 3)
				So(res.Total, ShouldEqual, 4)
				So(res.Accuracy, ShouldEqual, 75.0)
				So(scoring.Format(res.Accuracy), ShouldEqual, "75.00")
			})
		})

		Convey("When predictions are identical", func() {
			res, err := scoring.Accuracy(actual, actual)

			Convey("Then the score is perfect", func() {
				So(err, ShouldBeNil)
				So(res.Accuracy, ShouldEqual, 100.0)
				So(res.Correct, ShouldEqual, res.Total)
			})
		})

		Convey("When nothing matches", func() {
			res, err := scoring.Accuracy(actual, []float64{9, 9, 9, 9})

			Convey("Then accuracy is zero", func() {
				So(err, ShouldBeNil)
				So(res.Correct, ShouldEqual, 0)
				So(res.Accuracy, ShouldEqual, 0.0)
			})
		})

		Convey("When predictions are shorter", func() {
			res, err := scoring.Accuracy(actual, []float64{1, 2, 3})

			Convey("Then it fails with a length mismatch", func() {
				So(errors.Is(err, scoring.ErrLengthMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "4 actuals, 3 predictions")
				So(res, ShouldResemble, scoring.Result{})
			})
		})
	})

	Convey("Given two empty sequences", t, func() {
		_, err := scoring.Accuracy(nil, []float64{})

		Convey("Then it refuses to divide by zero", func() {
			So(errors.Is(err, scoring.ErrEmptyInput), ShouldBeTrue)
		})
	})

	Convey("Given values parsed from CSV text", t, func() {
		actual, err := sequence.Parse(strings.NewReader("0.3\n0.30\n"))
		So(err, ShouldBeNil)
		parts, err := sequence.Parse(strings.NewReader("0.1,0.2\n"))
		So(err, ShouldBeNil)
		sum := parts[0] + parts[1]

		Convey("When a prediction was computed as 0.1 + 0.2", func() {
			res, err := scoring.Accuracy(actual[:1], []float64{sum})

			Convey("Then exact comparison counts a miss", func() {
				So(err, ShouldBeNil)
				So(res.Correct, ShouldEqual, 0)
			})
		})

		Convey("When the prediction is written with a trailing zero", func() {
			res, err := scoring.Accuracy(actual[:1], actual[1:])

			Convey("Then it parses to the same value and matches", func() {
				So(err, ShouldBeNil)
				So(res.Correct, ShouldEqual, 1)
			})
		})
	})

	Convey("Given NaN on both sides", t, func() {
		res, err := scoring.Accuracy([]float64{math.NaN()}, []float64{math.NaN()})

		Convey("Then it never matches", func() {
			So(err, ShouldBeNil)
			So(res.Correct, ShouldEqual, 0)
		})
	})
}

func TestAccuracyFormula(t *testing.T) {
	Convey("Given sequences of varying agreement", t, func() {
		actual := []float64{1, 2, 3, 4, 5, 6, 7}
		for k := 0; k <= len(actual); k++ {
			predicted := make([]float64, len(actual))
			for i := range actual {
				if i < k {
					predicted[i] = actual[i]
				} else {
					predicted[i] = -actual[i]
				}
			}
			res, err := scoring.Accuracy(actual, predicted)
			So(err, ShouldBeNil)
			So(res.Correct, ShouldEqual, k)
			So(res.Accuracy, ShouldEqual, float64(k)/float64(len(actual))*100)
		}
	})
}

func TestRound(t *testing.T) {
	Convey("Given accuracies with long fractions", t, func() {
		So(scoring.Round(100.0/3), ShouldEqual, 33.33)
		So(scoring.Round(200.0/3), ShouldEqual, 66.67)
		So(scoring.Format(100.0/3), ShouldEqual, "33.33")
		So(scoring.Format(100), ShouldEqual, "100.00")
		So(scoring.Format(0), ShouldEqual, "0.00")
	})
}
