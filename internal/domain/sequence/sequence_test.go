package sequence_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/predboard/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a CSV upload", t, func() {
		Convey("When a row holds a non-numeric cell", func() {
			seq, err := sequence.Parse(strings.NewReader("1,x\n2,3\n"))

			Convey("Then the cell is dropped and order is row-major", func() {
				So(err, ShouldBeNil)
				So(seq, ShouldResemble, []float64{1, 2, 3})
			})
		})

		Convey("When rows have different lengths", func() {
			seq, err := sequence.Parse(strings.NewReader("1\n2,3,4\n5,6\n"))

			Convey("Then every cell is kept", func() {
				So(err, ShouldBeNil)
				So(seq, ShouldResemble, []float64{1, 2, 3, 4, 5, 6})
			})
		})

		Convey("When cells are empty, padded or NaN", func() {
			seq, err := sequence.Parse(strings.NewReader(" 1.5 ,,nan\nNA, 2 ,NaN\n-3e2,null,\n"))

			Convey("Then only numbers survive", func() {
				So(err, ShouldBeNil)
				So(seq, ShouldResemble, []float64{1.5, 2, -300})
			})
		})

		Convey("When the stream starts with a BOM", func() {
			seq, err := sequence.Parse(strings.NewReader("\ufeff7,8\n"))

			Convey("Then the first value is still read", func() {
				So(err, ShouldBeNil)
				So(seq, ShouldResemble, []float64{7, 8})
			})
		})

		Convey("When the stream uses CRLF line endings", func() {
			seq, err := sequence.Parse(strings.NewReader("1,2\r\n3,4\r\n"))

			Convey("Then it parses the same as LF", func() {
				So(err, ShouldBeNil)
				So(seq, ShouldResemble, []float64{1, 2, 3, 4})
			})
		})

		Convey("When the stream is empty", func() {
			seq, err := sequence.Parse(strings.NewReader(""))

			Convey("Then it reports an empty parse error", func() {
				So(seq, ShouldBeNil)
				So(errors.Is(err, sequence.ErrEmpty), ShouldBeTrue)
				So(errors.Is(err, sequence.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When no cell is numeric", func() {
			seq, err := sequence.Parse(strings.NewReader("a,b\nc,d\n"))

			Convey("Then it reports a parse error", func() {
				So(seq, ShouldBeNil)
				So(errors.Is(err, sequence.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When the CSV is malformed", func() {
			seq, err := sequence.Parse(strings.NewReader("1,\"2\n3"))

			Convey("Then it reports a parse error and no data", func() {
				So(seq, ShouldBeNil)
				So(errors.Is(err, sequence.ErrParse), ShouldBeTrue)
				So(errors.Is(err, sequence.ErrEmpty), ShouldBeFalse)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a numeric sequence", t, func() {
		seq := []float64{1, 2.5, -0.125, 1e21, 42}

		Convey("When it is written", func() {
			var buf bytes.Buffer
			err := sequence.Write(&buf, seq)

			Convey("Then there is one value per row", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldEqual, "1\n2.5\n-0.125\n1e+21\n42\n")
			})

			Convey("And it parses back unchanged", func() {
				back, err := sequence.Parse(&buf)
				So(err, ShouldBeNil)
				So(back, ShouldResemble, seq)
			})
		})
	})
}
