package code_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/okian/pizzarank/internal/domain/code"
	"github.com/okian/pizzarank/internal/domain/dedupe"
	"github.com/okian/pizzarank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeKnown struct {
	known map[string]bool
	err   error
	calls int
}

func (f *fakeKnown) IsKnown(_ context.Context, c string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.known[c], nil
}

var codePattern = regexp.MustCompile(`^[a-z]+-[a-z]+$`)

func TestGenerate(t *testing.T) {
	Convey("Given a generator with the default vocabulary", t, func() {
		g := code.NewGenerator()

		Convey("Then every code is two lower-case words joined by a hyphen", func() {
			for i := 0; i < 200; i++ {
				So(codePattern.MatchString(g.Generate()), ShouldBeTrue)
			}
		})

		Convey("Then the space covers at least the original 8x8 words", func() {
			So(g.Space(), ShouldBeGreaterThanOrEqualTo, 64)
		})
	})

	Convey("Given a generator with upper-case words", t, func() {
		g := code.NewGenerator(code.WithVocabulary([]string{"RED"}, []string{"FOX"}))

		Convey("Then the output is lower-cased", func() {
			So(g.Generate(), ShouldEqual, "red-fox")
		})
	})

	Convey("Given two generators with the same seed", t, func() {
		a := code.NewGenerator(code.WithSeed(7))
		b := code.NewGenerator(code.WithSeed(7))

		Convey("Then they produce the same sequence", func() {
			for i := 0; i < 20; i++ {
				So(a.Generate(), ShouldEqual, b.Generate())
			}
		})
	})
}

func TestIssue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a one-word vocabulary", t, func() {
		known := &fakeKnown{known: map[string]bool{}}
		g := code.NewGenerator(
			code.WithVocabulary([]string{"red"}, []string{"fox"}),
			code.WithKnownChecker(known),
			code.WithMaxAttempts(3),
		)

		Convey("When issuing the first code", func() {
			c, attempts, err := g.Issue(ctx)

			Convey("Then it succeeds on the first attempt", func() {
				So(err, ShouldBeNil)
				So(c, ShouldEqual, "red-fox")
				So(attempts, ShouldEqual, 1)
			})

			Convey("And issuing again exhausts the space", func() {
				_, attempts, err := g.Issue(ctx)
				So(errors.Is(err, model.ErrCodeSpaceExhausted), ShouldBeTrue)
				So(attempts, ShouldEqual, 3)
			})
		})

		Convey("When the only code is already known to the store", func() {
			known.known["red-fox"] = true
			_, _, err := g.Issue(ctx)

			Convey("Then issuing fails", func() {
				So(errors.Is(err, model.ErrCodeSpaceExhausted), ShouldBeTrue)
			})
		})

		Convey("When the store fails", func() {
			known.err = model.ErrStoreUnavailable
			_, _, err := g.Issue(ctx)

			Convey("Then the error propagates and the code is released", func() {
				So(errors.Is(err, model.ErrStoreUnavailable), ShouldBeTrue)
				known.err = nil
				c, _, err := g.Issue(ctx)
				So(err, ShouldBeNil)
				So(c, ShouldEqual, "red-fox")
			})
		})
	})

	Convey("Given a shared issued set", t, func() {
		issued := dedupe.NewInMemoryDeduper()
		g := code.NewGenerator(code.WithIssued(issued), code.WithSeed(1))

		Convey("Then issued codes are unique", func() {
			seen := map[string]bool{}
			for i := 0; i < 50; i++ {
				c, _, err := g.Issue(ctx)
				So(err, ShouldBeNil)
				So(seen[c], ShouldBeFalse)
				seen[c] = true
			}
			So(issued.Size(), ShouldEqual, 50)
		})
	})

	Convey("Given a cancelled context", t, func() {
		g := code.NewGenerator()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := g.Issue(cctx)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	session := model.Session{Code: "red-fox"}

	Convey("Given a store that knows one code", t, func() {
		known := &fakeKnown{known: map[string]bool{"blue-cat": true}}

		Convey("When validating an empty code", func() {
			for _, c := range []string{"", "   ", "\t\n"} {
				_, err := code.Validate(ctx, session, c, known)
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			}

			Convey("Then the store is not queried", func() {
				So(known.calls, ShouldEqual, 0)
			})
		})

		Convey("When validating the caller's own code", func() {
			_, err := code.Validate(ctx, session, "red-fox", known)

			Convey("Then it fails with NoOpCode without querying the store", func() {
				So(errors.Is(err, model.ErrNoOpCode), ShouldBeTrue)
				So(known.calls, ShouldEqual, 0)
			})
		})

		Convey("When validating a code without records", func() {
			valid, err := code.Validate(ctx, session, "tiny-hawk", known)
			So(err, ShouldBeNil)
			So(valid, ShouldBeFalse)
		})

		Convey("When validating a known code", func() {
			valid, err := code.Validate(ctx, session, "blue-cat", known)
			So(err, ShouldBeNil)
			So(valid, ShouldBeTrue)
		})

		Convey("When codes differ only by case", func() {
			valid, err := code.Validate(ctx, session, "BLUE-CAT", known)

			Convey("Then they are compared exactly", func() {
				So(err, ShouldBeNil)
				So(valid, ShouldBeFalse)
			})
		})
	})
}
