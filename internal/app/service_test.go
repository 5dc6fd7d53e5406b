package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/okian/pizzarank/internal/adapters/cache"
	"github.com/okian/pizzarank/internal/adapters/catalog"
	"github.com/okian/pizzarank/internal/adapters/repository"
	service "github.com/okian/pizzarank/internal/app"
	"github.com/okian/pizzarank/internal/domain/code"
	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/pkg/logger"
	"github.com/okian/pizzarank/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var testSpots = []model.Spot{
	{Name: "Joe's", Address: "7 Carmine St"},
	{Name: "Lucali", Address: "575 Henry St"},
	{Name: "Di Fara", Address: "1424 Avenue J"},
}

func newService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	cat, err := catalog.NewStatic(testSpots)
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(append([]service.Option{service.WithCatalog(cat)}, opts...)...)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

// brokenListAll fails full-table reads while per-code reads still work.
type brokenListAll struct {
	*repository.MemoryStore
}

func (brokenListAll) ListAll(context.Context) ([]model.Rating, error) {
	return nil, model.ErrStoreUnavailable
}

func scores(crust, sauce, cheese, flavor float64) model.Scores {
	return model.Scores{Crust: crust, Sauce: sauce, Cheese: cheese, Flavor: flavor}
}

func TestService_SubmitRating(t *testing.T) {
	Convey("Given a service with a catalog", t, func() {
		ctx := context.Background()
		svc := newService(t)
		alice := model.Session{Code: "brave-bear"}

		Convey("When a rating within range is submitted", func() {
			err := svc.SubmitRating(ctx, alice, "Joe's", scores(8, 6, 7, 9), "  great crust  ")

			Convey("Then it should be stored with trimmed notes", func() {
				So(err, ShouldBeNil)
				r, err := svc.GetRating(ctx, alice, "Joe's")
				So(err, ShouldBeNil)
				So(r, ShouldNotBeNil)
				So(r.Scores, ShouldResemble, scores(8, 6, 7, 9))
				So(r.Notes, ShouldEqual, "great crust")
			})
		})

		Convey("When a field is out of range", func() {
			err := svc.SubmitRating(ctx, alice, "Joe's", scores(8, 10.5, 7, 9), "")

			Convey("Then it should fail with ErrOutOfRange and write nothing", func() {
				So(errors.Is(err, model.ErrOutOfRange), ShouldBeTrue)
				ratings, err := svc.GetUserRatings(ctx, alice)
				So(err, ShouldBeNil)
				So(ratings, ShouldBeEmpty)
			})
		})

		Convey("When the spot is not in the catalog", func() {
			err := svc.SubmitRating(ctx, alice, "Domino's", scores(1, 1, 1, 1), "")

			Convey("Then it should fail with ErrUnknownSpot", func() {
				So(errors.Is(err, model.ErrUnknownSpot), ShouldBeTrue)
			})
		})

		Convey("When the session is empty", func() {
			err := svc.SubmitRating(ctx, model.Session{}, "Joe's", scores(1, 1, 1, 1), "")

			Convey("Then it should fail with ErrInvalidInput", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the notes exceed the cap", func() {
			small := newService(t, service.WithMaxNotesLength(5))
			err := small.SubmitRating(ctx, alice, "Joe's", scores(1, 1, 1, 1), "ñññññn")

			Convey("Then it should fail with ErrInvalidInput", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When scores are finer than one decimal", func() {
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(7.26, 3.04, 0.05, 9.99), ""), ShouldBeNil)

			Convey("Then they should be stored on the 0.1 step", func() {
				r, err := svc.GetRating(ctx, alice, "Joe's")
				So(err, ShouldBeNil)
				So(r.Crust, ShouldAlmostEqual, 7.3)
				So(r.Sauce, ShouldAlmostEqual, 3.0)
				So(r.Cheese, ShouldAlmostEqual, 0.1)
				So(r.Flavor, ShouldAlmostEqual, 10.0)
			})
		})

		Convey("When the same rating is submitted twice", func() {
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(5, 5, 5, 5), "x"), ShouldBeNil)
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(5, 5, 5, 5), "x"), ShouldBeNil)

			Convey("Then exactly one rating should exist", func() {
				ratings, err := svc.GetUserRatings(ctx, alice)
				So(err, ShouldBeNil)
				So(ratings, ShouldHaveLength, 1)
			})
		})

		Convey("When a rating is replaced", func() {
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(5, 5, 5, 5), "first"), ShouldBeNil)
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(9, 8, 7, 6), "second"), ShouldBeNil)

			Convey("Then only the second one should remain", func() {
				ratings, err := svc.GetUserRatings(ctx, alice)
				So(err, ShouldBeNil)
				So(ratings, ShouldHaveLength, 1)
				So(ratings[0].Scores, ShouldResemble, scores(9, 8, 7, 6))
				So(ratings[0].Notes, ShouldEqual, "second")
			})
		})

		Convey("When a rating is looked up that does not exist", func() {
			r, err := svc.GetRating(ctx, alice, "Lucali")

			Convey("Then it should be absent without an error", func() {
				So(err, ShouldBeNil)
				So(r, ShouldBeNil)
			})
		})
	})
}

func TestService_Leaderboard(t *testing.T) {
	Convey("Given a service with no ratings", t, func() {
		ctx := context.Background()
		svc := newService(t)

		Convey("When the leaderboard is requested", func() {
			lb, err := svc.GetLeaderboard(ctx)

			Convey("Then it should be empty with no winners", func() {
				So(err, ShouldBeNil)
				So(lb.Entries, ShouldBeEmpty)
				So(lb.Winners, ShouldBeEmpty)
			})
		})

		Convey("When two identities rate the same spot", func() {
			So(svc.SubmitRating(ctx, model.Session{Code: "a-a"}, "Joe's", scores(8, 6, 7, 9), ""), ShouldBeNil)
			So(svc.SubmitRating(ctx, model.Session{Code: "b-b"}, "Joe's", scores(4, 4, 5, 5), ""), ShouldBeNil)
			So(svc.SubmitRating(ctx, model.Session{Code: "a-a"}, "Lucali", scores(9, 9, 9, 9), ""), ShouldBeNil)

			lb, err := svc.GetLeaderboard(ctx)

			Convey("Then spots should be ranked by average score", func() {
				So(err, ShouldBeNil)
				So(lb.Entries, ShouldHaveLength, 2)
				So(lb.Entries[0].SpotName, ShouldEqual, "Lucali")
				joes := lb.Entries[1]
				So(joes.AverageCrust, ShouldAlmostEqual, 6.0)
				So(joes.AverageSauce, ShouldAlmostEqual, 5.0)
				So(joes.AverageCheese, ShouldAlmostEqual, 6.0)
				So(joes.AverageFlavor, ShouldAlmostEqual, 7.0)
				So(joes.AverageScore, ShouldAlmostEqual, 6.0)
			})

			Convey("Then unrated spots should be omitted", func() {
				So(lb.Position("Di Fara"), ShouldEqual, 0)
			})
		})
	})
}

func TestService_LeaderboardCache(t *testing.T) {
	Convey("Given a service backed by a Redis leaderboard cache", t, func() {
		ctx := context.Background()
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		svc := newService(t, service.WithCache(cache.NewRedis(rdb)))
		alice := model.Session{Code: "brave-bear"}

		So(svc.SubmitRating(ctx, alice, "Joe's", scores(5, 5, 5, 5), ""), ShouldBeNil)
		first, err := svc.GetLeaderboard(ctx)
		So(err, ShouldBeNil)

		Convey("When another rating is written", func() {
			So(svc.SubmitRating(ctx, alice, "Lucali", scores(9, 9, 9, 9), ""), ShouldBeNil)
			second, err := svc.GetLeaderboard(ctx)

			Convey("Then the next read should reflect it", func() {
				So(err, ShouldBeNil)
				So(first.Entries, ShouldHaveLength, 1)
				So(second.Entries, ShouldHaveLength, 2)
				So(second.Entries[0].SpotName, ShouldEqual, "Lucali")
			})
		})

		Convey("When nothing is written between reads", func() {
			again, err := svc.GetLeaderboard(ctx)

			Convey("Then the cached value should be returned", func() {
				So(err, ShouldBeNil)
				So(again, ShouldResemble, first)
			})
		})
	})
}

func TestService_UserStats(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := newService(t)
		alice := model.Session{Code: "brave-bear"}

		Convey("When the caller has no ratings", func() {
			st, err := svc.GetUserStats(ctx, alice)

			Convey("Then stats should be absent", func() {
				So(err, ShouldBeNil)
				So(st, ShouldBeNil)
			})
		})

		Convey("When crust and sauce tie for the best average", func() {
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(7, 7, 6, 5), ""), ShouldBeNil)
			st, err := svc.GetUserStats(ctx, alice)

			Convey("Then the crust title should win", func() {
				So(err, ShouldBeNil)
				So(st.TitleCategory, ShouldEqual, "crust")
				So(st.Title, ShouldEqual, "Crust Connoisseur")
			})

			Convey("Then the placeholder name should head the stats", func() {
				So(st.DisplayName, ShouldEqual, "Click to Edit Name")
				So(st.Headline, ShouldEqual, "Click to Edit Name is a Crust Connoisseur!")
			})
		})

		Convey("When two ratings have the same sum", func() {
			So(svc.SetDisplayName(ctx, alice, "Ann"), ShouldBeNil)
			So(svc.SubmitRating(ctx, alice, "Lucali", scores(5, 5, 5, 5), ""), ShouldBeNil)
			So(svc.SubmitRating(ctx, alice, "Joe's", scores(8, 4, 4, 4), ""), ShouldBeNil)
			So(svc.SubmitRating(ctx, model.Session{Code: "other"}, "Joe's", scores(10, 10, 10, 10), ""), ShouldBeNil)
			st, err := svc.GetUserStats(ctx, alice)

			Convey("Then the earlier rating should be the favorite", func() {
				So(err, ShouldBeNil)
				So(st.TotalSpotsRated, ShouldEqual, 2)
				So(st.FavoriteSpot, ShouldEqual, "Lucali")
				So(st.FavoriteRank, ShouldEqual, 2)
				So(st.Headline, ShouldStartWith, "Ann is a ")
			})
		})
	})
}

func TestService_UserStatsWithoutLeaderboard(t *testing.T) {
	Convey("Given a store whose leaderboard reads fail", t, func() {
		ctx := context.Background()
		svc := newService(t, service.WithStore(brokenListAll{repository.NewMemoryStore()}))
		alice := model.Session{Code: "brave-bear"}
		So(svc.SubmitRating(ctx, alice, "Lucali", scores(5, 5, 5, 5), ""), ShouldBeNil)

		Convey("When the caller asks for stats", func() {
			st, err := svc.GetUserStats(ctx, alice)

			Convey("Then the stats are served without a favorite rank", func() {
				So(err, ShouldBeNil)
				So(st, ShouldNotBeNil)
				So(st.FavoriteSpot, ShouldEqual, "Lucali")
				So(st.FavoriteRank, ShouldEqual, 0)
			})
		})

		Convey("When the leaderboard is requested directly", func() {
			_, err := svc.GetLeaderboard(ctx)

			Convey("Then the store error propagates", func() {
				So(errors.Is(err, model.ErrStoreUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestService_Identity(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := newService(t)
		alice := model.Session{Code: "brave-bear"}

		Convey("When a display name is set", func() {
			So(svc.SetDisplayName(ctx, alice, "  Ann  "), ShouldBeNil)
			name, ok, err := svc.GetDisplayName(ctx, alice)

			Convey("Then it should be returned trimmed", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Ann")
			})

			Convey("Then the code should validate from another device", func() {
				valid, err := svc.ValidateCode(ctx, model.Session{Code: "new-device"}, "brave-bear")
				So(err, ShouldBeNil)
				So(valid, ShouldBeTrue)
			})
		})

		Convey("When no name was ever set", func() {
			_, ok, err := svc.GetDisplayName(ctx, alice)

			Convey("Then it should be absent", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a blank or overlong name is set", func() {
			blank := svc.SetDisplayName(ctx, alice, "   ")
			long := svc.SetDisplayName(ctx, alice, strings.Repeat("x", 65))

			Convey("Then both should be rejected", func() {
				So(errors.Is(blank, model.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(long, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When validating codes", func() {
			unknown, unknownErr := svc.ValidateCode(ctx, alice, "quiet-owl")
			_, ownErr := svc.ValidateCode(ctx, alice, "brave-bear")
			_, blankErr := svc.ValidateCode(ctx, alice, "  ")

			Convey("Then results should follow the validation rules", func() {
				So(unknownErr, ShouldBeNil)
				So(unknown, ShouldBeFalse)
				So(errors.Is(ownErr, model.ErrNoOpCode), ShouldBeTrue)
				So(errors.Is(blankErr, model.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_IssueCode(t *testing.T) {
	Convey("Given a service with a one-word vocabulary", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		gen := code.NewGenerator(
			code.WithVocabulary([]string{"brave"}, []string{"bear"}),
			code.WithKnownChecker(store),
			code.WithMaxAttempts(3),
		)
		svc := newService(t, service.WithStore(store), service.WithGenerator(gen))

		Convey("When a code is issued", func() {
			session, err := svc.IssueCode(ctx)

			Convey("Then it should be the only possible code", func() {
				So(err, ShouldBeNil)
				So(session.Code, ShouldEqual, "brave-bear")
			})

			Convey("Then a second issue should exhaust the code space", func() {
				_, err := svc.IssueCode(ctx)
				So(errors.Is(err, model.ErrCodeSpaceExhausted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with the default generator", t, func() {
		svc := newService(t)

		Convey("When a code is issued", func() {
			session, err := svc.IssueCode(context.Background())

			Convey("Then it should be two lower-case words", func() {
				So(err, ShouldBeNil)
				parts := strings.Split(session.Code, "-")
				So(parts, ShouldHaveLength, 2)
				So(session.Code, ShouldEqual, strings.ToLower(session.Code))
			})
		})
	})
}

func TestService_ListSpots(t *testing.T) {
	Convey("Given a caller who rated one spot", t, func() {
		ctx := context.Background()
		svc := newService(t)
		alice := model.Session{Code: "brave-bear"}
		So(svc.SubmitRating(ctx, alice, "Lucali", scores(6, 6, 6, 6), ""), ShouldBeNil)

		Convey("When spots are listed for the caller", func() {
			listing, err := svc.ListSpots(ctx, alice)

			Convey("Then only the rated spot should be completed", func() {
				So(err, ShouldBeNil)
				So(listing.Spots, ShouldHaveLength, 3)
				So(listing.Spots[0].Completed, ShouldBeFalse)
				So(listing.Spots[1].Completed, ShouldBeTrue)
				So(listing.Spots[2].Completed, ShouldBeFalse)
				So(listing.Responses, ShouldHaveLength, 1)
			})
		})

		Convey("When spots are listed without a session", func() {
			listing, err := svc.ListSpots(ctx, model.Session{})

			Convey("Then nothing should be completed", func() {
				So(err, ShouldBeNil)
				So(listing.Responses, ShouldBeEmpty)
				for _, s := range listing.Spots {
					So(s.Completed, ShouldBeFalse)
				}
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a service with some activity", t, func() {
		ctx := context.Background()
		svc := newService(t)
		So(svc.SetDisplayName(ctx, model.Session{Code: "a-a"}, "A"), ShouldBeNil)
		So(svc.SubmitRating(ctx, model.Session{Code: "b-b"}, "Joe's", scores(1, 2, 3, 4), ""), ShouldBeNil)

		Convey("When stats are requested", func() {
			stats, err := svc.GetStats(ctx)

			Convey("Then they should count identities, ratings and spots", func() {
				So(err, ShouldBeNil)
				So(stats["identities"], ShouldEqual, 2)
				So(stats["ratings"], ShouldEqual, 1)
				So(stats["spots"], ShouldEqual, 3)
				So(stats["rankedSpots"], ShouldEqual, 1)
				So(stats["storeDriver"], ShouldEqual, "memory")
				So(stats["cacheEnabled"], ShouldEqual, false)
			})
		})
	})
}

// gathered returns the value of the first sample of a registered series.
func gathered(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name || len(f.GetMetric()) == 0 {
			continue
		}
		m := f.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	return 0
}

func TestService_RefreshGauges(t *testing.T) {
	Convey("Given a service with some ratings", t, func() {
		ctx := context.Background()
		svc := newService(t)
		So(svc.SubmitRating(ctx, model.Session{Code: "a-a"}, "Joe's", scores(1, 2, 3, 4), ""), ShouldBeNil)
		So(svc.SubmitRating(ctx, model.Session{Code: "b-b"}, "Lucali", scores(4, 3, 2, 1), ""), ShouldBeNil)

		Convey("When the gauges are refreshed", func() {
			before := gathered("pizzarank_api_leaderboard_computations_total")
			So(svc.RefreshGauges(ctx), ShouldBeNil)

			Convey("Then the counts are published without ranking anything", func() {
				So(gathered("pizzarank_api_ratings"), ShouldEqual, 2)
				So(gathered("pizzarank_api_spots"), ShouldEqual, 3)
				So(gathered("pizzarank_api_leaderboard_computations_total"), ShouldEqual, before)
			})
		})
	})
}

func TestService_StoreUnavailable(t *testing.T) {
	Convey("Given a service whose sqlite store has been closed", t, func() {
		ctx := context.Background()
		store, err := repository.NewSQLite(ctx, filepath.Join(t.TempDir(), "pizza.db"))
		So(err, ShouldBeNil)
		svc := newService(t, service.WithStore(store))
		So(store.Close(), ShouldBeNil)

		Convey("When a rating is submitted", func() {
			err := svc.SubmitRating(ctx, model.Session{Code: "a-a"}, "Joe's", scores(1, 1, 1, 1), "")

			Convey("Then the store error should propagate", func() {
				So(errors.Is(err, model.ErrStoreUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the leaderboard is requested", func() {
			_, err := svc.GetLeaderboard(ctx)

			Convey("Then the store error should propagate", func() {
				So(errors.Is(err, model.ErrStoreUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the store is pinged", func() {
			err := svc.Ping(ctx)

			Convey("Then it should be reported unavailable", func() {
				So(errors.Is(err, model.ErrStoreUnavailable), ShouldBeTrue)
			})
		})
	})
}
