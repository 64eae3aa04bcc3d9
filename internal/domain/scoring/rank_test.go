package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given the ranker", t, func() {
		a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

		Convey("When two teams tie for first", func() {
			ranks := scoring.Rank(scoring.TeamScores{a: 9, b: 9, c: 7, d: 1})

			Convey("Then both share rank 1 and the next team is rank 3", func() {
				So(ranks[a], ShouldEqual, 1)
				So(ranks[b], ShouldEqual, 1)
				So(ranks[c], ShouldEqual, 3)
				So(ranks[d], ShouldEqual, 4)
			})
		})

		Convey("When values differ only beyond the tie quantum", func() {
			ranks := scoring.Rank(scoring.TeamScores{a: 10.00001, b: 10.00002, c: 10.001})

			Convey("Then they tie", func() {
				So(ranks[c], ShouldEqual, 1)
				So(ranks[a], ShouldEqual, 2)
				So(ranks[b], ShouldEqual, 2)
			})
		})

		Convey("When the input is empty", func() {
			So(scoring.Rank(scoring.TeamScores{}), ShouldBeEmpty)
		})

		Convey("When ranking random inputs", func() {
			rng := rand.New(rand.NewSource(11))
			for round := 0; round < 100; round++ {
				values := scoring.TeamScores{}
				for i := 0; i < 2+rng.Intn(15); i++ {
					// few distinct values to force ties
					values[uuid.New()] = float64(rng.Intn(5)) / 2
				}
				ranks := scoring.Rank(values)

				// a better-ranked team never has a lower value; ties share ranks
				for id, r := range ranks {
					for other, or := range ranks {
						q, oq := scoring.Quantize(values[id]), scoring.Quantize(values[other])
						if or < r {
							So(oq, ShouldBeGreaterThan, q)
						}
						if oq == q {
							So(or, ShouldEqual, r)
						}
					}
				}
			}
		})
	})
}
