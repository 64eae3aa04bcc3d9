package scoring_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func points(v float64) *float64 { return &v }

func TestAggregateExpert(t *testing.T) {
	Convey("Given expert ratings for two teams", t, func() {
		a, b := uuid.New(), uuid.New()
		ratings := []model.ExpertRating{
			{TeamID: a, RaterID: uuid.New(), Category: model.ExpertCategoryProduct, Rating: 8},
			{TeamID: a, RaterID: uuid.New(), Category: model.ExpertCategoryProduct, Rating: 6},
			{TeamID: a, RaterID: uuid.New(), Category: model.ExpertCategoryPresentation, Rating: 10},
			{TeamID: b, RaterID: uuid.New(), Category: model.ExpertCategoryProduct, Rating: 10},
			{TeamID: b, RaterID: uuid.New(), Category: "design", Rating: 10},
		}

		Convey("When aggregating", func() {
			agg := scoring.AggregateExpert(ratings)

			Convey("Then category means are weighted 0.7 / 0.3", func() {
				So(agg[a].CategoryMeans[model.ExpertCategoryProduct], ShouldEqual, 7)
				So(agg[a].Raw, ShouldAlmostEqual, 7*0.7+10*0.3)
			})

			Convey("And a missing category contributes 0", func() {
				So(agg[b].Raw, ShouldAlmostEqual, 7)
				_, ok := agg[b].CategoryMeans[model.ExpertCategoryPresentation]
				So(ok, ShouldBeFalse)
			})

			Convey("And unknown categories are ignored", func() {
				So(agg[b].CategoryMeans, ShouldHaveLength, 1)
			})
		})
	})
}

func TestAggregateTechnical(t *testing.T) {
	Convey("Given two technical questions", t, func() {
		q1 := model.TechnicalQuestion{ID: uuid.New(), MinPoints: 0, MaxPoints: 5}
		q2 := model.TechnicalQuestion{ID: uuid.New(), MinPoints: 0, MaxPoints: 3, Binary: true}
		a, b, c := uuid.New(), uuid.New(), uuid.New()

		Convey("When aggregating results", func() {
			agg := scoring.AggregateTechnical([]model.TechnicalQuestion{q1, q2}, []model.TechnicalResult{
				{TeamID: a, QuestionID: q1.ID, Points: points(4)},
				{TeamID: a, QuestionID: q2.ID, Points: points(3)},
				{TeamID: b, QuestionID: q1.ID, Points: points(2.5)},
				{TeamID: b, QuestionID: q2.ID},
				{TeamID: c, QuestionID: q2.ID},
				{TeamID: c, QuestionID: uuid.New(), Points: points(9)},
			})

			Convey("Then answered points are summed", func() {
				So(agg[a].Raw, ShouldEqual, 7)
				So(agg[b].Raw, ShouldEqual, 2.5)
			})

			Convey("And completion is flagged", func() {
				So(agg[a].AllAnswered, ShouldBeTrue)
				So(agg[b].AllAnswered, ShouldBeFalse)
				So(agg[b].Answered, ShouldEqual, 1)
				So(agg[b].Questions, ShouldEqual, 2)
			})

			Convey("And teams without answers to known questions are absent", func() {
				_, ok := agg[c]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When validating awards", func() {
			So(scoring.ValidateTechnicalPoints(q1, 2.5), ShouldBeNil)
			So(scoring.ValidateTechnicalPoints(q1, 5), ShouldBeNil)
			So(errors.Is(scoring.ValidateTechnicalPoints(q1, 5.5), scoring.ErrWrongTechnicalQuestionPoints), ShouldBeTrue)
			So(errors.Is(scoring.ValidateTechnicalPoints(q1, -1), scoring.ErrWrongTechnicalQuestionPoints), ShouldBeTrue)

			So(scoring.ValidateTechnicalPoints(q2, 0), ShouldBeNil)
			So(scoring.ValidateTechnicalPoints(q2, 3), ShouldBeNil)
			So(errors.Is(scoring.ValidateTechnicalPoints(q2, 1.5), scoring.ErrWrongTechnicalQuestionPoints), ShouldBeTrue)
		})
	})
}

func TestAggregateVotes(t *testing.T) {
	Convey("Given rank scores", t, func() {
		So(scoring.RankScore(1), ShouldEqual, 5)
		So(scoring.RankScore(2), ShouldEqual, 3)
		So(scoring.RankScore(3), ShouldEqual, 1)
		So(scoring.RankScore(4), ShouldEqual, 0)
	})

	Convey("Given public votes", t, func() {
		a, b := uuid.New(), uuid.New()
		event := uuid.New()
		votes := []model.Vote{
			{EventID: event, VoterID: uuid.New(), TeamID: a, Rank: 1},
			{EventID: event, VoterID: uuid.New(), TeamID: a, Rank: 1},
			{EventID: event, VoterID: uuid.New(), TeamID: a, Rank: 3},
			{EventID: event, VoterID: uuid.New(), TeamID: b, Rank: 2},
		}

		Convey("When aggregating", func() {
			agg := scoring.AggregateVotes(votes)

			Convey("Then votes are weighted by rank", func() {
				So(agg[a].Raw, ShouldEqual, 11)
				So(agg[a].VotesByRank[1], ShouldEqual, 2)
				So(agg[a].VotesByRank[3], ShouldEqual, 1)
				So(agg[b].Raw, ShouldEqual, 3)
			})
		})
	})
}
