package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/data"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

type FilterTestSuite struct {
	suite.Suite
	rows []domain.Document
}

func (s *FilterTestSuite) SetupTest() {
	s.rows = []domain.Document{
		data.M{"name": "Alice", "age": json.Number("31")},
		data.M{"name": "Bob", "age": json.Number("25")},
		data.M{"name": "Alice", "age": json.Number("29")},
	}
}

func (s *FilterTestSuite) apply(f domain.Filter) []domain.Document {
	res := []domain.Document{}
	for _, row := range s.rows {
		if f.Match(row) {
			res = append(res, row)
		}
	}
	return res
}

func (s *FilterTestSuite) TestEquals() {
	res := s.apply(Equals{Key: "name", Value: "Bob"})
	s.Equal([]domain.Document{s.rows[1]}, res)
}

func (s *FilterTestSuite) TestAnd() {
	res := s.apply(And{
		Left:  Equals{Key: "name", Value: "Alice"},
		Right: GreaterThan{Key: "age", Value: 19},
	})
	s.Equal([]domain.Document{s.rows[0], s.rows[2]}, res)
}

func (s *FilterTestSuite) TestOrNot() {
	res := s.apply(Or{
		Left:  Equals{Key: "name", Value: "Bob"},
		Right: Not{Inner: LessThan{Key: "age", Value: 30}},
	})
	s.Equal([]domain.Document{s.rows[0], s.rows[1]}, res)

	s.False(And{Left: Equals{Key: "name", Value: "Bob"}}.Match(s.rows[1]))
	s.False(Or{}.Match(s.rows[1]))
}

// A missing field never satisfies any leaf, not even NotEquals.
func (s *FilterTestSuite) TestAbsentField() {
	doc := data.M{"age": 3}
	leaves := []domain.Filter{
		Equals{Key: "name", Value: "Carol"},
		NotEquals{Key: "name", Value: "Carol"},
		GreaterThan{Key: "name", Value: 1},
		GreaterThanOrEqual{Key: "name", Value: 1},
		LessThan{Key: "name", Value: 1},
		LessThanOrEqual{Key: "name", Value: 1},
		InSet{Key: "name", Value: []any{"Carol"}},
		NotInSet{Key: "name", Value: []any{"Carol"}},
		NewLike("name", "%"),
		NewNotLike("name", "x"),
	}
	for _, leaf := range leaves {
		s.False(leaf.Match(doc), "%T", leaf)
	}
	s.True(Not{Inner: NotEquals{Key: "name", Value: "Carol"}}.Match(doc))
}

func (s *FilterTestSuite) TestEqualityAcrossKinds() {
	doc := data.M{"n": json.Number("2"), "s": "2", "b": true, "null": nil, "l": []any{json.Number("1"), "a"}, "d": data.M{"x": 1}}

	s.True(Equals{Key: "n", Value: 2}.Match(doc))
	s.True(Equals{Key: "n", Value: 2.0}.Match(doc))
	s.True(Equals{Key: "n", Value: json.Number("2.0")}.Match(doc))
	s.False(Equals{Key: "n", Value: "2"}.Match(doc))
	s.False(Equals{Key: "s", Value: 2}.Match(doc))
	s.True(Equals{Key: "b", Value: true}.Match(doc))
	s.True(Equals{Key: "null", Value: nil}.Match(doc))
	s.True(NotEquals{Key: "null", Value: 0}.Match(doc))
	s.True(Equals{Key: "l", Value: []any{1, "a"}}.Match(doc))
	s.True(Equals{Key: "d", Value: data.M{"x": json.Number("1")}}.Match(doc))
	s.True(NotEquals{Key: "d", Value: data.M{"x": 2}}.Match(doc))
}

// Ordering leaves only compare numbers.
func (s *FilterTestSuite) TestOrdering() {
	doc := data.M{"n": json.Number("2.5"), "s": "b"}

	s.True(GreaterThan{Key: "n", Value: 2}.Match(doc))
	s.False(GreaterThan{Key: "n", Value: 2.5}.Match(doc))
	s.True(GreaterThanOrEqual{Key: "n", Value: json.Number("2.5")}.Match(doc))
	s.True(LessThan{Key: "n", Value: uint8(3)}.Match(doc))
	s.True(LessThanOrEqual{Key: "n", Value: float32(2.5)}.Match(doc))
	s.False(LessThanOrEqual{Key: "n", Value: 2}.Match(doc))

	s.False(GreaterThan{Key: "s", Value: "a"}.Match(doc))
	s.False(LessThan{Key: "s", Value: "c"}.Match(doc))
	s.False(GreaterThan{Key: "n", Value: "1"}.Match(doc))
	s.False(LessThan{Key: "n", Value: nil}.Match(doc))
}

func (s *FilterTestSuite) TestSets() {
	doc := data.M{"tag": "b", "n": json.Number("2")}

	s.True(InSet{Key: "tag", Value: []any{"a", "b"}}.Match(doc))
	s.True(InSet{Key: "tag", Value: []string{"b"}}.Match(doc))
	s.True(InSet{Key: "n", Value: []int{1, 2}}.Match(doc))
	s.False(InSet{Key: "tag", Value: []any{"a"}}.Match(doc))
	s.False(InSet{Key: "n", Value: []any{"2"}}.Match(doc))

	s.True(NotInSet{Key: "tag", Value: []any{"a"}}.Match(doc))
	s.False(NotInSet{Key: "tag", Value: []any{"b"}}.Match(doc))

	// literal must be a list for both polarities
	s.False(InSet{Key: "tag", Value: "b"}.Match(doc))
	s.False(NotInSet{Key: "tag", Value: "a"}.Match(doc))
	s.False(NotInSet{Key: "tag", Value: nil}.Match(doc))
}

func (s *FilterTestSuite) TestLike() {
	doc := data.M{"name": "Alice", "n": 1, "path": "a.b*c", "multi": "a\nb"}

	s.True(NewLike("name", "%lic%").Match(doc))
	s.True(NewLike("name", "A_ice").Match(doc))
	s.True(NewLike("name", "Alice").Match(doc))
	s.True(NewLike("name", "%").Match(doc))
	s.False(NewLike("name", "lic").Match(doc))
	s.False(NewLike("name", "alice").Match(doc))
	s.False(NewLike("name", "A_ce").Match(doc))

	s.True(NewLike("path", "a.b*c").Match(doc))
	s.False(NewLike("path", "a_b_c").Match(data.M{"path": "a.b*cd"}))
	s.False(NewLike("path", "a.b.c").Match(doc))
	s.True(NewLike("multi", "a%b").Match(doc))
	s.True(NewLike("multi", "a_b").Match(doc))

	// uncompiled values behave the same
	s.True(Like{Key: "name", Pattern: "%lic%"}.Match(doc))

	s.False(NewLike("n", "%").Match(doc))
	s.False(NewLike("name", 1).Match(doc))
}

func (s *FilterTestSuite) TestNotLike() {
	doc := data.M{"name": "Bob", "n": 1}

	s.True(NewNotLike("name", "bob").Match(doc))
	s.False(NewNotLike("name", "B%").Match(doc))
	s.False(NewNotLike("n", "x").Match(doc))
	s.False(NewNotLike("name", nil).Match(doc))
}

func (s *FilterTestSuite) TestLikePattern() {
	s.Equal(`(?s)^.*a\.b.$`, LikePattern("%a.b_"))
	s.Equal(`(?s)^\(\)\[\]\{\}\|\^\$\\\+\?\*$`, LikePattern(`()[]{}|^$\+?*`))
}

func TestFilterTestSuite(t *testing.T) {
	suite.Run(t, new(FilterTestSuite))
}
