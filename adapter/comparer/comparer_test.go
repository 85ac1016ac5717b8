package comparer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/data"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

type ComparerTestSuite struct {
	suite.Suite
	c *Comparer
}

func (s *ComparerTestSuite) SetupTest() {
	s.c = NewComparer().(*Comparer)
}

// nil should always be the smallest value.
func (s *ComparerTestSuite) TestNilIsSmallest() {
	otherStuff := [...]any{"string", "", -1, 0, uint(12), false,
		json.Number("3"), data.M{}, data.M{"hello": "world"},
		[]any{}, []any{"quite", 5},
	}
	for _, stuff := range otherStuff {
		comp, err := s.c.Compare(nil, stuff)
		s.NoError(err)
		s.Equal(-1, comp)
		comp, err = s.c.Compare(stuff, nil)
		s.NoError(err)
		s.Equal(1, comp)
	}
	comp, err := s.c.Compare(nil, nil)
	s.NoError(err)
	s.Zero(comp)
}

// number should be the second smallest type (any number type).
func (s *ComparerTestSuite) TestNumberIsSecondSmallest() {
	testCases := []struct {
		arg1 any
		arg2 any
		res  int
	}{
		{arg1: int64(-12), arg2: int16(0), res: -1},
		{arg1: uint8(0), arg2: int8(-3), res: 1},
		{arg1: 5.7, arg2: uint32(2), res: 1},
		{arg1: 5.7, arg2: float32(12.3), res: -1},
		{arg1: uint64(0), arg2: uint16(0), res: 0},
		{arg1: -2.6, arg2: -2.6, res: 0},
		{arg1: int32(5), arg2: 5, res: 0},
		{arg1: json.Number("5"), arg2: 5, res: 0},
		{arg1: json.Number("5.0"), arg2: json.Number("5"), res: 0},
		{arg1: json.Number("18446744073709551615"), arg2: json.Number("18446744073709551614"), res: 1},
		{arg1: json.Number("-1e3"), arg2: -999, res: -1},
	}

	for _, tc := range testCases {
		comp, err := s.c.Compare(tc.arg1, tc.arg2)
		s.NoError(err)
		s.Equal(tc.res, comp, "%v vs %v", tc.arg1, tc.arg2)
	}

	otherStuff := [...]any{"string", "", false, data.M{},
		data.M{"hello": "world"}, []any{}, []any{"quite", 5},
	}
	for _, number := range [...]any{-12, uint(0), 12, 5.7, json.Number("1")} {
		for _, stuff := range otherStuff {
			comp, err := s.c.Compare(number, stuff)
			s.NoError(err)
			s.Equal(-1, comp)
			comp, err = s.c.Compare(stuff, number)
			s.NoError(err)
			s.Equal(1, comp)
		}
	}
}

// string should be the third smallest type.
func (s *ComparerTestSuite) TestStringIsThirdSmallest() {
	testCases := []struct {
		arg1 string
		arg2 string
		res  int
	}{
		{arg1: "", arg2: "hey", res: -1},
		{arg1: "hey", arg2: "", res: 1},
		{arg1: "hey", arg2: "hew", res: 1},
		{arg1: "hey", arg2: "hey", res: 0},
		{arg1: "Bob", arg2: "bob", res: -1},
	}

	for _, tc := range testCases {
		comp, err := s.c.Compare(tc.arg1, tc.arg2)
		s.NoError(err)
		s.Equal(tc.res, comp)
	}

	for _, stuff := range [...]any{false, true, data.M{}, []any{}} {
		comp, err := s.c.Compare("abc", stuff)
		s.NoError(err)
		s.Equal(-1, comp)
		comp, err = s.c.Compare(stuff, "abc")
		s.NoError(err)
		s.Equal(1, comp)
	}
}

// bool should be the fourth smallest type.
func (s *ComparerTestSuite) TestBoolIsFourthSmallest() {
	testCases := []struct {
		arg1 bool
		arg2 bool
		res  int
	}{
		{arg1: true, arg2: true, res: 0},
		{arg1: false, arg2: false, res: 0},
		{arg1: true, arg2: false, res: 1},
		{arg1: false, arg2: true, res: -1},
	}

	for _, tc := range testCases {
		comp, err := s.c.Compare(tc.arg1, tc.arg2)
		s.NoError(err)
		s.Equal(tc.res, comp)
	}

	for _, stuff := range [...]any{data.M{}, []any{}} {
		comp, err := s.c.Compare(true, stuff)
		s.NoError(err)
		s.Equal(-1, comp)
		comp, err = s.c.Compare(stuff, false)
		s.NoError(err)
		s.Equal(1, comp)
	}
}

func (s *ComparerTestSuite) TestSliceIsFifthSmallest() {
	testCases := []struct {
		arg1 []any
		arg2 []any
		res  int
	}{
		{arg1: []any{}, arg2: []any{}, res: 0},
		{arg1: []any{"hello"}, arg2: []any{}, res: 1},
		{arg1: []any{}, arg2: []any{"hello"}, res: -1},
		{arg1: []any{"hello"}, arg2: []any{"hello", "world"}, res: -1},
		{arg1: []any{"hello", "earth"}, arg2: []any{"hello", "world"}, res: -1},
		{arg1: []any{"hello", "zzz"}, arg2: []any{"hello", "world"}, res: 1},
		{arg1: []any{"hello", "world"}, arg2: []any{"hello", "world"}, res: 0},
		{arg1: []any{json.Number("1")}, arg2: []any{1.0}, res: 0},
	}

	for _, tc := range testCases {
		comp, err := s.c.Compare(tc.arg1, tc.arg2)
		s.NoError(err)
		s.Equal(tc.res, comp)
	}

	otherStuff := [...]any{data.M{}, data.M{"hello": "world"}}
	for _, list := range [...][]any{{}, {"yes"}, {"hello", 5}} {
		for _, stuff := range otherStuff {
			comp, err := s.c.Compare(list, stuff)
			s.NoError(err)
			s.Equal(-1, comp)
			comp, err = s.c.Compare(stuff, list)
			s.NoError(err)
			s.Equal(1, comp)
		}
	}
}

// Document should be the greatest type.
func (s *ComparerTestSuite) TestDocumentIsGreatest() {
	testCases := []struct {
		arg1 any
		arg2 any
		res  int
	}{
		{arg1: data.M{"a": 42}, arg2: data.M{"a": 312}, res: -1},
		{arg1: data.M{"a": "42"}, arg2: data.M{"a": "312"}, res: 1},
		{arg1: data.M{"a": 42, "b": 312}, arg2: data.M{"b": 312, "a": 42}, res: 0},
		{arg1: data.M{"a": 42, "b": 312, "c": 54}, arg2: data.M{"b": 313, "a": 42}, res: -1},
		{arg1: data.M{"a": 1}, arg2: data.M{"a": 1, "b": 1}, res: -1},
		{arg1: data.M{"a": 1}, arg2: data.M{"b": 1}, res: -1},
	}

	for _, tc := range testCases {
		comp, err := s.c.Compare(tc.arg1, tc.arg2)
		s.NoError(err)
		s.Equal(tc.res, comp)
	}
}

// comparison between two unknown types should return errors.
func (s *ComparerTestSuite) TestErrorOnUnknownPair() {
	testCases := []struct {
		arg1 any
		arg2 any
	}{
		{arg1: struct{}{}, arg2: []byte{}},
		{arg1: make(chan int), arg2: []string{}},
		{arg1: data.M{"nested": []string{"invalid"}}, arg2: data.M{"nested": []int{}}},
		{arg1: []any{[]string{"invalid"}}, arg2: []any{[]string{"invalid too"}}},
	}

	for _, tc := range testCases {
		_, err := s.c.Compare(tc.arg1, tc.arg2)
		s.ErrorAs(err, &domain.ErrCannotCompare{})
	}
}

func (s *ComparerTestSuite) TestComparable() {
	s.True(s.c.Comparable(1, json.Number("2.5")))
	s.True(s.c.Comparable(uint8(1), 3.0))
	s.True(s.c.Comparable("a", "b"))
	s.False(s.c.Comparable("a", 1))
	s.False(s.c.Comparable(1, "a"))
	s.False(s.c.Comparable(nil, nil))
	s.False(s.c.Comparable(true, true))
	s.False(s.c.Comparable([]any{}, []any{}))
	s.False(s.c.Comparable(data.M{}, data.M{}))
}

func (s *ComparerTestSuite) TestAsNumber() {
	n, ok := AsNumber(json.Number("12.5"))
	s.True(ok)
	f, _ := n.Float64()
	s.Equal(12.5, f)

	_, ok = AsNumber(json.Number("abc"))
	s.False(ok)
	_, ok = AsNumber("12")
	s.False(ok)
}

func TestComparerTestSuite(t *testing.T) {
	suite.Run(t, new(ComparerTestSuite))
}
