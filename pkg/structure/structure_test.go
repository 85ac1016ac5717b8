package structure

import (
	"fmt"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/stretchr/testify/suite"
)

type StructureTestSuite struct {
	suite.Suite
}

var simpleSlicesTestCases = []any{
	[]any{"a", 1, true},
	[]string{"a", "b", "c"},
	[]bool{true, false, true},
	[]int{1, 2, 3},
	[]int8{1, 2, 3},
	[]int64{1, 2, 3},
	[]uint16{1, 2, 3},
	[]uint64{1, 2, 3},
	[]float32{1.5, 2.5, 3.5},
	[]float64{1.5, 2.5, 3.5},
	[]time.Duration{1, 2, 3},
}

var expectedSimpleSlices = [][]any{
	{"a", 1, true},
	{"a", "b", "c"},
	{true, false, true},
	{1, 2, 3},
	{int8(1), int8(2), int8(3)},
	{int64(1), int64(2), int64(3)},
	{uint16(1), uint16(2), uint16(3)},
	{uint64(1), uint64(2), uint64(3)},
	{float32(1.5), float32(2.5), float32(3.5)},
	{1.5, 2.5, 3.5},
	{time.Duration(1), time.Duration(2), time.Duration(3)},
}

func (s *StructureTestSuite) TestSeqSimpleSlice() {
	for n, tc := range simpleSlicesTestCases {
		s.Run(fmt.Sprintf("%T", tc), func() {
			seq, l, err := Seq(tc)
			if !s.NoError(err) {
				return
			}
			s.Equal(3, l)
			s.Equal(expectedSimpleSlices[n], slices.Collect(seq))
		})
	}
}

func (s *StructureTestSuite) TestSeqArray() {
	seq, l, err := Seq([3]string{"x", "y", "z"})
	s.NoError(err)
	s.Equal(3, l)
	s.Equal([]any{"x", "y", "z"}, slices.Collect(seq))
}

func (s *StructureTestSuite) TestSeqPrimitive() {
	primitives := []any{
		1, int8(1), uint64(1), float32(1), "text", true,
		time.Now(), regexp.MustCompile(`^abc`), []byte("abc"),
		map[string]any{"a": 1},
	}

	for _, primitive := range primitives {
		s.Run(fmt.Sprintf("%T", primitive), func() {
			seq, length, err := Seq(primitive)
			s.Nil(seq)
			s.Zero(length)
			var e ErrNonList
			s.ErrorAs(err, &e)
		})
	}
}

func (s *StructureTestSuite) TestSeqNilArgument() {
	seq, length, err := Seq(nil)
	s.ErrorIs(err, ErrNilObj)
	s.Zero(length)
	s.Nil(seq)
}

func (s *StructureTestSuite) TestPointerSeq() {
	s.Run("Nil", func() {
		seq, length, err := Seq((*[]any)(nil))
		s.ErrorIs(err, ErrNilObj)
		s.Zero(length)
		s.Nil(seq)
	})

	s.Run("NonNil", func() {
		seq, l, err := Seq(&[]int8{1, 2})
		s.NoError(err)
		s.Equal(2, l)
		s.Equal([]any{int8(1), int8(2)}, slices.Collect(seq))
	})

	s.Run("NilSlice", func() {
		seq, l, err := Seq([]int8(nil))
		s.NoError(err)
		s.Zero(l)
		s.Empty(slices.Collect(seq))
	})

	s.Run("PointerToNonList", func() {
		_, _, err := Seq(new(string))
		s.ErrorIs(err, ErrNonList{Type: reflect.TypeOf("")})
	})
}

func (s *StructureTestSuite) TestSeqStop() {
	seq, _, err := Seq([]int16{1, 2, 3})
	s.Require().NoError(err)
	n := 0
	for range seq {
		n++
		break
	}
	s.Equal(1, n)
}

func (s *StructureTestSuite) TestContains() {
	contains := slices.Values([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	notContains := slices.Values([]int{0, 1, 2, 3, 4, 5, 6, 7, 9})
	var fnErr error
	fn := func(a, b int) (bool, error) { return a == b, fnErr }

	s.Run("Existent", func() {
		c, err := Contains(contains, 8, fn)
		s.NoError(err)
		s.True(c)
	})

	s.Run("NonExistent", func() {
		c, err := Contains(notContains, 8, fn)
		s.NoError(err)
		s.False(c)
	})

	fnErr = fmt.Errorf("compare error")

	s.Run("Fail", func() {
		_, err := Contains(contains, 8, fn)
		s.ErrorIs(err, fnErr)
	})
}

func (s *StructureTestSuite) TestErrorMessages() {
	e := ErrNonList{Type: reflect.TypeOf("")}
	s.Equal("type string is not a valid list", e.Error())
}

func TestStructureTestSuite(t *testing.T) {
	suite.Run(t, new(StructureTestSuite))
}
