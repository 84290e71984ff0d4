package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetGetReset(t *testing.T) {
	s := NewStore()

	d := s.Set(1, 2, FieldBrand, " Luma ")
	assert.Equal(t, "Luma", d.Get(FieldBrand))
	assert.Equal(t, "Luma", s.Get(1, 2).Get(FieldBrand))
	assert.Empty(t, s.Get(1, 3).Get(FieldBrand), "drafts are per user")

	s.Set(1, 2, FieldBrand, "")
	assert.Empty(t, s.Get(1, 2).Get(FieldBrand))

	s.Set(1, 2, FieldScene, "rain")
	s.Reset(1, 2)
	assert.Empty(t, s.Get(1, 2).Values)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Set(1, 1, FieldBrand, "Luma")

	d := s.Get(1, 1)
	d.Values[FieldBrand] = "changed"
	assert.Equal(t, "Luma", s.Get(1, 1).Get(FieldBrand))
}

func TestDraft_Summary(t *testing.T) {
	d := Draft{Values: Values{FieldBrand: "Luma"}}
	lines := strings.Split(d.Summary(), "\n")

	assert.Len(t, lines, len(Fields))
	assert.Equal(t, "brand: Luma", lines[0])
	assert.Equal(t, "character: -", lines[1])
}
