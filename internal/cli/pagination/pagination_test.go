package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsight-ai/memctl/internal/client"
)

func TestParamsValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		assert.NoError(t, Params{}.Validate())
	})

	t.Run("OffsetMode", func(t *testing.T) {
		assert.NoError(t, Params{Limit: 50, Offset: 100}.Validate())
	})

	t.Run("PageMode", func(t *testing.T) {
		assert.NoError(t, Params{Page: 3, PageSize: 25}.Validate())
	})

	t.Run("MixedModes", func(t *testing.T) {
		err := Params{Page: 2, PageSize: 10, Offset: 5}.Validate()
		assert.ErrorIs(t, err, ErrMixedModes)
	})

	t.Run("PageSizeWithoutPage", func(t *testing.T) {
		assert.ErrorIs(t, Params{PageSize: 10}.Validate(), ErrPageSizeNeedsPage)
	})

	t.Run("PageWithoutPageSize", func(t *testing.T) {
		assert.ErrorIs(t, Params{Page: 2}.Validate(), ErrPageNeedsPageSize)
	})

	t.Run("Bounds", func(t *testing.T) {
		assert.ErrorIs(t, Params{Limit: MaxLimit + 1}.Validate(), ErrInvalidLimit)
		assert.Error(t, Params{Offset: -1}.Validate())
		assert.Error(t, Params{PageSize: MaxPageSize + 1}.Validate())
	})
}

func TestOffsetLimit(t *testing.T) {
	t.Run("OffsetMode", func(t *testing.T) {
		offset, limit := Params{Limit: 20, Offset: 40}.OffsetLimit()
		assert.Equal(t, 40, offset)
		assert.Equal(t, 20, limit)
	})

	t.Run("PageMode", func(t *testing.T) {
		offset, limit := Params{Page: 3, PageSize: 25}.OffsetLimit()
		assert.Equal(t, 50, offset)
		assert.Equal(t, 25, limit)
	})
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		expr      string
		field     string
		order     string
		expectErr bool
	}{
		{"feedback", "feedback", "asc", false},
		{"retrieval:desc", "retrieval", "desc", false},
		{"created:ASC", "created", "asc", false},
		{"", "", "", true},
		{"  ", "", "", true},
		{"a:b:c", "", "", true},
		{"field:sideways", "", "", true},
		{":desc", "", "", true},
	}

	for _, tc := range cases {
		field, order, err := ParseSort(tc.expr)
		if tc.expectErr {
			assert.Error(t, err, "expr %q", tc.expr)
			continue
		}
		require.NoError(t, err, "expr %q", tc.expr)
		assert.Equal(t, tc.field, field)
		assert.Equal(t, tc.order, order)
	}
}

func TestNewMeta(t *testing.T) {
	t.Run("PageMode", func(t *testing.T) {
		meta := NewMeta(Params{Page: 2, PageSize: 25}, 110)
		assert.Equal(t, 2, meta.CurrentPage)
		assert.Equal(t, 5, meta.TotalPages)
		assert.Equal(t, 110, meta.TotalItems)
		assert.True(t, meta.HasPrevious)
		assert.True(t, meta.HasNext)
	})

	t.Run("LastPage", func(t *testing.T) {
		meta := NewMeta(Params{Page: 5, PageSize: 25}, 110)
		assert.False(t, meta.HasNext)
	})

	t.Run("OffsetModeDerivesPage", func(t *testing.T) {
		meta := NewMeta(Params{Limit: 10, Offset: 30}, 100)
		assert.Equal(t, 4, meta.CurrentPage)
		assert.Equal(t, 10, meta.TotalPages)
	})

	t.Run("NoSizeSinglePage", func(t *testing.T) {
		meta := NewMeta(Params{}, 7)
		assert.Equal(t, 1, meta.CurrentPage)
		assert.Equal(t, 1, meta.TotalPages)
		assert.False(t, meta.HasNext)
	})
}

func TestMemoryBlockSorter(t *testing.T) {
	sorter := NewMemoryBlockSorter()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	blocks := []client.MemoryBlock{
		{ID: "m1", FeedbackScore: 5, RetrievalCount: 30, TokenCount: 200, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "m2", FeedbackScore: 20, RetrievalCount: 10, TokenCount: 50, CreatedAt: base},
		{ID: "m3", FeedbackScore: 10, RetrievalCount: 20, TokenCount: 400, CreatedAt: base.Add(time.Hour)},
	}

	t.Run("FeedbackAsc", func(t *testing.T) {
		got := sorter.Sort(blocks, "feedback", SortOrderAsc)
		assert.Equal(t, []string{"m1", "m3", "m2"}, ids(got))
		// Input untouched.
		assert.Equal(t, "m1", blocks[0].ID)
	})

	t.Run("RetrievalDesc", func(t *testing.T) {
		got := sorter.Sort(blocks, "retrieval", SortOrderDesc)
		assert.Equal(t, []string{"m1", "m3", "m2"}, ids(got))
	})

	t.Run("CreatedAsc", func(t *testing.T) {
		got := sorter.Sort(blocks, "created", SortOrderAsc)
		assert.Equal(t, []string{"m2", "m3", "m1"}, ids(got))
	})

	t.Run("InvalidFieldUnchanged", func(t *testing.T) {
		got := sorter.Sort(blocks, "nonsense", SortOrderAsc)
		assert.Equal(t, ids(blocks), ids(got))
	})

	t.Run("ValidFields", func(t *testing.T) {
		assert.Equal(t, []string{"agent", "created", "feedback", "retrieval", "tokens"}, sorter.ValidFields())
		assert.True(t, sorter.IsValidField("tokens"))
		assert.False(t, sorter.IsValidField("savings"))
	})
}

func ids(blocks []client.MemoryBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}
