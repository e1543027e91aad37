package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("defaults to published", func(t *testing.T) {
		p, err := NewProduct("id-1", "business-cards", "Business Cards", 500, "", "user-1", now)
		require.NoError(t, err)
		assert.Equal(t, "business-cards", p.Slug())
		assert.Equal(t, int64(500), p.Price())
		assert.Equal(t, StatusPublished, p.Status())
		assert.Equal(t, "user-1", p.CreatedBy())
		assert.Equal(t, "user-1", p.UpdatedBy())
		assert.Empty(t, p.Categories())
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		_, err := NewProduct("id-1", "sample", "Sample", 0, StatusDraft, "", now)
		assert.NoError(t, err)
	})

	t.Run("blank name returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "x", "   ", 100, "", "", now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("negative price returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "x", "Flyer", -1, "", "", now)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("empty slug returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "", "!!!", 100, "", "", now)
		assert.ErrorIs(t, err, ErrInvalidSlug)
	})

	t.Run("unknown status returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "x", "Flyer", 100, "hidden", "", now)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestProduct_Setters(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	newProduct := func() *Product {
		return ReconstructProduct("id-1", "flyer", "Flyer", "", 100, "", 3, nil, nil, StatusDraft, "u1", "u1", now, now)
	}

	t.Run("unchanged values are not dirty", func(t *testing.T) {
		p := newProduct()
		require.NoError(t, p.SetName("Flyer"))
		require.NoError(t, p.SetPrice(100))
		require.NoError(t, p.SetStock(3))
		p.SetCategories(nil)
		assert.False(t, p.Changes().HasChanges())
	})

	t.Run("changes are tracked per field", func(t *testing.T) {
		p := newProduct()
		require.NoError(t, p.SetPrice(250))
		p.SetTags([]string{" eco ", "eco", ""})
		require.NoError(t, p.SetStatus(StatusPublished))

		assert.True(t, p.Changes().Dirty(FieldPrice))
		assert.True(t, p.Changes().Dirty(FieldTags))
		assert.True(t, p.Changes().Dirty(FieldStatus))
		assert.False(t, p.Changes().Dirty(FieldName))
		assert.Equal(t, []string{"eco"}, p.Tags())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		p := newProduct()
		assert.ErrorIs(t, p.SetName(""), ErrEmptyName)
		assert.ErrorIs(t, p.SetPrice(-5), ErrInvalidPrice)
		assert.ErrorIs(t, p.SetStock(-1), ErrInvalidStock)
		assert.ErrorIs(t, p.SetStatus("gone"), ErrInvalidStatus)
		assert.ErrorIs(t, p.SetStatus(""), ErrInvalidStatus)
		assert.False(t, p.Changes().HasChanges())
	})

	t.Run("mark updated only when dirty", func(t *testing.T) {
		p := newProduct()
		later := now.Add(time.Hour)

		p.MarkUpdated("u2", later)
		assert.Equal(t, "u1", p.UpdatedBy())

		p.SetSKU("FLY-1")
		p.MarkUpdated("u2", later)
		assert.Equal(t, "u2", p.UpdatedBy())
		assert.Equal(t, later, p.UpdatedAt())
		assert.True(t, p.Changes().Dirty(FieldUpdatedBy))
	})
}

func TestProduct_Snapshot(t *testing.T) {
	now := time.Now()
	p := ReconstructProduct("id-1", "flyer", "Flyer", "A5", 100, "FLY", 3, []string{"print"}, []string{"eco"}, StatusPublished, "", "", now, now)

	snap := p.Snapshot()
	assert.Equal(t, "Flyer", snap["name"])
	assert.Equal(t, int64(100), snap["price"])
	assert.Equal(t, []string{"print"}, snap["categories"])
	assert.Equal(t, "published", snap["status"])
}

func TestSplitLabels(t *testing.T) {
	assert.Equal(t, []string{"cards", "print"}, SplitLabels("cards, print,,cards "))
	assert.Empty(t, SplitLabels(""))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, s)

	s, err = ParseStatus("Draft")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, s)

	_, err = ParseStatus("deleted")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseBulkAction(t *testing.T) {
	a, err := ParseBulkAction("archive")
	require.NoError(t, err)
	status, ok := a.TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, StatusArchived, status)

	a, err = ParseBulkAction("delete")
	require.NoError(t, err)
	_, ok = a.TargetStatus()
	assert.False(t, ok)

	_, err = ParseBulkAction("explode")
	assert.ErrorIs(t, err, ErrInvalidBulkAction)
}

func TestImagePath(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	assert.Equal(t, "p1/1700000000123-0-card_front.png", ImagePath("p1", at, 0, "card front.png"))
	assert.Equal(t, "p1/1700000000123-2-passwd", ImagePath("p1", at, 2, "../../etc/passwd"))
	assert.Equal(t, "Flyer image 3", ImageAlt("Flyer", 2))
	assert.True(t, IsImageContentType("image/png"))
	assert.False(t, IsImageContentType("application/pdf"))
}

func TestParsePrice(t *testing.T) {
	v, err := ParsePrice(" 500 ")
	require.NoError(t, err)
	assert.Equal(t, int64(500), v)

	for _, raw := range []string{"", "-1", "12.50", "abc"} {
		_, err := ParsePrice(raw)
		assert.ErrorIs(t, err, ErrInvalidPrice, raw)
	}
}

func TestParseStock(t *testing.T) {
	v, err := ParseStock("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	_, err = ParseStock("-2")
	assert.ErrorIs(t, err, ErrInvalidStock)
}
