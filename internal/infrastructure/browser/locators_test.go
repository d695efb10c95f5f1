package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FilingWatch/internal/domain"
)

func TestFieldLocatorOrder(t *testing.T) {
	t.Parallel()

	locs := fieldLocators(domain.KindProductCode)
	require.Len(t, locs, 3)

	assert.Equal(t, "label text", locs[0].name)
	assert.Contains(t, locs[0].sel, "product code")
	assert.Equal(t, "name attribute", locs[1].name)
	assert.Equal(t, `input[name*="product" i]`, locs[1].sel)
	assert.Equal(t, "placeholder", locs[2].name)
	assert.Equal(t, `input[placeholder*="product" i]`, locs[2].sel)
}

func TestFieldLocatorsApplicant(t *testing.T) {
	t.Parallel()

	locs := fieldLocators(domain.KindApplicant)
	require.Len(t, locs, 3)
	assert.Contains(t, locs[0].sel, "applicant name")
	assert.Equal(t, `input[name*="applicant" i]`, locs[1].sel)
}

func TestSubmitLocatorOrder(t *testing.T) {
	t.Parallel()

	locs := submitLocators()
	require.Len(t, locs, 4)
	assert.Equal(t, "button name", locs[0].name)
	assert.Equal(t, `input[type="submit"]`, locs[1].sel)
	assert.Equal(t, "visible text", locs[2].name)
	assert.Equal(t, `input[type="image"]`, locs[3].sel)
}

func TestNextLinkXPathMatchesGlyph(t *testing.T) {
	t.Parallel()

	xp := nextLinkXPath()
	assert.True(t, strings.HasPrefix(xp, "//a["))
	assert.Contains(t, xp, "'next'")
	assert.Contains(t, xp, "normalize-space(.)='>'")
}

func TestLabelInputXPathLowercasesPhrase(t *testing.T) {
	t.Parallel()

	xp := labelInputXPath("Product Code")
	assert.Contains(t, xp, "'product code'")
	assert.Contains(t, xp, "following::input[1]")
	assert.Contains(t, xp, "translate(")
}
