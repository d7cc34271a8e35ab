package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultMarkers())
	require.NoError(t, err)
	return c
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "add to bag", Normalize("  Add\n\tto   BAG  "))
	assert.Equal(t, "", Normalize(" \n "))
}

func TestClassifyOutOfStockTakesPrecedence(t *testing.T) {
	c := defaultClassifier(t)

	v := c.ClassifyText("<button>Add to Bag</button> <p>Sorry, this item is SOLD OUT</p>")
	assert.Equal(t, OutOfStock, v.Signal)
	assert.Equal(t, ScopePage, v.Scope)
	assert.Equal(t, "sold out", v.Marker)
	assert.Contains(t, v.Evidence, "sold out")
}

func TestClassifyInStockOnly(t *testing.T) {
	c := defaultClassifier(t)

	v := c.ClassifyText("Black Leather Jacket  £120  Add to Bag")
	assert.Equal(t, InStock, v.Signal)
	assert.Equal(t, "add", v.Marker)
}

func TestClassifyNoMarkers(t *testing.T) {
	c := defaultClassifier(t)

	assert.Equal(t, Unknown, c.ClassifyText("Product details, size guide and delivery").Signal)
	assert.Equal(t, Unknown, c.ClassifyText("").Signal)
	assert.Equal(t, Unknown, c.Classify(Page{}).Signal)
}

func TestClassifyWholeWordOnly(t *testing.T) {
	c := defaultClassifier(t)

	v := c.ClassifyText("Additional information: padded shoulders, address on file")
	assert.Equal(t, Unknown, v.Signal)

	v = c.ClassifyText("Stockists of sold-outlet goods")
	assert.Equal(t, Unknown, v.Signal, "sold-outlet must not match 'sold out'")
}

func TestClassifyActionScopeWins(t *testing.T) {
	c := defaultClassifier(t)

	// page text mentions a sold out colourway, but the CTA is live
	v := c.Classify(Page{
		Actions: []string{"Size guide", "ADD TO BAG"},
		Text:    "Blue: sold out. Black: add to bag",
	})
	assert.Equal(t, InStock, v.Signal)
	assert.Equal(t, ScopeActions, v.Scope)
}

func TestClassifyActionScopeOutOfStockPrecedence(t *testing.T) {
	c := defaultClassifier(t)

	v := c.Classify(Page{
		Actions: []string{"Add", "Out of stock"},
		Text:    "add to bag",
	})
	assert.Equal(t, OutOfStock, v.Signal)
	assert.Equal(t, ScopeActions, v.Scope)
}

func TestClassifyFallsBackToPage(t *testing.T) {
	c := defaultClassifier(t)

	v := c.Classify(Page{
		Actions: []string{"Size guide", "Wishlist"},
		Text:    "<div>Not available</div>",
	})
	assert.Equal(t, OutOfStock, v.Signal)
	assert.Equal(t, ScopePage, v.Scope)
}

func TestClassifyLocalizedMarkers(t *testing.T) {
	c, err := NewClassifier(Markers{
		InStock:    []string{"In den Warenkorb", "ajouter au panier"},
		OutOfStock: []string{"Ausverkauft", "épuisé"},
	})
	require.NoError(t, err)

	assert.Equal(t, OutOfStock, c.ClassifyText("Dieser Artikel ist AUSVERKAUFT.").Signal)
	assert.Equal(t, OutOfStock, c.ClassifyText("Taille M : épuisé").Signal)
	assert.Equal(t, InStock, c.ClassifyText("Ajouter au panier").Signal)
	assert.Equal(t, Unknown, c.ClassifyText("épuisées").Signal)
}

func TestNewClassifierValidation(t *testing.T) {
	_, err := NewClassifier(Markers{})
	assert.ErrorIs(t, err, ErrNoMarkers)

	_, err = NewClassifier(Markers{InStock: []string{"add", "  "}})
	assert.ErrorIs(t, err, ErrEmptyMarker)
}

func TestSignalCodes(t *testing.T) {
	for _, s := range []Signal{InStock, OutOfStock, Unknown} {
		got, err := ParseCode(s.Code())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseCode("x")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
