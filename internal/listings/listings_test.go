package listings

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchWithQuery(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/listings?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, SearchListings(c))
	return rec
}

// Malformed rate bounds must be caught before any query is issued.
func TestSearchListingsRejectsNonNumericRates(t *testing.T) {
	rec := searchWithQuery(t, "min_rate=cheap")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "min_rate")

	rec = searchWithQuery(t, "max_rate=12abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "max_rate")

	rec = searchWithQuery(t, "min_rate=9.5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
