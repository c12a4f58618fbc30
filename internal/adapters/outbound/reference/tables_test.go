package reference_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/flooring/internal/adapters/outbound/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTaxes(t *testing.T) {
	path := writeTable(t, "State,StateName,TaxRate\nFL,Florida,0.06\n\ntx,Texas,0.0445\n")

	taxes, err := reference.LoadTaxes(path)
	require.NoError(t, err)

	rate, ok := taxes.TaxRateFor("FL")
	require.True(t, ok)
	assert.Equal(t, "0.06", rate.String())

	rate, ok = taxes.TaxRateFor("tx")
	require.True(t, ok)
	assert.Equal(t, "0.0445", rate.String())

	_, ok = taxes.TaxRateFor("ZZ")
	assert.False(t, ok)

	states := taxes.States()
	require.Len(t, states, 2)
	assert.Equal(t, "FL", states[0].Abbreviation)
	assert.Equal(t, "Texas", states[1].Name)
}

func TestLoadTaxes_NoHeader(t *testing.T) {
	path := writeTable(t, "CA,California,0.0625\n")

	taxes, err := reference.LoadTaxes(path)
	require.NoError(t, err)
	_, ok := taxes.TaxRateFor("CA")
	assert.True(t, ok)
}

func TestLoadTaxes_MalformedRate(t *testing.T) {
	path := writeTable(t, "FL,Florida,0.06\nTX,Texas,high\n")

	_, err := reference.LoadTaxes(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadTaxes_MalformedFirstRowIsReported(t *testing.T) {
	path := writeTable(t, "FL,Florida,abc\nTX,Texas,0.0445\n")

	_, err := reference.LoadTaxes(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadProducts_MalformedFirstRowIsReported(t *testing.T) {
	path := writeTable(t, "Tile,3.50,cheap\n")

	_, err := reference.LoadProducts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadTaxes_HeaderVariants(t *testing.T) {
	path := writeTable(t, "State Abbreviation,State Name,Tax Rate\nFL,Florida,0.06\n")

	taxes, err := reference.LoadTaxes(path)
	require.NoError(t, err)
	assert.Len(t, taxes.States(), 1)
}

func TestLoadTaxes_WrongFieldCount(t *testing.T) {
	path := writeTable(t, "FL,Florida\n")

	_, err := reference.LoadTaxes(path)
	assert.Error(t, err)
}

func TestLoadTaxes_MissingFile(t *testing.T) {
	_, err := reference.LoadTaxes(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadProducts(t *testing.T) {
	path := writeTable(t, "ProductType,CostPerSquareFoot,LaborCostPerSquareFoot\nTile,3.50,4.15\nWood,5.15,4.75\n")

	catalog, err := reference.LoadProducts(path)
	require.NoError(t, err)

	p, ok := catalog.ProductPricing("tile")
	require.True(t, ok)
	assert.Equal(t, "Tile", p.ProductType)
	assert.Equal(t, "3.50", p.CostPerArea.StringFixed(2))
	assert.Equal(t, "4.15", p.LaborCostPerArea.StringFixed(2))

	_, ok = catalog.ProductPricing("Marble")
	assert.False(t, ok)

	products := catalog.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Tile", products[0].ProductType)
}
