package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogPage = `<!DOCTYPE html>
<html>
<head><title>Downloads</title></head>
<body>
<div id="__next">catalog</div>
<script>window.analytics = {};</script>
<script id="__NEXT_DATA__" type="application/json">{
  "props": {
    "pageProps": {
      "products": {
        "nessus-agents-10.6.1": {
          "product_name": "Nessus Agents - 10.6.1",
          "version": "10.6.1",
          "release_notes": "https://docs.tenable.com/release-notes",
          "downloads": [
            {
              "id": 22712,
              "file": "NessusAgent-10.6.1-ubuntu1404_amd64.deb",
              "name": "NessusAgent-10.6.1-ubuntu1404_amd64.deb",
              "size": 25513220,
              "description": "Ubuntu 14.04 (amd64)",
              "meta_data": {
                "md5": "fe9b44c351bc026609158cca3e44f11c",
                "sha256": "0ea2f72a7d3a9e7dfcd59712388136fd15f61c310effb22d5b8d8de44314b141",
                "version": "10.6.1",
                "product": "Nessus Agents - 10.6.1"
              }
            },
            {
              "id": 22713,
              "file": "NessusAgent-10.6.1-el8.aarch64.rpm",
              "name": "NessusAgent-10.6.1-el8.aarch64.rpm",
              "size": 21034011,
              "description": "Red Hat ES 8 (aarch64)"
            }
          ]
        }
      }
    }
  }
}</script>
</body>
</html>`

func TestDecodeProducts(t *testing.T) {
	products := decodeProducts(strings.NewReader(catalogPage))
	require.Len(t, products, 1)

	product, ok := products["nessus-agents-10.6.1"]
	require.True(t, ok)
	assert.Equal(t, "Nessus Agents - 10.6.1", product.ProductName)
	assert.Equal(t, "10.6.1", product.Version)
	require.Len(t, product.Downloads, 2)
	assert.Equal(t, int64(22712), product.Downloads[0].ID)
	assert.Equal(t, "NessusAgent-10.6.1-ubuntu1404_amd64.deb", product.Downloads[0].Name)
	assert.Equal(t, "fe9b44c351bc026609158cca3e44f11c", product.Downloads[0].Metadata.MD5)
	// Second download carries no metadata block; fields stay unset until
	// extraction runs.
	assert.Empty(t, product.Downloads[1].Metadata.OS)
}

func TestDecodeProducts_NoMarkerElement(t *testing.T) {
	page := `<html><body><script>var x = 1;</script></body></html>`

	assert.Nil(t, decodeProducts(strings.NewReader(page)))
}

func TestDecodeProducts_MalformedData(t *testing.T) {
	page := `<html><body><script id="__NEXT_DATA__">{"props": {</script></body></html>`

	assert.Nil(t, decodeProducts(strings.NewReader(page)))
}

func TestDecodeProducts_UnclosedMarkerElement(t *testing.T) {
	page := `<html><body><script id="__NEXT_DATA__">{"props": {}}`

	assert.Nil(t, decodeProducts(strings.NewReader(page)))
}

func TestDecodeProducts_EmptyDocument(t *testing.T) {
	assert.Nil(t, decodeProducts(strings.NewReader("")))
}

func TestDecodeProducts_MissingProductsPath(t *testing.T) {
	page := `<html><body><script id="__NEXT_DATA__">{"props": {"pageProps": {}}}</script></body></html>`

	assert.Empty(t, decodeProducts(strings.NewReader(page)))
}
