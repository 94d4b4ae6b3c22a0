package catalog

import (
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/glorpus-work/tenget/internal/logger"
	"github.com/glorpus-work/tenget/pkg/model"
)

// The downloads site is a Next.js application; the full catalog is embedded
// in the page as a JSON bootstrap document inside a marked script element.
const (
	markerTag       = "script"
	markerAttrKey   = "id"
	markerAttrValue = "__NEXT_DATA__"
)

// rawProduct is one product line exactly as it appears in the bootstrap
// document, before artifact metadata extraction.
type rawProduct struct {
	ProductName  string           `json:"product_name"`
	SortOrder    string           `json:"sort_order"`
	ReleaseNotes string           `json:"release_notes"`
	Version      string           `json:"version"`
	Downloads    []model.Artifact `json:"downloads"`
}

// pageData mirrors the fragment of the bootstrap document the decoder cares
// about; everything else in the document is ignored.
type pageData struct {
	Props struct {
		PageProps struct {
			Products map[string]rawProduct `json:"products"`
		} `json:"pageProps"`
	} `json:"props"`
}

// decodeProducts scans an HTML document for the marked bootstrap script and
// decodes the per-product catalog data from it. A page without the marker, or
// with malformed embedded JSON, yields nil: the callers treat that as "no
// catalog available" rather than a hard failure.
func decodeProducts(r io.Reader) map[string]rawProduct {
	raw := extractMarkedScript(r)
	if raw == "" {
		return nil
	}

	var page pageData
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		logger.Debugf("discarding malformed catalog data: %v", err)
		return nil
	}
	return page.Props.PageProps.Products
}

// extractMarkedScript accumulates the text content of the script element
// carrying the marker attribute. It returns the empty string when the
// document contains no such element or it is never closed.
func extractMarkedScript(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)

	var data strings.Builder
	inMarked := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			token := tokenizer.Token()
			if token.Data == markerTag && hasMarkerAttr(token.Attr) {
				inMarked = true
			}
		case html.TextToken:
			if inMarked {
				data.Write(tokenizer.Text())
			}
		case html.EndTagToken:
			token := tokenizer.Token()
			if token.Data == markerTag && inMarked {
				return data.String()
			}
		}
	}
}

func hasMarkerAttr(attrs []html.Attribute) bool {
	for _, attr := range attrs {
		if attr.Key == markerAttrKey && attr.Val == markerAttrValue {
			return true
		}
	}
	return false
}
