package generation

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/lapakly/lapak-api/internal/domain"
)

// Placeholder phrases rendered when a product has no attributes.
const (
	noAttributesEnglish    = "No specific attributes"
	noAttributesIndonesian = "Tidak ada atribut spesifik"
)

const englishPromptTemplate = `Create an attractive and SEO-friendly product description for the following product:

Title: {{.Title}}
Attributes: {{.Attributes}}

Please provide:
1. A detailed and persuasive product description (200-300 words)
2. 5-8 relevant SEO keywords
3. An appropriate product category

Format response as JSON:
{
  "description": "full description here",
  "keywords": ["keyword 1", "keyword 2", ...],
  "category": "product category"
}`

const indonesianPromptTemplate = `Buat deskripsi produk yang menarik dan SEO-friendly untuk produk berikut:

Judul: {{.Title}}
Atribut: {{.Attributes}}

Tolong berikan:
1. Deskripsi produk yang detail dan persuasif (200-300 kata)
2. 5-8 kata kunci SEO yang relevan
3. Kategori produk yang tepat

Format respons sebagai JSON:
{
  "description": "deskripsi lengkap di sini",
  "keywords": ["kata kunci 1", "kata kunci 2", ...],
  "category": "kategori produk"
}`

var (
	englishPrompt    = template.Must(template.New("prompt_en").Parse(englishPromptTemplate))
	indonesianPrompt = template.Must(template.New("prompt_id").Parse(indonesianPromptTemplate))
)

// promptData is the data passed to the prompt templates.
type promptData struct {
	Title      string
	Attributes string
}

// BuildPrompt renders the model prompt for the given product title, attribute
// mapping, and language. It is pure and deterministic: attribute pairs are
// serialized in ascending key order as "key: value" joined by ", ", so the
// same inputs always yield byte-identical prompt text.
func BuildPrompt(title string, attributes map[string]any, language domain.Language) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}

	var tmpl *template.Template
	var placeholder string
	switch language {
	case domain.LanguageEnglish:
		tmpl = englishPrompt
		placeholder = noAttributesEnglish
	case domain.LanguageIndonesian:
		tmpl = indonesianPrompt
		placeholder = noAttributesIndonesian
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, language)
	}

	attrs := serializeAttributes(attributes)
	if attrs == "" {
		attrs = placeholder
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Title: title, Attributes: attrs}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}

// serializeAttributes renders the attribute mapping as "key: value" pairs.
// Map iteration order is randomized in Go, so keys are sorted to keep the
// prompt deterministic.
func serializeAttributes(attributes map[string]any) string {
	if len(attributes) == 0 {
		return ""
	}

	keys := make([]string, 0, len(attributes))
	for key := range attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", key, attributes[key]))
	}

	return strings.Join(pairs, ", ")
}
