package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var (
	OutlineSchema     = generateSchema[Outline]()
	ManuscriptSchema  = generateSchema[Manuscript]()
	FrontMatterSchema = generateSchema[FrontMatter]()
	ChapterSchema     = generateSchema[Chapter]()
)

func responseFormat(name, description string, schema any) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

func OutlineResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("book_outline", "Chapter plan for a short non-fiction book", OutlineSchema)
}

func ManuscriptResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("book_manuscript", "Complete manuscript following a chapter outline", ManuscriptSchema)
}

func FrontMatterResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("book_front_matter", "Title, blurb and front matter of a book", FrontMatterSchema)
}

func ChapterResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("book_chapter", "One fully written chapter of a book", ChapterSchema)
}
