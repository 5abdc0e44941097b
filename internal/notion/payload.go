package notion

import "time"

// Typed request payloads for the Notion API. Property values are built
// through the helpers below and serialized only at the HTTP boundary.

type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

func newRichText(content string) RichText {
	return RichText{Type: "text", Text: TextContent{Content: content}}
}

// Property is one page property value. Exactly one member is set,
// matching the property's configured kind.
type Property struct {
	Title    []RichText   `json:"title,omitempty"`
	RichText []RichText   `json:"rich_text,omitempty"`
	URL      string       `json:"url,omitempty"`
	Date     *DateValue   `json:"date,omitempty"`
	Select   *SelectValue `json:"select,omitempty"`
}

type DateValue struct {
	Start string `json:"start"`
}

type SelectValue struct {
	Name string `json:"name"`
}

func titleProperty(text string) Property {
	return Property{Title: []RichText{newRichText(text)}}
}

func richTextProperty(chunks []RichText) Property {
	return Property{RichText: chunks}
}

func urlProperty(u string) Property {
	return Property{URL: u}
}

func dateProperty(t time.Time) Property {
	return Property{Date: &DateValue{Start: t.Format(time.RFC3339)}}
}

func selectProperty(name string) Property {
	return Property{Select: &SelectValue{Name: name}}
}

type databaseParent struct {
	DatabaseID string `json:"database_id"`
}

type pageCreateRequest struct {
	Parent     databaseParent      `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Children   []Block             `json:"children,omitempty"`
}

type pageResponse struct {
	ID string `json:"id"`
}

// PropertyConfig describes a property kind for schema updates. Exactly
// one member is set.
type PropertyConfig struct {
	RichText *struct{}     `json:"rich_text,omitempty"`
	URL      *struct{}     `json:"url,omitempty"`
	Date     *struct{}     `json:"date,omitempty"`
	Select   *SelectConfig `json:"select,omitempty"`
}

type SelectConfig struct {
	Options []SelectOption `json:"options"`
}

type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func richTextConfig() PropertyConfig {
	return PropertyConfig{RichText: &struct{}{}}
}

func urlConfig() PropertyConfig {
	return PropertyConfig{URL: &struct{}{}}
}

func dateConfig() PropertyConfig {
	return PropertyConfig{Date: &struct{}{}}
}

func selectConfig(options ...SelectOption) PropertyConfig {
	return PropertyConfig{Select: &SelectConfig{Options: options}}
}

type databaseUpdateRequest struct {
	Properties map[string]PropertyConfig `json:"properties"`
}

type databaseResponse struct {
	Properties map[string]struct {
		Type string `json:"type"`
	} `json:"properties"`
}

type queryRequest struct {
	Filter   *propertyFilter `json:"filter,omitempty"`
	PageSize int             `json:"page_size,omitempty"`
}

type propertyFilter struct {
	Property string         `json:"property"`
	URL      *textCondition `json:"url,omitempty"`
}

type textCondition struct {
	Contains string `json:"contains"`
}

type queryResponse struct {
	Results []pageResponse `json:"results"`
	HasMore bool           `json:"has_more"`
}

// Block is one page body block. Exactly one content member is set,
// named after Type.
type Block struct {
	Object           string        `json:"object"`
	Type             string        `json:"type"`
	Paragraph        *blockContent `json:"paragraph,omitempty"`
	Heading1         *blockContent `json:"heading_1,omitempty"`
	Heading2         *blockContent `json:"heading_2,omitempty"`
	Heading3         *blockContent `json:"heading_3,omitempty"`
	Quote            *blockContent `json:"quote,omitempty"`
	BulletedListItem *blockContent `json:"bulleted_list_item,omitempty"`
}

type blockContent struct {
	RichText []RichText `json:"rich_text"`
}

func newBlock(kind, text string) Block {
	content := &blockContent{RichText: []RichText{newRichText(text)}}
	b := Block{Object: "block", Type: kind}
	switch kind {
	case "heading_1":
		b.Heading1 = content
	case "heading_2":
		b.Heading2 = content
	case "heading_3":
		b.Heading3 = content
	case "quote":
		b.Quote = content
	case "bulleted_list_item":
		b.BulletedListItem = content
	default:
		b.Type = "paragraph"
		b.Paragraph = content
	}
	return b
}
