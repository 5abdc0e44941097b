package notion

import "strings"

const (
	// titleBudget caps the title property length.
	titleBudget = 100
	// segmentLimit is Notion's per-rich-text-segment character cap.
	segmentLimit = 2000
	// maxChildBlocks is Notion's per-request block cap.
	maxChildBlocks = 100

	ellipsis = "…"
)

// truncateTitle cuts text to the title budget, breaking at a word
// boundary when the nearest space isn't too far back (at least 70% of
// the budget in), then appends an ellipsis.
func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleBudget {
		return text
	}

	truncated := runes[:titleBudget-1]

	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}
	if lastSpace > titleBudget*7/10 {
		truncated = truncated[:lastSpace]
	}

	return string(truncated) + ellipsis
}

// chunkText splits text into consecutive rich-text segments of at most
// segmentLimit characters. Empty text yields one empty segment, never
// zero.
func chunkText(text string) []RichText {
	runes := []rune(text)
	if len(runes) == 0 {
		return []RichText{newRichText("")}
	}

	chunks := make([]RichText, 0, (len(runes)+segmentLimit-1)/segmentLimit)
	for start := 0; start < len(runes); start += segmentLimit {
		end := start + segmentLimit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, newRichText(string(runes[start:end])))
	}
	return chunks
}

// textToBlocks converts markdown-ish text into page body blocks:
// paragraphs separated by blank lines, with heading, quote and bullet
// prefixes recognized. Long paragraphs split into multiple blocks.
func textToBlocks(text string) []Block {
	var blocks []Block

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		switch {
		case strings.HasPrefix(para, "# "):
			blocks = append(blocks, newBlock("heading_1", clip(para[2:])))
		case strings.HasPrefix(para, "## "):
			blocks = append(blocks, newBlock("heading_2", clip(para[3:])))
		case strings.HasPrefix(para, "### "):
			blocks = append(blocks, newBlock("heading_3", clip(para[4:])))
		case strings.HasPrefix(para, "> "):
			blocks = append(blocks, newBlock("quote", clip(para[2:])))
		case strings.HasPrefix(para, "• "):
			blocks = append(blocks, newBlock("bulleted_list_item", clip(strings.TrimPrefix(para, "• "))))
		default:
			for _, chunk := range chunkText(para) {
				blocks = append(blocks, newBlock("paragraph", chunk.Text.Content))
			}
		}
	}

	if len(blocks) > maxChildBlocks {
		blocks = blocks[:maxChildBlocks]
	}
	return blocks
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > segmentLimit {
		return string(runes[:segmentLimit])
	}
	return s
}
