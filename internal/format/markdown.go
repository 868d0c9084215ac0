package format

import (
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// spanRe matches **bold** or `code`; spans are consumed left to right so
// offsets of earlier entities stay valid.
var spanRe = regexp.MustCompile("\\*\\*(.+?)\\*\\*|`([^`]+?)`")

// UTF16Len calculates the UTF-16 length of a string
// This is required because Telegram uses UTF-16 code units for entity offsets/lengths
func UTF16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2 // Non-BMP characters (surrogate pairs)
			} else {
				length += 1
			}
		}
	}
	return length
}

// ParseMarkdown converts **bold** and `code` spans to Telegram message entities.
// Provider and medication names are free text, so no other markup is
// interpreted and no Telegram parse mode is needed.
func ParseMarkdown(text string) ParseResult {
	var entities []tgbotapi.MessageEntity
	// trim before offsets are computed so no entity runs past the text
	result := strings.TrimRight(text, " \n")

	searchStart := 0
	for {
		loc := spanRe.FindStringSubmatchIndex(result[searchStart:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] != -1 {
				loc[i] += searchStart
			}
		}

		fullStart, fullEnd := loc[0], loc[1]
		entityType := "bold"
		innerText := ""
		if loc[2] != -1 {
			innerText = result[loc[2]:loc[3]]
		} else {
			entityType = "code"
			innerText = result[loc[4]:loc[5]]
		}

		entities = append(entities, tgbotapi.MessageEntity{
			Type:   entityType,
			Offset: UTF16Len(result[:fullStart]),
			Length: UTF16Len(innerText),
		})

		// Remove the markers but keep the inner text
		result = result[:fullStart] + innerText + result[fullEnd:]
		searchStart = fullStart + len(innerText)
	}

	return ParseResult{
		Text:     result,
		Entities: entities,
	}
}
