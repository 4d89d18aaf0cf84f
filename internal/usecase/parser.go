package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/liadelivery/backend/internal/domain"
)

// Compiled regex patterns for line-item extraction
var (
	// Matches a boundary between two items inside one line: a comma followed
	// by a digit ("2 galinha, 1 coca") or the word "e" between a lowercase
	// letter and a digit ("2 galinha e 1 coca"). RE2 has no lookaround, so
	// the boundary groups are captured and the cut points computed manually.
	itemBoundaryPattern = regexp.MustCompile(`(?i)(,\s*)(\d)|([a-záéíóúãõ])(\s+e\s+)(\d)`)

	// Leading quantity: "2 x galinha", "2x galinha", "2 galinha"
	quantityPattern = regexp.MustCompile(`^(\d+)\s*[xX]?\s*`)

	// "sem <word>" observations
	semObservationPattern = regexp.MustCompile(`(?i)\s+sem\s+([\p{L}\p{N}_]+)`)

	// "com <list>" additions, delimited by a trailing observation/modifier
	// keyword or end of string. The keyword is captured so it can be kept in
	// the remaining text instead of being consumed with the list.
	additionsPattern = regexp.MustCompile(`(?i)\s+com\s+(.+?)(\s+(?:sem|bem|mal|cortado|aberto|no prato)\b|$)`)

	additionListSplitPattern = regexp.MustCompile(`(?i)\s+e\s+|,\s*`)

	leadingArticlePattern = regexp.MustCompile(`(?i)^(um|uma|o|a|os|as|de|do|da)\s+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// Cooking-style observation patterns, most specific first so "cortado ao
// meio" wins over bare "cortado".
var observationPatterns = []struct {
	pattern     *regexp.Regexp
	observation string
}{
	{regexp.MustCompile(`(?i)\s+bem\s+passado`), "bem passado"},
	{regexp.MustCompile(`(?i)\s+mal\s+passado`), "mal passado"},
	{regexp.MustCompile(`(?i)\s+ao\s+ponto`), "ao ponto"},
	{regexp.MustCompile(`(?i)\s+cortado\s+ao\s+meio`), "cortado ao meio"},
	{regexp.MustCompile(`(?i)\s+cortado`), "cortado"},
}

// Known slang/modifier tokens. "aberto" is recorded as "no prato" so the
// resolver sees a single canonical modifier. "no prato" must run before the
// bare "aberto" pattern.
var modifierPatterns = []struct {
	pattern  *regexp.Regexp
	modifier string
}{
	{regexp.MustCompile(`(?i)\s+careca\b`), "careca"},
	{regexp.MustCompile(`(?i)\s+completo\b`), "completo"},
	{regexp.MustCompile(`(?i)\s+no\s+prato\b`), "no prato"},
	{regexp.MustCompile(`(?i)\s+aberto\s+no\s+prato\b`), "no prato"},
	{regexp.MustCompile(`(?i)\s+aberto\b`), "no prato"},
}

// Observation keywords that must not be collected as addition phrases when
// they show up inside a "com ..." list.
var observationKeywords = []string{
	"bem passado", "mal passado", "ao ponto",
	"cortado ao meio", "cortado", "sem",
	"aberto", "no prato",
}

// Parser extracts discrete line items from free-text order messages. It is a
// pure function of its input: no I/O, never fails on malformed text.
type Parser struct {
	enableDebugLogging bool
}

// NewParser creates a new order text parser
func NewParser(enableDebugLogging bool) *Parser {
	return &Parser{enableDebugLogging: enableDebugLogging}
}

// Parse transforms free order text into parsed line items. Blank input and
// chunks with no residual product phrase yield no items.
func (p *Parser) Parse(orderText string) []domain.ParsedLineItem {
	if strings.TrimSpace(orderText) == "" {
		return nil
	}

	var items []domain.ParsedLineItem
	for _, chunk := range splitIntoChunks(orderText) {
		item := p.parseChunk(chunk)
		if item != nil {
			items = append(items, *item)
		}
	}

	if p.enableDebugLogging {
		log.Printf("[PARSE] %d line item(s) from %q", len(items), orderText)
	}

	return items
}

// splitIntoChunks splits the text into one chunk per line item. Physical
// lines are always boundaries; whitespace runs collapse only within a line.
func splitIntoChunks(text string) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		line = multiSpacePattern.ReplaceAllString(strings.TrimSpace(line), " ")
		if line == "" {
			continue
		}
		for _, part := range splitItemBoundaries(line) {
			part = strings.TrimSpace(part)
			if part != "" {
				chunks = append(chunks, part)
			}
		}
	}
	return chunks
}

// splitItemBoundaries cuts one line at item boundaries, keeping the digit
// that starts the next item and, for the "e" form, the letter that ends the
// previous one.
func splitItemBoundaries(line string) []string {
	var parts []string
	for {
		m := itemBoundaryPattern.FindStringSubmatchIndex(line)
		if m == nil {
			break
		}
		if m[2] >= 0 {
			// comma form: cut before the comma, resume at the digit
			parts = append(parts, line[:m[2]])
			line = line[m[4]:]
		} else {
			// "e" form: keep the letter, drop " e ", resume at the digit
			parts = append(parts, line[:m[7]])
			line = line[m[10]:]
		}
	}
	return append(parts, line)
}

// parseChunk runs the destructive extraction sequence over one chunk:
// quantity, observations, additions, modifiers; the residue is the product
// phrase. Order is fixed: observations must leave "sem X" out of addition
// lists, and additions must consume "no prato" list entries before the
// modifier pass sees them.
func (p *Parser) parseChunk(chunk string) *domain.ParsedLineItem {
	original := chunk

	quantity, remaining := extractQuantity(chunk)
	remaining, observations := extractObservations(remaining)
	remaining, additions := extractAdditions(remaining)
	remaining, modifiers := extractModifiers(remaining)

	productPhrase := strings.TrimSpace(remaining)
	productPhrase = leadingArticlePattern.ReplaceAllString(productPhrase, "")
	if productPhrase == "" {
		return nil
	}

	return &domain.ParsedLineItem{
		OriginalText:       original,
		Quantity:           quantity,
		ProductPhrase:      productPhrase,
		Modifiers:          modifiers,
		AdditionPhrases:    additions,
		ObservationPhrases: observations,
	}
}

func extractQuantity(text string) (int, string) {
	m := quantityPattern.FindStringSubmatch(text)
	if m == nil {
		return 1, text
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty < 1 {
		qty = 1
	}
	return qty, strings.TrimSpace(text[len(m[0]):])
}

func extractObservations(text string) (string, []string) {
	var observations []string

	for _, m := range semObservationPattern.FindAllStringSubmatch(text, -1) {
		observations = append(observations, "sem "+m[1])
	}
	text = semObservationPattern.ReplaceAllString(text, "")

	for _, op := range observationPatterns {
		if op.pattern.MatchString(text) {
			observations = append(observations, op.observation)
			text = op.pattern.ReplaceAllString(text, "")
		}
	}

	return strings.TrimSpace(text), observations
}

func extractAdditions(text string) (string, []string) {
	m := additionsPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return strings.TrimSpace(text), nil
	}

	list := text[m[2]:m[3]]
	// excise " com <list>" only; the delimiting keyword stays in the text
	// for the modifier pass
	text = text[:m[0]] + text[m[4]:]

	var additions []string
	for _, part := range additionListSplitPattern.Split(list, -1) {
		part = strings.TrimSpace(part)
		if part != "" && !isObservationKeyword(part) {
			additions = append(additions, part)
		}
	}

	return strings.TrimSpace(text), additions
}

func isObservationKeyword(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range observationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func extractModifiers(text string) (string, []string) {
	var modifiers []string
	for _, mp := range modifierPatterns {
		if mp.pattern.MatchString(text) {
			modifiers = append(modifiers, mp.modifier)
			text = mp.pattern.ReplaceAllString(text, "")
		}
	}
	return strings.TrimSpace(text), modifiers
}
