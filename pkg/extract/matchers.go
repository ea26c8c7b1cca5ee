package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/inkloomco/inkloom/pkg/interaction"
)

// Character names are an ASCII heuristic: a capitalized word, optionally
// followed by more capitalized words ("Morgan", "Lady Ashcombe"). Unusual
// names fall through to the model-assisted pass.
const namePattern = `[A-Z][A-Za-z]*(?:[ ][A-Z][A-Za-z]*)*`

var (
	// dialogueHeader matches "Name:" or "Name (emotion):" at line start.
	dialogueHeader = regexp.MustCompile(`(?m)^(` + namePattern + `)(?:[ \t]*\(([^)]+)\))?:[ \t]*`)

	// dialogueParagraph classifies a whole paragraph as dialogue.
	dialogueParagraph = regexp.MustCompile(`^(` + namePattern + `)(?:[ \t]*\([^)]+\))?:`)

	// parenthetical captures stage directions inside a dialogue turn.
	parenthetical = regexp.MustCompile(`\(([^)]+)\)`)

	whitespaceRun = regexp.MustCompile(`[ \t]+`)
)

// locationMatcher is one named prepositional pattern. Matchers run in order;
// the first hit wins.
type locationMatcher struct {
	name string
	re   *regexp.Regexp
}

var locationMatchers = []locationMatcher{
	{name: "in-the", re: regexp.MustCompile(`(?i)\bin (the [a-z]+(?: [a-z]+){0,2})`)},
	{name: "at-the", re: regexp.MustCompile(`(?i)\bat (the [a-z]+(?: [a-z]+){0,2})`)},
	{name: "inside-the", re: regexp.MustCompile(`(?i)\binside (the [a-z]+(?: [a-z]+){0,2})`)},
	{name: "labeled", re: regexp.MustCompile(`(?i)\blocation:[ \t]*([^\n.]+)`)},
}

// plotSentence captures whole sentences carrying plot-bearing verbs.
var plotSentence = regexp.MustCompile(
	`(?i)([^.!?\n]*\b(?:discover(?:s|ed)?|reveal(?:s|ed)?|realiz(?:es|ed)|secret|suddenly|unexpectedly|plan(?:s|ned)?|plot(?:s|ted)?|threat(?:en(?:s|ed)?)?|warn(?:s|ed|ing)?|clue|vanish(?:es|ed)?|myster(?:y|ious))\b[^.!?\n]*[.!?])`,
)

// relationshipMatcher extracts a relationship delta from one sentence shape.
type relationshipMatcher struct {
	name string
	re   *regexp.Regexp
	// build maps the submatches to a RelationshipChange.
	build func(groups []string) interaction.RelationshipChange
}

var simpleName = `[A-Z][a-z]+`

var relationshipMatchers = []relationshipMatcher{
	{
		name: "subject-verb-object",
		re: regexp.MustCompile(`(` + simpleName + `) (?:now )?(trusts|distrusts|suspects|betray(?:s|ed)|forgives|forgave|befriends|befriended|confides in|confided in|grows closer to|grew closer to|turns against|turned against) (` + simpleName + `)`),
		build: func(groups []string) interaction.RelationshipChange {
			return interaction.RelationshipChange{
				Character1: groups[1],
				Character2: groups[3],
				Change:     groups[2],
				Reason:     groups[0],
			}
		},
	},
	{
		name: "between-pair",
		re: regexp.MustCompile(`(?:bond|friendship|trust|rift|tension) between (` + simpleName + `) and (` + simpleName + `) (deepens|deepened|grows|grew|fractures|fractured|strengthens|strengthened|weakens|weakened)`),
		build: func(groups []string) interaction.RelationshipChange {
			return interaction.RelationshipChange{
				Character1: groups[1],
				Character2: groups[2],
				Change:     groups[3],
				Reason:     groups[0],
			}
		},
	},
}

// splitParagraphs splits text into trimmed paragraphs on blank lines.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, chunk := range regexp.MustCompile(`\n[ \t]*\n`).Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			paragraphs = append(paragraphs, chunk)
		}
	}
	return paragraphs
}

// isDialogueParagraph reports whether the paragraph opens with a dialogue
// header.
func isDialogueParagraph(paragraph string) bool {
	return dialogueParagraph.MatchString(paragraph)
}

// matchSceneDescription joins the paragraphs before the first dialogue
// paragraph.
func matchSceneDescription(text string) string {
	var scene []string
	for _, paragraph := range splitParagraphs(text) {
		if isDialogueParagraph(paragraph) {
			break
		}
		scene = append(scene, paragraph)
	}
	return strings.Join(scene, "\n\n")
}

// matchNarrativeProgression joins the non-dialogue paragraphs after the last
// dialogue paragraph.
func matchNarrativeProgression(text string) string {
	paragraphs := splitParagraphs(text)

	lastDialogue := -1
	for i, paragraph := range paragraphs {
		if isDialogueParagraph(paragraph) {
			lastDialogue = i
		}
	}
	if lastDialogue < 0 || lastDialogue == len(paragraphs)-1 {
		return ""
	}

	return strings.Join(paragraphs[lastDialogue+1:], "\n\n")
}

// matchCharacterResponses scans the full text for dialogue turns. Each turn
// runs from its "Name:" header to the next header or end of text.
// Parenthesized substrings become the action and are stripped from the
// dialogue; a "Name (emotion):" header splits into name and emotion.
func matchCharacterResponses(text string) []interaction.CharacterResponse {
	headers := dialogueHeader.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil
	}

	responses := make([]interaction.CharacterResponse, 0, len(headers))
	for i, header := range headers {
		name := text[header[2]:header[3]]

		emotion := ""
		if header[4] >= 0 {
			emotion = text[header[4]:header[5]]
		}

		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		turn := strings.TrimSpace(text[header[1]:end])

		var actions []string
		for _, m := range parenthetical.FindAllStringSubmatch(turn, -1) {
			actions = append(actions, strings.TrimSpace(m[1]))
		}

		dialogue := parenthetical.ReplaceAllString(turn, "")
		dialogue = strings.TrimSpace(whitespaceRun.ReplaceAllString(dialogue, " "))

		responses = append(responses, interaction.CharacterResponse{
			CharacterName: name,
			Dialogue:      dialogue,
			Action:        strings.Join(actions, "; "),
			Emotion:       emotion,
		})
	}

	return responses
}

// locationStopwords are connective words the prepositional patterns can trail
// into; they are trimmed off the captured phrase.
var locationStopwords = map[string]bool{
	"with": true, "and": true, "as": true, "while": true, "when": true,
	"that": true, "to": true, "for": true, "from": true, "but": true, "or": true,
}

// matchLocation runs the ordered location matchers; first match wins.
func matchLocation(text string) string {
	for _, matcher := range locationMatchers {
		if m := matcher.re.FindStringSubmatch(text); m != nil {
			return cleanLocation(m[1])
		}
	}
	return ""
}

func cleanLocation(phrase string) string {
	words := strings.Fields(strings.TrimSpace(phrase))
	for len(words) > 1 && locationStopwords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// matchPlotDevelopments collects plot-bearing sentences in order of
// appearance.
func matchPlotDevelopments(text string) []string {
	var developments []string
	for _, m := range plotSentence.FindAllStringSubmatch(text, -1) {
		developments = append(developments, strings.TrimSpace(m[1]))
	}
	return developments
}

// matchRelationshipChanges runs every relationship matcher over the text and
// returns hits in order of appearance.
func matchRelationshipChanges(text string) []interaction.RelationshipChange {
	type hit struct {
		pos    int
		change interaction.RelationshipChange
	}

	var hits []hit
	for _, matcher := range relationshipMatchers {
		for _, idx := range matcher.re.FindAllStringSubmatchIndex(text, -1) {
			groups := make([]string, 0, len(idx)/2)
			for g := 0; g < len(idx); g += 2 {
				if idx[g] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, text[idx[g]:idx[g+1]])
			}
			hits = append(hits, hit{pos: idx[0], change: matcher.build(groups)})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	changes := make([]interaction.RelationshipChange, 0, len(hits))
	for _, h := range hits {
		changes = append(changes, h.change)
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
