package stats

import (
	"regexp"
	"strconv"
)

// Counts are the message counts of one translation catalog.
type Counts struct {
	Translated   int
	Fuzzy        int
	Untranslated int
}

// Total returns all messages.
func (c Counts) Total() int { return c.Translated + c.Fuzzy + c.Untranslated }

// NotShown returns the messages a user will not see translated.
func (c Counts) NotShown() int { return c.Fuzzy + c.Untranslated }

// ShownPercent returns the share of translated messages in [0,100].
// A catalog without messages is 0%.
func (c Counts) ShownPercent() float64 {
	all := c.Total()
	if all == 0 {
		return 0
	}
	return 100 * float64(all-c.NotShown()) / float64(all)
}

var (
	labeled  = regexp.MustCompile(`(?P<count>\d+) (?P<kind>translated message|fuzzy translation|untranslated message)`)
	digitRun = regexp.MustCompile(`\d+`)
)

// ParseStatistics reads the text msgfmt --statistics prints, e.g.
//
//	120 translated messages, 4 fuzzy translations, 2 untranslated messages.
//
// msgfmt leaves out categories whose count is zero, so each count is taken
// from its label. Text without any known label (a localized msgfmt, another
// tool) is read positionally as translated, fuzzy, untranslated; missing
// positions count as zero.
func ParseStatistics(text string) Counts {
	var c Counts
	matches := labeled.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		countIdx, kindIdx := labeled.SubexpIndex("count"), labeled.SubexpIndex("kind")
		for _, m := range matches {
			n := atoi(m[countIdx])
			switch m[kindIdx] {
			case "translated message":
				c.Translated = n
			case "fuzzy translation":
				c.Fuzzy = n
			case "untranslated message":
				c.Untranslated = n
			}
		}
		return c
	}

	digits := digitRun.FindAllString(text, -1)
	at := func(i int) int {
		if i < len(digits) {
			return atoi(digits[i])
		}
		return 0
	}
	return Counts{Translated: at(0), Fuzzy: at(1), Untranslated: at(2)}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
