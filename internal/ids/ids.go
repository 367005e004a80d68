// Package ids generates budget slugs and record identifiers.
package ids

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Generator produces slugs for share URLs and IDs for stored records.
type Generator interface {
	// Slug returns a human-readable adjective-color-animal slug, e.g. "happy-blue-tiger".
	Slug() string
	// ID returns a new unique record identifier.
	ID() string
}

// Random is the production Generator.
type Random struct{}

var _ Generator = Random{}

func (Random) Slug() string {
	return strings.Join([]string{pick(adjectives), pick(colors), pick(animals)}, "-")
}

func (Random) ID() string {
	return uuid.New().String()
}

func pick(words []string) string {
	return words[rand.IntN(len(words))]
}

var slugPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// IsValidSlug reports whether s looks like a generated slug:
// lowercase words joined by hyphens, 5 to 50 characters.
func IsValidSlug(s string) bool {
	return len(s) >= 5 && len(s) <= 50 && slugPattern.MatchString(s)
}

var adjectives = []string{
	"able", "brave", "bright", "calm", "clever", "cozy", "curious", "daring", "eager", "fair",
	"fancy", "gentle", "glad", "grand", "happy", "honest", "humble", "jolly", "keen", "kind",
	"lively", "lucky", "merry", "mighty", "modest", "neat", "nimble", "noble", "patient", "plucky",
	"polite", "proud", "quick", "quiet", "rapid", "shiny", "silly", "smart", "snug", "steady",
	"sunny", "swift", "tidy", "upbeat", "vivid", "warm", "wise", "witty", "young", "zesty",
}

var colors = []string{
	"amber", "aqua", "azure", "beige", "black", "blue", "bronze", "brown", "coral", "crimson",
	"cyan", "gold", "gray", "green", "indigo", "ivory", "jade", "lavender", "lime", "magenta",
	"maroon", "mint", "navy", "olive", "orange", "peach", "pink", "plum", "purple", "red",
	"rose", "ruby", "salmon", "sapphire", "silver", "tan", "teal", "turquoise", "violet", "white",
	"yellow",
}

var animals = []string{
	"badger", "bat", "bear", "beaver", "bison", "cat", "cheetah", "crab", "crane", "deer",
	"dingo", "dolphin", "eagle", "falcon", "ferret", "finch", "fox", "frog", "gecko", "goose",
	"hawk", "hedgehog", "heron", "koala", "lemur", "lion", "llama", "lynx", "moose", "newt",
	"otter", "owl", "panda", "parrot", "penguin", "puffin", "rabbit", "raven", "seal", "shark",
	"sloth", "swan", "tiger", "toad", "turtle", "walrus", "whale", "wolf", "wombat", "zebra",
}
